// Package realdialog provides a TUI-based DialogProvider using charmbracelet/huh.
package realdialog

import (
	"github.com/acolita/ringclock/internal/ports"
)

// Provider implements ports.DialogProvider by running huh forms on the
// controlling terminal.
type Provider struct {
	accessible bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithAccessible switches the forms to huh's accessible mode, which prompts
// line by line instead of drawing a full-screen TUI.
func WithAccessible(on bool) Option {
	return func(p *Provider) {
		p.accessible = on
	}
}

// New returns a new TUI dialog provider.
func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AdjustTimeForm shows the adjust-time form prefilled with prefill.
func (p *Provider) AdjustTimeForm(prefill ports.TimeFormData) (ports.TimeFormData, error) {
	return runAdjustForm(prefill, p.accessible)
}
