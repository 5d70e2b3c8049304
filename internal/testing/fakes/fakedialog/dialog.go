// Package fakedialog provides a test fake for ports.DialogProvider.
package fakedialog

import "github.com/acolita/ringclock/internal/ports"

// Provider is a controllable fake DialogProvider for testing.
type Provider struct {
	// Result is the form data returned by AdjustTimeForm.
	Result ports.TimeFormData
	// Err is the error returned by AdjustTimeForm.
	Err error
	// Called tracks whether AdjustTimeForm was invoked.
	Called bool
	// ReceivedPrefill captures the prefill data passed to AdjustTimeForm.
	ReceivedPrefill ports.TimeFormData
}

// New returns a new fake dialog provider.
func New() *Provider {
	return &Provider{}
}

// AdjustTimeForm returns the pre-configured Result and Err.
func (p *Provider) AdjustTimeForm(prefill ports.TimeFormData) (ports.TimeFormData, error) {
	p.Called = true
	p.ReceivedPrefill = prefill
	if p.Err != nil {
		return prefill, p.Err
	}
	return p.Result, nil
}

// Ensure Provider implements ports.DialogProvider.
var _ ports.DialogProvider = (*Provider)(nil)
