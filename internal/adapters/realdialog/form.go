package realdialog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/ports"
	"github.com/charmbracelet/huh"
)

// componentField is one editable hand of the clock.
type componentField struct {
	title string
	min   int
	max   int
	value string
}

func newComponentField(title string, v, lo, hi int) *componentField {
	return &componentField{title: title, min: lo, max: hi, value: strconv.Itoa(v)}
}

func (f *componentField) validate(s string) error {
	_, err := parseComponent(s, f.min, f.max)
	return err
}

func (f *componentField) input() *huh.Input {
	return huh.NewInput().
		Title(f.title).
		Description(fmt.Sprintf("%d-%d", f.min, f.max)).
		CharLimit(2).
		Validate(f.validate).
		Value(&f.value)
}

// parseComponent parses s as an integer within [lo, hi].
func parseComponent(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("enter a number")
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return v, nil
}

// prefillHour maps a missing or invalid hour to 12, the top of the dial.
func prefillHour(h int) int {
	if !clock.ValidHour(h) {
		return clock.MaxHour
	}
	return h
}

func runAdjustForm(prefill ports.TimeFormData, accessible bool) (ports.TimeFormData, error) {
	hour := newComponentField("Hour", prefillHour(prefill.Hour), clock.MinHour, clock.MaxHour)
	minute := newComponentField("Minute", prefill.Minute, clock.MinMinute, clock.MaxMinute)
	second := newComponentField("Second", prefill.Second, clock.MinSecond, clock.MaxSecond)

	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			hour.input(),
			minute.input(),
			second.input(),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Set the clock to this time?").
				Value(&confirmed),
		),
	).WithAccessible(accessible)

	if err := form.Run(); err != nil {
		return prefill, err
	}

	return collect(hour, minute, second, confirmed)
}

func collect(hour, minute, second *componentField, confirmed bool) (ports.TimeFormData, error) {
	var result ports.TimeFormData
	var err error
	if result.Hour, err = parseComponent(hour.value, hour.min, hour.max); err != nil {
		return result, fmt.Errorf("hour: %w", err)
	}
	if result.Minute, err = parseComponent(minute.value, minute.min, minute.max); err != nil {
		return result, fmt.Errorf("minute: %w", err)
	}
	if result.Second, err = parseComponent(second.value, second.min, second.max); err != nil {
		return result, fmt.Errorf("second: %w", err)
	}
	result.Confirmed = confirmed
	return result, nil
}
