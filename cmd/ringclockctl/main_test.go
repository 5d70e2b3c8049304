package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/client"
	"github.com/acolita/ringclock/internal/config"
	"github.com/acolita/ringclock/internal/httpapi"
	"github.com/acolita/ringclock/internal/ports"
	"github.com/acolita/ringclock/internal/testing/fakes/fakeclock"
	"github.com/acolita/ringclock/internal/testing/fakes/fakedialog"
)

func newTestCLI(t *testing.T, dialog ports.DialogProvider) (*cli, *bytes.Buffer, *clock.Shared) {
	t.Helper()
	clk := fakeclock.New(time.Date(2024, 5, 1, 9, 41, 0, 0, time.UTC))
	e, err := clock.New(clk, clock.WithLocation(time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	shared := clock.NewShared(e, clk, time.Second)
	srv := httpapi.NewServer(config.HTTPConfig{}, shared,
		httpapi.WithClock(clk),
		httpapi.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, client.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &cli{client: c, dialog: dialog, out: &out}, &out, shared
}

func TestRun_Time(t *testing.T) {
	c, out, _ := newTestCLI(t, &fakedialog.Provider{})

	if err := c.run(context.Background(), []string{"time"}); err != nil {
		t.Fatalf("run(time) error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "09:41:00" {
		t.Errorf("output = %q, want 09:41:00", got)
	}
}

func TestRun_TimeJSON(t *testing.T) {
	c, out, _ := newTestCLI(t, &fakedialog.Provider{})
	c.jsonOut = true

	if err := c.run(context.Background(), []string{"time"}); err != nil {
		t.Fatalf("run(time) error: %v", err)
	}
	if !strings.Contains(out.String(), `"display":"09:41:00"`) {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_AdjustArgs(t *testing.T) {
	c, out, shared := newTestCLI(t, &fakedialog.Provider{})

	if err := c.run(context.Background(), []string{"adjust", "-", "15", "-"}); err != nil {
		t.Fatalf("run(adjust) error: %v", err)
	}
	if got := shared.Snapshot(); got != (clock.Time{Hour: 9, Minute: 15, Second: 0}) {
		t.Errorf("Snapshot() = %v, want 09:15:00", got)
	}
	if got := strings.TrimSpace(out.String()); got != "09:15:00" {
		t.Errorf("output = %q", got)
	}
}

func TestRun_AdjustForm(t *testing.T) {
	dialog := &fakedialog.Provider{
		Result: ports.TimeFormData{Hour: 12, Minute: 1, Second: 2, Confirmed: true},
	}
	c, _, shared := newTestCLI(t, dialog)

	if err := c.run(context.Background(), []string{"adjust"}); err != nil {
		t.Fatalf("run(adjust) error: %v", err)
	}
	if !dialog.Called {
		t.Fatal("form was not shown")
	}
	if dialog.ReceivedPrefill != (ports.TimeFormData{Hour: 9, Minute: 41, Second: 0}) {
		t.Errorf("prefill = %+v, want current time", dialog.ReceivedPrefill)
	}
	if got := shared.Snapshot(); got != (clock.Time{Hour: 12, Minute: 1, Second: 2}) {
		t.Errorf("Snapshot() = %v, want 12:01:02", got)
	}
}

func TestRun_AdjustFormCancelled(t *testing.T) {
	dialog := &fakedialog.Provider{
		Result: ports.TimeFormData{Hour: 1, Minute: 1, Second: 1},
	}
	c, out, shared := newTestCLI(t, dialog)

	if err := c.run(context.Background(), []string{"adjust"}); err != nil {
		t.Fatalf("run(adjust) error: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled") {
		t.Errorf("output = %q", out.String())
	}
	if got := shared.Snapshot(); got != (clock.Time{Hour: 9, Minute: 41, Second: 0}) {
		t.Errorf("clock changed after cancel: %v", got)
	}
}

func TestRun_AdjustFormError(t *testing.T) {
	dialog := &fakedialog.Provider{Err: errors.New("no tty")}
	c, _, _ := newTestCLI(t, dialog)

	err := c.run(context.Background(), []string{"adjust"})
	if err == nil || !strings.Contains(err.Error(), "no tty") {
		t.Errorf("error = %v, want form error", err)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	c, _, _ := newTestCLI(t, &fakedialog.Provider{})

	for _, args := range [][]string{
		nil,
		{"rewind"},
		{"adjust", "1"},
		{"adjust", "x", "0", "0"},
		{"adjust", "-3", "0", "0"},
	} {
		err := c.run(context.Background(), args)
		if !errors.Is(err, errUsage) {
			t.Errorf("run(%q) error = %v, want usage error", args, err)
		}
	}
}
