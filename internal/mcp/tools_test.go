package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/testing/fakes/fakeclock"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

func newTestServer(t *testing.T, opts ...ServerOption) (*Server, *clock.Shared, *fakeclock.Clock) {
	t.Helper()
	clk := fakeclock.New(time.Date(2024, 5, 1, 10, 15, 30, 0, time.UTC))
	e, err := clock.New(clk, clock.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("clock.New() error: %v", err)
	}
	shared := clock.NewShared(e, clk, time.Second)
	return NewServer(shared, opts...), shared, clk
}

func makeRequest(args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(result *mcpgo.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	tc, ok := mcpgo.AsTextContent(result.Content[0])
	if !ok {
		return ""
	}
	return tc.Text
}

func resultReading(t *testing.T, result *mcpgo.CallToolResult) reading {
	t.Helper()
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
	text := resultText(result)
	var r reading
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		t.Fatalf("failed to parse result JSON: %v (text: %s)", err, text)
	}
	return r
}

// --- handleClockRead ---

func TestHandleClockRead(t *testing.T) {
	srv, _, clk := newTestServer(t)

	result, err := srv.handleClockRead(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := resultReading(t, result)
	if r.Time != (clock.Time{Hour: 10, Minute: 15, Second: 30}) {
		t.Errorf("time = %v, want 10:15:30", r.Time)
	}
	if r.Display != "10:15:30" {
		t.Errorf("display = %q, want 10:15:30", r.Display)
	}

	clk.Advance(10 * time.Second)
	result, _ = srv.handleClockRead(context.Background(), makeRequest(nil))
	if r := resultReading(t, result); r.Second != 30 {
		t.Errorf("second = %d without request ticking, want 30", r.Second)
	}
}

func TestHandleClockRead_RequestTicking(t *testing.T) {
	srv, _, clk := newTestServer(t, WithRequestTicking(true))

	clk.Advance(10 * time.Second)
	result, _ := srv.handleClockRead(context.Background(), makeRequest(nil))
	// One tick per read, however long it has been.
	if r := resultReading(t, result); r.Second != 31 {
		t.Errorf("second = %d, want 31", r.Second)
	}

	result, _ = srv.handleClockRead(context.Background(), makeRequest(nil))
	if r := resultReading(t, result); r.Second != 31 {
		t.Errorf("second = %d on immediate re-read, want 31", r.Second)
	}
}

// --- handleClockSync ---

func TestHandleClockSync(t *testing.T) {
	srv, shared, clk := newTestServer(t)
	shared.SetTime(1, 2, 3)
	clk.Set(time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC))

	result, err := srv.handleClockSync(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r := resultReading(t, result); r.Time != (clock.Time{Hour: 11, Minute: 59, Second: 59}) {
		t.Errorf("time = %v, want 11:59:59", r.Time)
	}
}

// --- handleClockAdjust ---

func TestHandleClockAdjust(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want clock.Time
	}{
		{
			name: "all components",
			args: map[string]any{"hour": float64(12), "minute": float64(0), "second": float64(5)},
			want: clock.Time{Hour: 12, Minute: 0, Second: 5},
		},
		{
			name: "only minute",
			args: map[string]any{"minute": float64(45)},
			want: clock.Time{Hour: 10, Minute: 45, Second: 30},
		},
		{
			name: "hour zero ignored",
			args: map[string]any{"hour": float64(0), "second": float64(0)},
			want: clock.Time{Hour: 10, Minute: 15, Second: 0},
		},
		{
			name: "out of range ignored",
			args: map[string]any{"hour": float64(13), "minute": float64(60), "second": float64(-2)},
			want: clock.Time{Hour: 10, Minute: 15, Second: 30},
		},
		{
			name: "no arguments",
			args: nil,
			want: clock.Time{Hour: 10, Minute: 15, Second: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, shared, _ := newTestServer(t)

			result, err := srv.handleClockAdjust(context.Background(), makeRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r := resultReading(t, result); r.Time != tt.want {
				t.Errorf("time = %v, want %v", r.Time, tt.want)
			}
			if got := shared.Snapshot(); got != tt.want {
				t.Errorf("Snapshot() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- handleClockTick ---

func TestHandleClockTick(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    clock.Time
		wantErr string
	}{
		{name: "default one", args: nil, want: clock.Time{Hour: 10, Minute: 15, Second: 31}},
		{name: "carry into hour", args: map[string]any{"count": float64(2670)}, want: clock.Time{Hour: 11, Minute: 0, Second: 0}},
		{name: "full turn", args: map[string]any{"count": float64(maxTickCount)}, want: clock.Time{Hour: 10, Minute: 15, Second: 30}},
		{name: "zero", args: map[string]any{"count": float64(0)}, wantErr: "count must be between"},
		{name: "too many", args: map[string]any{"count": float64(maxTickCount + 1)}, wantErr: "count must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, shared, _ := newTestServer(t)
			before := shared.Snapshot()

			result, err := srv.handleClockTick(context.Background(), makeRequest(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantErr != "" {
				if !result.IsError {
					t.Fatal("expected tool error")
				}
				if !strings.Contains(resultText(result), tt.wantErr) {
					t.Errorf("error = %q, want %q", resultText(result), tt.wantErr)
				}
				if got := shared.Snapshot(); got != before {
					t.Errorf("clock moved on rejected tick: %v", got)
				}
				return
			}

			if r := resultReading(t, result); r.Time != tt.want {
				t.Errorf("time = %v, want %v", r.Time, tt.want)
			}
		})
	}
}

// --- Tool definitions ---

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool   mcpgo.Tool
		name   string
		params []string
	}{
		{tool: clockReadTool(), name: "clock_read"},
		{tool: clockSyncTool(), name: "clock_sync"},
		{tool: clockAdjustTool(), name: "clock_adjust", params: []string{"hour", "minute", "second"}},
		{tool: clockTickTool(), name: "clock_tick", params: []string{"count"}},
	}

	for _, tt := range tests {
		if tt.tool.Name != tt.name {
			t.Errorf("Name=%q, want %q", tt.tool.Name, tt.name)
		}
		if tt.tool.Description == "" {
			t.Errorf("%s: Description should not be empty", tt.name)
		}
		for _, p := range tt.params {
			if _, ok := tt.tool.InputSchema.Properties[p]; !ok {
				t.Errorf("%s: missing parameter %q", tt.name, p)
			}
		}
		if len(tt.tool.InputSchema.Required) != 0 {
			t.Errorf("%s: Required=%v, want none", tt.name, tt.tool.InputSchema.Required)
		}
	}
}
