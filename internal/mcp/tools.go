package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxTickCount bounds clock_tick to one full turn of the dial.
const maxTickCount = 12 * 60 * 60

const descComponent = "Leave unset to keep the current value. Out-of-range values are ignored."

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(clockReadTool(), s.handleClockRead)
	s.mcpServer.AddTool(clockSyncTool(), s.handleClockSync)
	s.mcpServer.AddTool(clockAdjustTool(), s.handleClockAdjust)
	s.mcpServer.AddTool(clockTickTool(), s.handleClockTick)
}

// Tool definitions

func clockReadTool() mcp.Tool {
	return mcp.NewTool("clock_read",
		mcp.WithDescription("Read the current 12-hour clock time"),
	)
}

func clockSyncTool() mcp.Tool {
	return mcp.NewTool("clock_sync",
		mcp.WithDescription("Reset the clock to the system wall-clock time"),
	)
}

func clockAdjustTool() mcp.Tool {
	return mcp.NewTool("clock_adjust",
		mcp.WithDescription("Set the clock hands to the given position"),
		mcp.WithNumber("hour",
			mcp.Description("Hour, 1-12. "+descComponent),
		),
		mcp.WithNumber("minute",
			mcp.Description("Minute, 0-59. "+descComponent),
		),
		mcp.WithNumber("second",
			mcp.Description("Second, 0-59. "+descComponent),
		),
	)
}

func clockTickTool() mcp.Tool {
	return mcp.NewTool("clock_tick",
		mcp.WithDescription("Advance the clock by a number of seconds, carrying into minutes and hours"),
		mcp.WithNumber("count",
			mcp.Description(fmt.Sprintf("Number of seconds to advance, 1-%d (default: 1)", maxTickCount)),
		),
	)
}

// reading is the JSON shape returned by every clock tool.
type reading struct {
	clock.Time
	Display string `json:"display"`
}

func newReading(t clock.Time) reading {
	return reading{Time: t, Display: t.String()}
}

// Tool handlers

func (s *Server) handleClockRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.lazyTick {
		t, _ := s.shared.TickIfDue()
		return jsonResult(newReading(t))
	}
	return jsonResult(newReading(s.shared.Snapshot()))
}

func (s *Server) handleClockSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t := s.shared.Sync()
	slog.Info("clock synchronized", slog.String("reading", t.String()))
	return jsonResult(newReading(t))
}

func (s *Server) handleClockAdjust(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// -1 is outside every ring, so an omitted component stays unchanged.
	hour := mcp.ParseInt(req, "hour", -1)
	minute := mcp.ParseInt(req, "minute", -1)
	second := mcp.ParseInt(req, "second", -1)

	t := s.shared.SetTime(hour, minute, second)
	slog.Info("clock adjusted",
		slog.Int("hour", hour),
		slog.Int("minute", minute),
		slog.Int("second", second),
		slog.String("reading", t.String()),
	)
	return jsonResult(newReading(t))
}

func (s *Server) handleClockTick(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := mcp.ParseInt(req, "count", 1)
	if count < 1 || count > maxTickCount {
		return mcp.NewToolResultError(fmt.Sprintf("count must be between 1 and %d", maxTickCount)), nil
	}

	return jsonResult(newReading(s.shared.Advance(count)))
}

// jsonResult converts a value to a JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
