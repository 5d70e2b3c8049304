// Package logging configures structured logging for ringclock.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// level is shared by every handler built by this package so the level can be
// changed at runtime (config hot reload).
var level = new(slog.LevelVar)

// ParseLevel maps a level name to a slog.Level. Unknown names map to Info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler returns a JSON or text handler writing to w.
// format is "json" (default) or "text".
func NewHandler(w io.Writer, format string, leveler slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: leveler}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// New builds a standalone logger writing to w at a fixed level.
func New(w io.Writer, levelName, format string) *slog.Logger {
	return slog.New(NewHandler(w, format, ParseLevel(levelName)))
}

// Setup initializes the global logger writing to stderr.
// Stdout is left alone because the MCP driver speaks its protocol there.
func Setup(levelName, format string) {
	SetLevel(levelName)
	slog.SetDefault(slog.New(NewHandler(os.Stderr, format, level)))
}

// SetLevel changes the level of the logger installed by Setup.
func SetLevel(levelName string) {
	level.Set(ParseLevel(levelName))
}

// Level returns the current level of the logger installed by Setup.
func Level() slog.Level {
	return level.Level()
}
