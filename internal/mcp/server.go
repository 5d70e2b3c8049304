// Package mcp implements the MCP protocol driver for the ring clock.
package mcp

import (
	"log/slog"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients during initialization.
var Version = "0.1.0"

// Server wraps the MCP server implementation.
type Server struct {
	mcpServer *server.MCPServer
	shared    *clock.Shared
	lazyTick  bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRequestTicking makes clock_read advance the clock when a tick is due.
func WithRequestTicking(on bool) ServerOption {
	return func(s *Server) {
		s.lazyTick = on
	}
}

// NewServer creates a new MCP server exposing shared as tools.
func NewServer(shared *clock.Shared, opts ...ServerOption) *Server {
	mcpServer := server.NewMCPServer(
		"ringclock",
		Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		shared:    shared,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio transport. Logs must not go to stdout
// while it runs.
func (s *Server) Run() error {
	slog.Info("starting MCP server on stdio transport")
	return server.ServeStdio(s.mcpServer)
}
