// Package mcpserver exposes read-only progress and report tools over the
// Model Context Protocol.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/neurotrack/neurotrack/internal/store"
)

// Deps are the collaborators the tools read from.
type Deps struct {
	Store        *store.Store
	UserName     string
	DefaultScore int
	Logger       *zap.Logger
}

// New creates the MCP server with every tool registered.
func New(version string, d Deps) *server.MCPServer {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"neurotrack",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Read-only access to a NeuroTrack user's score, memory test history and health report."),
	)

	status := NewStatusTool(d.Store.KVRepo(), d.DefaultScore, d.Logger)
	s.AddTool(status.Definition(), status.Handle)

	history := NewTrialHistoryTool(d.Store.TrialRepo())
	s.AddTool(history.Definition(), history.Handle)

	rep := NewReportTool(d.Store, d.UserName, d.DefaultScore, d.Logger)
	s.AddTool(rep.Definition(), rep.Handle)

	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
