// Package mcp exposes example inference over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/exemplar-mcp/internal/mcp/prompts"
	"github.com/usestring/exemplar-mcp/internal/mcp/tools"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// Server holds the SDK server and the dependencies its handlers share.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps
}

type serverOptions struct {
	tools   bool
	prompts bool
	extra   []func(*sdkmcp.Server)
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*serverOptions)

// WithBuiltinTools registers the exemplar tools and the example resource.
func WithBuiltinTools() ServerOption {
	return func(o *serverOptions) { o.tools = true }
}

// WithBuiltinPrompts registers the builtin prompts.
func WithBuiltinPrompts() ServerOption {
	return func(o *serverOptions) { o.prompts = true }
}

// WithCustomRegistration runs fn against the SDK server after the builtins,
// so it can add tools, prompts or resources of its own.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(o *serverOptions) { o.extra = append(o.extra, fn) }
}

// NewServer creates the MCP server. deps must carry a config, a store and
// an inference engine.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil || deps.Config == nil || deps.Store == nil || deps.Inference == nil {
		return nil, errors.New("deps must carry config, store and inference engine")
	}

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		mcpServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "exemplar-mcp", Version: Version}, nil),
		deps:      deps,
	}
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware())

	if o.tools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if o.prompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			LinkMarker:   deps.Config.LinkMarker,
			IgnoreFields: deps.Config.IgnoreFields,
		})
	}
	for _, fn := range o.extra {
		fn(s.mcpServer)
	}
	return s, nil
}

// Run serves the stdio transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// HTTPHandler serves the streamable HTTP transport. Every session shares
// the same store.
func (s *Server) HTTPHandler() http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.mcpServer
	}, nil)
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}

// Deps returns the dependencies the builtin tools run against.
func (s *Server) Deps() *tools.Deps {
	return s.deps
}
