package mcpsrv

import (
	"context"
	"fmt"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/exemplar-mcp/internal/cache"
	"github.com/usestring/exemplar-mcp/internal/config"
	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/internal/logging"
	"github.com/usestring/exemplar-mcp/internal/mcp"
	"github.com/usestring/exemplar-mcp/internal/mcp/tools"
	"github.com/usestring/exemplar-mcp/internal/query"
	"github.com/usestring/exemplar-mcp/internal/store"
)

// Server is the exemplar MCP server. All sessions, stdio or HTTP, share
// one document store.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer builds a server with the builtin tools, example resource and
// prompts. Settings load from the environment unless WithConfig is given.
func NewServer(opts ...Option) (*Server, error) {
	sc := &serverConfig{}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.config == nil {
		sc.config = config.Load()
	}
	cfg := sc.config

	logCleanup, err := logging.Setup(logConfig(sc))
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	deps, err := newDeps(cfg)
	if err != nil {
		_ = logCleanup()
		return nil, err
	}

	internalOpts := []mcp.ServerOption{}
	if !sc.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !sc.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	for _, fn := range sc.registrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range sc.depsRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(&tools.Deps{
		Config:    deps.Config,
		Store:     deps.Store,
		Inference: deps.Inference,
		Query:     deps.Query,
	}, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

func logConfig(sc *serverConfig) logging.Config {
	cfg := sc.config
	lc := logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
	if sc.logLevel != "" {
		lc.Level = sc.logLevel
	}
	if sc.logFormat != "" {
		lc.Format = sc.logFormat
	}
	if sc.logFile != "" {
		lc.FilePath = sc.logFile
	}
	return lc
}

func newDeps(cfg *config.Config) (*Deps, error) {
	results, err := cache.NewResultCache(cfg.ResultCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	st := store.New(cfg.MaxDocumentsPerType)
	return &Deps{
		Config:    cfg,
		Store:     st,
		Inference: inference.NewEngine(st, results, cfg),
		Query:     query.NewEngine(),
	}, nil
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// HTTPHandler serves MCP over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return s.internal.HTTPHandler()
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// Close flushes and closes the log file, if any.
func (s *Server) Close() error {
	if s.logCleanup == nil {
		return nil
	}
	return s.logCleanup()
}
