package mcpsrv

import (
	"github.com/usestring/exemplar-mcp/internal/config"
	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/internal/query"
	"github.com/usestring/exemplar-mcp/internal/store"
)

// Deps contains the infrastructure shared by builtin and custom tools:
// the document store, the cached inference engine and the jq engine.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	Inference *inference.Engine
	Query     *query.Engine
}
