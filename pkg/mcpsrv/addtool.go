package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/exemplar-mcp/internal/mcp/tools"
)

// AddTool registers a tool after checking that the zero value of the output
// type passes the schema the SDK infers for it. Nil slices marshal as null
// while the inferred schema says "array", which the SDK would otherwise only
// reject when the tool first returns one.
//
// Panics with the offending field when the check fails.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
