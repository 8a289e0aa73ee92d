// Package tools contains MCP tool implementations for exemplar-mcp.
package tools

import (
	"net/url"

	"github.com/usestring/exemplar-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// ExampleResourceScheme prefixes example resource URIs.
const ExampleResourceScheme = "exemplar://example/"

// ExampleResource points to the example resource of a stored type.
func ExampleResource(typeName string) *types.ResourceRef {
	return &types.ResourceRef{
		URI:  ExampleResourceScheme + url.PathEscape(typeName),
		MIME: MimeJSON,
		Hint: "Full, uncompacted example with conflict details",
	}
}
