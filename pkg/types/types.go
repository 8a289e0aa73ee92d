// Package types provides shared types for exemplar-mcp.
// These types are used across multiple packages and are designed for external consumption.
package types

// ResourceRef points to an MCP resource.
type ResourceRef struct {
	URI  string `json:"uri"`
	MIME string `json:"mime"`
	Hint string `json:"hint,omitempty"`
}
