// Package prompts contains MCP prompt implementations for exemplar-mcp.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	LinkMarker   string
	IgnoreFields []string
}
