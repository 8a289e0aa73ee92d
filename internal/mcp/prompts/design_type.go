package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleDesignType walks from stored documents to a type definition.
func HandleDesignType(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		typeName := ""
		language := "TypeScript"
		if args != nil {
			if v, ok := args["type_name"]; ok {
				typeName = strings.TrimSpace(v)
			}
			if v, ok := args["language"]; ok && strings.TrimSpace(v) != "" {
				language = strings.TrimSpace(v)
			}
		}
		if typeName == "" {
			return nil, fmt.Errorf("type_name is required")
		}

		var sb strings.Builder

		sb.WriteString(fmt.Sprintf("# Design the `%s` Type\n\n", typeName))
		sb.WriteString("You are a data modeling expert. Derive a precise type definition from sample documents, ")
		sb.WriteString("keeping optional fields optional and resolving fields whose samples disagree.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Check coverage** - See which fields every document carries\n")
		sb.WriteString("   - Fields with frequency 1.0 are required; the rest are optional\n")
		sb.WriteString("   - Pass `selector` to sample documents missing a field\n\n")
		sb.WriteString("2. **Infer the example** - One representative value per field\n")
		sb.WriteString("   - Use the example's values to pick scalar types (string, integer, float, boolean)\n")
		sb.WriteString("   - Nested objects become nested types; arrays keep their element shape\n\n")
		sb.WriteString("3. **Resolve conflicts** - Each conflict lists one example per observed type\n")
		sb.WriteString("   - Decide between a union, a wider type, or ignoring the field\n")
		sb.WriteString("   - Re-run inference with `ignore_fields` to confirm the rest is clean\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		sb.WriteString(fmt.Sprintf("exemplar_field_coverage(type_name: %q)\n", typeName))
		sb.WriteString(fmt.Sprintf("exemplar_infer_example(type_name: %q)\n", typeName))
		sb.WriteString(fmt.Sprintf("# full value if the compacted example hides detail\nread exemplar://example/%s\n", typeName))
		sb.WriteString("```\n\n")

		sb.WriteString("## Output\n\n")
		sb.WriteString(fmt.Sprintf("Write the `%s` definition in %s. ", typeName, language))
		sb.WriteString("Mark optional fields, note every conflict you resolved and how.\n")
		if cfg.LinkMarker != "" {
			sb.WriteString(fmt.Sprintf("Fields ending in `%s` reference other types; model them as references, not embedded values.\n", cfg.LinkMarker))
		}

		return &sdkmcp.GetPromptResult{
			Description: fmt.Sprintf("Guide for designing the %s type from stored documents", typeName),
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
