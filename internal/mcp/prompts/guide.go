package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleGuide serves the tool usage guide.
func HandleGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Exemplar Tool Guide\n\n")

		sb.WriteString("## Loading Documents\n\n")
		sb.WriteString("| Payload | content_type | Extra parameter |\n")
		sb.WriteString("|---------|--------------|-----------------|\n")
		sb.WriteString("| JSON array or object | `application/json` (default) | `select` (jq) for wrapped payloads |\n")
		sb.WriteString("| One JSON value per line | `application/x-ndjson` | |\n")
		sb.WriteString("| YAML, multi-document | `application/yaml` | |\n")
		sb.WriteString("| XML records | `application/xml` | `record_path` (XPath, default `/*/*`) |\n")
		sb.WriteString("| HTML | `text/html` | JSON-LD blocks, or `record_path` for elements |\n")
		sb.WriteString("| CSV / TSV | `text/csv`, `text/tab-separated-values` | first row is the header |\n")
		sb.WriteString("| Form data | `application/x-www-form-urlencoded` | one document per line |\n")
		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- Only objects become documents; top-level scalars are skipped with a warning\n")
		sb.WriteString("- Text cells (CSV, XML, form) are coerced: `true`/`false`, numbers and empty values; zero-padded codes stay strings\n")
		sb.WriteString("- Documents accumulate per type name; `replace: true` starts over\n")

		sb.WriteString("\n## Reading the Example\n")
		sb.WriteString("- Every field seen in any document appears once with one representative value\n")
		sb.WriteString("- Numbers become a fractional value when any sample is fractional or exceeds 32-bit integers\n")
		sb.WriteString("- Nested objects are merged recursively; arrays keep the first element's shape\n")
		if cfg.LinkMarker != "" {
			sb.WriteString(fmt.Sprintf("- Fields ending in `%s` are links: their values are concatenated\n", cfg.LinkMarker))
		}
		if len(cfg.IgnoreFields) > 0 {
			sb.WriteString(fmt.Sprintf("- Top-level fields %s are ignored unless `ignore_fields` overrides them\n", quoteAll(cfg.IgnoreFields)))
		}

		sb.WriteString("\n## Conflicts\n")
		sb.WriteString("- A field whose samples disagree on type is left out of the example\n")
		sb.WriteString("- `conflicts[].examples` holds the first value of each type with its `document_index`\n")
		sb.WriteString("- Fix the data, or drop the field with `ignore_fields`, then infer again\n")

		sb.WriteString("\n## Tips\n")
		sb.WriteString("- `exemplar_field_coverage` shows which fields are optional before you infer\n")
		sb.WriteString("- Examples are compacted by default; read `exemplar://example/{type}` for the full value\n")
		sb.WriteString("- Results are cached until the type's documents change\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for the exemplar tools",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}
