package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/pkg/types"
)

// InferExampleInput is the input for exemplar_infer_example.
type InferExampleInput struct {
	TypeName     string   `json:"type_name,omitempty" jsonschema:"Stored collection to infer (from exemplar_add_documents). Either type_name or content is required."`
	Content      string   `json:"content,omitempty" jsonschema:"Inline payload to infer without storing it. Either content or type_name is required."`
	ContentType  string   `json:"content_type,omitempty" jsonschema:"Media type or short name of content (json, ndjson, yaml, xml, html, csv, form). Default: json"`
	Select       string   `json:"select,omitempty" jsonschema:"jq expression picking the documents out of content"`
	RecordPath   string   `json:"record_path,omitempty" jsonschema:"XPath selecting record elements when content is XML/HTML"`
	TypeLabel    string   `json:"type_label,omitempty" jsonschema:"Prefix of conflict selectors (default: type_name, or empty for inline content)"`
	IgnoreFields []string `json:"ignore_fields,omitempty" jsonschema:"Top-level fields to leave out. Omit for the server default (id, parent, children, internal); pass [] to keep everything"`
	Compact      *bool    `json:"compact,omitempty" jsonschema:"Trim long arrays, strings and deep nesting in the example (default: true)"`
}

// ToolInferExample merges documents into one example value and reports
// fields whose types disagree.
func ToolInferExample(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferExampleInput) (*sdkmcp.CallToolResult, types.InferExampleOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferExampleInput) (*sdkmcp.CallToolResult, types.InferExampleOutput, error) {
		if input.TypeName == "" && input.Content == "" {
			return nil, types.InferExampleOutput{}, ErrInvalidInput("either type_name or content is required")
		}
		if input.TypeName != "" && input.Content != "" {
			return nil, types.InferExampleOutput{}, ErrInvalidInput("type_name and content are mutually exclusive")
		}

		compact := true
		if input.Compact != nil {
			compact = *input.Compact
		}

		if input.TypeName != "" {
			out, err := d.Inference.InferType(ctx, inference.Request{
				TypeName:     input.TypeName,
				TypeLabel:    input.TypeLabel,
				IgnoreFields: input.IgnoreFields,
				Compact:      compact,
			})
			if err != nil {
				return nil, types.InferExampleOutput{}, WrapError(err)
			}
			out.Resource = ExampleResource(input.TypeName)
			return nil, *out, nil
		}

		decoded, err := d.DecodeContent(input.Content, input.ContentType, input.Select, input.RecordPath)
		if err != nil {
			return nil, types.InferExampleOutput{}, err
		}

		res := d.Inference.InferDocuments(ctx, decoded.Documents, input.TypeLabel, input.IgnoreFields)
		out := d.Inference.Present(res.Output(d.Config.CompactOptions()), compact)
		if len(decoded.Warnings) > 0 && out.Hint == "" {
			out.Hint = "Decoding warnings: " + decoded.Warnings[0]
		}
		return nil, *out, nil
	}
}
