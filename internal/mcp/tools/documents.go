package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/exemplar-mcp/internal/store"
	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/jsoncompact"
	"github.com/usestring/exemplar-mcp/pkg/types"
)

// AddDocumentsInput is the input for exemplar_add_documents.
type AddDocumentsInput struct {
	TypeName    string `json:"type_name" jsonschema:"Name of the collection to add to, e.g. the node type (Post, Author)"`
	Content     string `json:"content" jsonschema:"Raw payload: JSON array/object, NDJSON, YAML, XML, HTML, CSV or form data"`
	ContentType string `json:"content_type,omitempty" jsonschema:"Media type or short name of content (json, ndjson, yaml, xml, html, csv, form). Default: json"`
	Select      string `json:"select,omitempty" jsonschema:"jq expression picking the documents out of a wrapper payload, e.g. .data.posts[]"`
	RecordPath  string `json:"record_path,omitempty" jsonschema:"XPath selecting record elements in XML/HTML. XML defaults to children of the root; HTML without it reads JSON-LD blocks"`
	Replace     bool   `json:"replace,omitempty" jsonschema:"Drop the collection's existing documents first"`
}

// ToolAddDocuments decodes a payload and stores its documents under a type
// name.
func ToolAddDocuments(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input AddDocumentsInput) (*sdkmcp.CallToolResult, types.AddDocumentsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input AddDocumentsInput) (*sdkmcp.CallToolResult, types.AddDocumentsOutput, error) {
		typeName := strings.TrimSpace(input.TypeName)
		if typeName == "" {
			return nil, types.AddDocumentsOutput{}, ErrInvalidInput("type_name is required")
		}
		if strings.TrimSpace(input.Content) == "" {
			return nil, types.AddDocumentsOutput{}, ErrInvalidInput("content is required")
		}

		decoded, err := d.DecodeContent(input.Content, input.ContentType, input.Select, input.RecordPath)
		if err != nil {
			return nil, types.AddDocumentsOutput{}, err
		}

		var res store.AddResult
		if input.Replace {
			res, err = d.Store.Replace(typeName, decoded.Documents)
		} else {
			res, err = d.Store.Add(typeName, decoded.Documents)
		}
		if err != nil {
			return nil, types.AddDocumentsOutput{}, WrapError(err)
		}

		batchID := uuid.NewString()
		slog.InfoContext(ctx, "documents added",
			slog.String("batch_id", batchID),
			slog.String("type_name", typeName),
			slog.Int("added", res.Added),
			slog.Int("total", res.Total),
			slog.Bool("replace", input.Replace),
		)

		output := types.AddDocumentsOutput{
			BatchID:    batchID,
			TypeName:   typeName,
			Added:      res.Added,
			Total:      res.Total,
			Generation: res.Generation,
			Warnings:   decoded.Warnings,
		}
		if res.Added == 0 {
			output.Hint = "No documents were decoded. Check content_type, or use select to reach the documents inside a wrapper payload."
		} else {
			output.Hint = fmt.Sprintf("Call exemplar_infer_example with type_name=%q to merge the %d stored documents.", typeName, res.Total)
		}

		return nil, output, nil
	}
}

// ListTypesInput is the input for exemplar_list_types.
type ListTypesInput struct{}

// ToolListTypes lists the stored collections.
func ToolListTypes(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListTypesInput) (*sdkmcp.CallToolResult, types.ListTypesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListTypesInput) (*sdkmcp.CallToolResult, types.ListTypesOutput, error) {
		infos := d.Store.Types()

		output := types.ListTypesOutput{Total: len(infos)}
		for _, info := range infos {
			output.Types = append(output.Types, types.TypeSummary{
				TypeName:   info.Name,
				Documents:  info.Documents,
				Fields:     info.Fields,
				Generation: info.Generation,
				UpdatedAt:  info.UpdatedAt,
			})
		}

		return nil, output, nil
	}
}

// ResetTypeInput is the input for exemplar_reset_type.
type ResetTypeInput struct {
	TypeName string `json:"type_name" jsonschema:"Collection to drop"`
}

// ResetTypeOutput is the output for exemplar_reset_type.
type ResetTypeOutput struct {
	TypeName string `json:"type_name"`
	Removed  bool   `json:"removed"`
}

// ToolResetType drops a stored collection.
func ToolResetType(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResetTypeInput) (*sdkmcp.CallToolResult, ResetTypeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResetTypeInput) (*sdkmcp.CallToolResult, ResetTypeOutput, error) {
		if input.TypeName == "" {
			return nil, ResetTypeOutput{}, ErrInvalidInput("type_name is required")
		}
		removed := d.Store.Reset(input.TypeName)
		if !removed {
			return nil, ResetTypeOutput{}, ErrNotFound("type", input.TypeName)
		}
		return nil, ResetTypeOutput{TypeName: input.TypeName, Removed: true}, nil
	}
}

// FieldCoverageInput is the input for exemplar_field_coverage.
type FieldCoverageInput struct {
	TypeName     string  `json:"type_name" jsonschema:"Collection to inspect"`
	MinFrequency float64 `json:"min_frequency,omitempty" jsonschema:"Only report fields present in at least this share of documents (0.0-1.0, default: 0)"`
	Selector     string  `json:"selector,omitempty" jsonschema:"Also return up to 3 compacted documents lacking this selector (as listed in fields)"`
}

const missingSampleSize = 3

// ToolFieldCoverage reports how many documents carry each field.
func ToolFieldCoverage(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldCoverageInput) (*sdkmcp.CallToolResult, types.FieldCoverageOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldCoverageInput) (*sdkmcp.CallToolResult, types.FieldCoverageOutput, error) {
		if input.TypeName == "" {
			return nil, types.FieldCoverageOutput{}, ErrInvalidInput("type_name is required")
		}
		if input.MinFrequency < 0 || input.MinFrequency > 1 {
			return nil, types.FieldCoverageOutput{}, ErrInvalidInput("min_frequency must be between 0 and 1")
		}

		fields, total, ok := d.Store.Coverage(input.TypeName)
		if !ok {
			return nil, types.FieldCoverageOutput{}, ErrNotFound("type", input.TypeName)
		}

		output := types.FieldCoverageOutput{
			TypeName:  input.TypeName,
			Documents: total,
		}
		for _, f := range fields {
			freq := 0.0
			if total > 0 {
				freq = float64(f.Documents) / float64(total)
			}
			if freq < input.MinFrequency {
				output.Omitted++
				continue
			}
			output.Fields = append(output.Fields, types.FieldCoverage{
				Selector:  f.Selector,
				Documents: f.Documents,
				Frequency: freq,
			})
		}

		if input.Selector != "" {
			opts := d.Config.CompactOptions()
			missing := d.Store.Missing(input.TypeName, input.Selector)
			output.MissingCount = len(missing)
			for i, doc := range missing {
				if i >= missingSampleSize {
					break
				}
				v := jsoncompact.CompactValue(document.ObjectValue(doc), opts)
				output.MissingExamples = append(output.MissingExamples, document.ToAny(v))
			}
		}

		return nil, output, nil
	}
}
