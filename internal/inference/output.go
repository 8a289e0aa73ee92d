package inference

import (
	"github.com/usestring/exemplar-mcp/internal/conflict"
	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/jsoncompact"
	"github.com/usestring/exemplar-mcp/pkg/types"
)

// Output converts r for tool responses. Conflict example values are
// shortened with preview; the example itself is left whole.
func (r *Result) Output(preview *jsoncompact.Options) *types.InferExampleOutput {
	out := &types.InferExampleOutput{
		TypeName:   r.TypeName,
		TypeLabel:  r.TypeLabel,
		Documents:  r.Documents,
		Generation: r.Generation,
		Example:    document.ObjectValue(r.Example),
		FieldOrder: r.Example.Keys(),
		Summary:    r.Summary,
		Hint:       r.hint(),
	}

	for _, entry := range r.Conflicts {
		report := types.ConflictReport{
			Selector:    entry.Selector,
			Types:       conflict.DescribeAll(entry.Types()),
			Occurrences: entry.Occurrences,
			Examples:    make([]types.ConflictExample, 0, len(entry.Examples)),
		}
		for _, ex := range entry.Examples {
			report.Examples = append(report.Examples, types.ConflictExample{
				Type:          conflict.Describe(ex.Type),
				Value:         document.ToAny(jsoncompact.CompactValue(ex.Value, preview)),
				DocumentIndex: r.DocumentIndex(ex.Parent),
			})
		}
		out.Conflicts = append(out.Conflicts, report)
	}

	for _, tr := range r.Truncated {
		out.Truncated = append(out.Truncated, types.TruncatedField{
			Selector: tr.Selector,
			Depth:    tr.Depth,
		})
	}
	return out
}

// DocumentIndex returns the index of the input document containing obj,
// or -1.
func (r *Result) DocumentIndex(obj *document.Object) int {
	if obj == nil || r.docIndex == nil {
		return -1
	}
	if i, ok := r.docIndex[obj]; ok {
		return i
	}
	return -1
}

func (r *Result) hint() string {
	switch {
	case r.Documents == 0:
		return "No documents to infer from. Check content_type and select, or add documents with exemplar_add_documents."
	case len(r.Conflicts) > 0:
		return "Fields listed in conflicts carry values of different types and are left out of the example. " +
			"Normalize them at the source or pass them in ignore_fields."
	case len(r.Truncated) > 0:
		return "Some nested objects exceed the depth limit (EXEMPLAR_MAX_DEPTH) and are left out."
	default:
		return ""
	}
}
