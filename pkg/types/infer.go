package types

// InferExampleOutput is the output of the exemplar_infer_example tool and
// of the CLI's JSON format.
type InferExampleOutput struct {
	TypeName   string `json:"type_name,omitempty"`
	TypeLabel  string `json:"type_label,omitempty"`
	Documents  int    `json:"documents"`
	Generation uint64 `json:"generation,omitempty"`

	// Example is the merged example object, a document.Value when built
	// in process. It encodes keys in first-appearance order, but tool
	// results are re-encoded by the MCP SDK with keys sorted, so
	// FieldOrder carries the document order of the top-level fields.
	Example    any      `json:"example"`
	FieldOrder []string `json:"field_order,omitzero"`

	Conflicts []ConflictReport `json:"conflicts,omitzero"`
	Truncated []TruncatedField `json:"truncated,omitzero"`
	Summary   string           `json:"summary"`

	Cached   bool         `json:"cached,omitempty"`
	Resource *ResourceRef `json:"resource,omitempty"`
	Hint     string       `json:"hint,omitempty"`
}

// ConflictReport lists the disagreeing types observed at one selector.
// The field is left out of the example.
type ConflictReport struct {
	Selector    string            `json:"selector"`
	Types       []string          `json:"types"`
	Occurrences int               `json:"occurrences"`
	Examples    []ConflictExample `json:"examples"`
}

// ConflictExample is the first value observed for one type.
type ConflictExample struct {
	Type          string `json:"type"`
	Value         any    `json:"value"`
	DocumentIndex int    `json:"document_index"` // -1 when the source document is unknown
}

// TruncatedField is a nested object skipped by the depth limit.
type TruncatedField struct {
	Selector string `json:"selector"`
	Depth    int    `json:"depth"`
}
