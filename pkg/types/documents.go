package types

import "time"

// AddDocumentsOutput is the output of the exemplar_add_documents tool.
type AddDocumentsOutput struct {
	BatchID    string   `json:"batch_id"`
	TypeName   string   `json:"type_name"`
	Added      int      `json:"added"`
	Total      int      `json:"total"`
	Generation uint64   `json:"generation"`
	Warnings   []string `json:"warnings,omitzero"`
	Hint       string   `json:"hint,omitempty"`
}

// TypeSummary describes one stored document collection.
type TypeSummary struct {
	TypeName   string    `json:"type_name"`
	Documents  int       `json:"documents"`
	Fields     int       `json:"fields"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListTypesOutput is the output of the exemplar_list_types tool.
type ListTypesOutput struct {
	Types []TypeSummary `json:"types,omitzero"`
	Total int           `json:"total"`
}

// FieldCoverage reports how many documents carry a typed value at a
// selector.
type FieldCoverage struct {
	Selector  string  `json:"selector"`
	Documents int     `json:"documents"`
	Frequency float64 `json:"frequency"` // 0.0-1.0
}

// FieldCoverageOutput is the output of the exemplar_field_coverage tool.
type FieldCoverageOutput struct {
	TypeName  string          `json:"type_name"`
	Documents int             `json:"documents"`
	Fields    []FieldCoverage `json:"fields,omitzero"`
	Omitted   int             `json:"omitted,omitempty"` // fields below min_frequency

	// Set when a selector was given: documents without a typed value there.
	MissingCount    int   `json:"missing_count,omitempty"`
	MissingExamples []any `json:"missing_examples,omitzero"`
}
