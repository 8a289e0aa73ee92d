// Package contenttype maps media types and file names to the document
// codecs that can read them.
package contenttype

import (
	"mime"
	"path/filepath"
	"strings"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON    Category = "json"
	NDJSON  Category = "ndjson"
	XML     Category = "xml"
	HTML    Category = "html"
	YAML    Category = "yaml"
	CSV     Category = "csv"
	Form    Category = "form"
	Text    Category = "text"
	Binary  Category = "binary"
	Unknown Category = ""
)

// Classify returns the broad content category for a content-type value.
// Parameters (charset, boundary) are stripped before matching; malformed
// values fall back to a lowercased comparison. Short names such as "json"
// or "yaml" are accepted as well. Empty input is Unknown.
func Classify(contentType string) Category {
	if strings.TrimSpace(contentType) == "" {
		return Unknown
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch mediaType {
	case "json":
		return JSON
	case "ndjson", "jsonl", "jsonlines":
		return NDJSON
	case "yaml", "yml":
		return YAML
	case "xml":
		return XML
	case "html", "xhtml":
		return HTML
	case "csv", "tsv":
		return CSV
	case "form":
		return Form
	}

	// NDJSON: application/x-ndjson, application/jsonl, application/json-seq
	if strings.Contains(mediaType, "ndjson") || strings.Contains(mediaType, "jsonl") ||
		strings.Contains(mediaType, "json-seq") {
		return NDJSON
	}

	// JSON: application/json, application/vnd.*+json, application/ld+json
	if strings.Contains(mediaType, "json") {
		return JSON
	}

	if mediaType == "text/html" || mediaType == "application/xhtml+xml" {
		return HTML
	}

	if strings.Contains(mediaType, "xml") {
		return XML
	}

	if strings.Contains(mediaType, "yaml") {
		return YAML
	}

	if mediaType == "text/csv" || mediaType == "text/tab-separated-values" {
		return CSV
	}

	if mediaType == "application/x-www-form-urlencoded" {
		return Form
	}

	if strings.HasPrefix(mediaType, "text/") {
		return Text
	}

	return Binary
}

var extensions = map[string]Category{
	".json":     JSON,
	".geojson":  JSON,
	".jsonld":   JSON,
	".ndjson":   NDJSON,
	".jsonl":    NDJSON,
	".yaml":     YAML,
	".yml":      YAML,
	".xml":      XML,
	".rss":      XML,
	".atom":     XML,
	".html":     HTML,
	".htm":      HTML,
	".xhtml":    HTML,
	".csv":      CSV,
	".tsv":      CSV,
	".form":     Form,
	".urlenc":   Form,
	".txt":      Text,
	".markdown": Text,
	".md":       Text,
}

// FromPath classifies a file by its extension. Unrecognized extensions are
// Unknown.
func FromPath(path string) Category {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// IsDocumentSource reports whether documents can be decoded from c.
func IsDocumentSource(c Category) bool {
	switch c {
	case JSON, NDJSON, YAML, XML, HTML, CSV, Form:
		return true
	default:
		return false
	}
}

// IsJSON returns true if the content type indicates JSON (case-insensitive).
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}
