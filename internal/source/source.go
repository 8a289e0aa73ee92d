// Package source turns raw payloads (files, request bodies, SQL rows) into
// documents for example inference.
package source

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/usestring/exemplar-mcp/internal/query"
	"github.com/usestring/exemplar-mcp/pkg/contenttype"
	"github.com/usestring/exemplar-mcp/pkg/document"
)

var (
	// ErrUnsupported is returned for content categories no decoder handles.
	ErrUnsupported = errors.New("unsupported content type")

	// ErrTooManyDocuments is returned when a load exceeds Options.MaxDocuments.
	ErrTooManyDocuments = errors.New("too many documents")
)

// Options controls decoding.
type Options struct {
	// Category forces a codec in LoadFiles. Unknown picks one per file
	// from its extension.
	Category contenttype.Category

	// RecordPath is an XPath expression selecting record elements in XML
	// and HTML payloads. XML defaults to the children of the root element;
	// HTML without a record path reads JSON-LD blocks instead.
	RecordPath string

	// Select is a jq expression applied to every decoded value. Object
	// outputs become documents.
	Select string

	// MaxDocuments caps the number of documents (0 = unlimited).
	MaxDocuments int

	// Workers bounds concurrent file reads in LoadFiles (0 = 8).
	Workers int

	// Comma is the CSV field separator (0 = ',').
	Comma rune

	// Query runs Select. Nil uses a package-level engine.
	Query *query.Engine
}

// Result holds decoded documents and non-fatal problems met on the way.
type Result struct {
	Documents []*document.Object
	Warnings  []string
}

var sharedEngine = query.NewEngine()

// Decode reads data as category and returns its documents. Unknown content
// is read as JSON.
func Decode(data []byte, category contenttype.Category, opts Options) (*Result, error) {
	values, warnings, err := decodeValues(data, category, opts)
	if err != nil {
		return nil, err
	}
	res, err := collect(values, opts)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

func decodeValues(data []byte, category contenttype.Category, opts Options) ([]document.Value, []string, error) {
	switch category {
	case contenttype.JSON, contenttype.NDJSON, contenttype.Unknown:
		values, err := document.ParseJSONValues(data)
		return values, nil, err
	case contenttype.YAML:
		values, err := document.ParseYAMLValues(data)
		return values, nil, err
	case contenttype.XML:
		values, err := decodeXML(data, opts.RecordPath)
		return values, nil, err
	case contenttype.HTML:
		if opts.RecordPath != "" {
			values, err := decodeHTMLRecords(data, opts.RecordPath)
			return values, nil, err
		}
		return decodeJSONLD(data)
	case contenttype.CSV:
		values, err := decodeCSV(data, opts.Comma)
		return values, nil, err
	case contenttype.Form:
		values, err := decodeForm(data)
		return values, nil, err
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupported, category)
	}
}

// collect applies the jq selection, or flattens top-level arrays, and
// enforces the document cap.
func collect(values []document.Value, opts Options) (*Result, error) {
	res := &Result{}
	if opts.Select != "" {
		engine := opts.Query
		if engine == nil {
			engine = sharedEngine
		}
		docs, errs, err := engine.SelectDocuments(values, opts.Select, 0)
		if err != nil {
			return nil, err
		}
		res.Documents = docs
		res.Warnings = errs
	} else {
		res.Documents = document.Flatten(values)
		if skipped := countScalars(values); skipped > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%d top-level non-object values skipped", skipped))
		}
	}

	if opts.MaxDocuments > 0 && len(res.Documents) > opts.MaxDocuments {
		return nil, fmt.Errorf("%w: %d documents, limit is %d", ErrTooManyDocuments, len(res.Documents), opts.MaxDocuments)
	}
	return res, nil
}

func countScalars(values []document.Value) int {
	n := 0
	for _, v := range values {
		if !v.IsObject() && !v.IsArray() {
			n++
		}
	}
	return n
}

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// coerce types text taken from markup, CSV cells or form fields. Empty
// text is null, JSON-shaped numbers and booleans are converted, and
// everything else (including zero-padded codes like "007") stays a string.
func coerce(s string) document.Value {
	switch s {
	case "":
		return document.Null()
	case "true":
		return document.Bool(true)
	case "false":
		return document.Bool(false)
	}
	if numberPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return document.Number(f)
		}
	}
	return document.String(s)
}
