package tools

import (
	"strings"

	"github.com/usestring/exemplar-mcp/internal/config"
	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/internal/query"
	"github.com/usestring/exemplar-mcp/internal/source"
	"github.com/usestring/exemplar-mcp/internal/store"
	"github.com/usestring/exemplar-mcp/pkg/contenttype"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	Inference *inference.Engine
	Query     *query.Engine
}

// DecodeContent decodes an inline payload. An empty content type reads
// JSON. The per-call document cap applies.
func (d *Deps) DecodeContent(content, contentType, selectExpr, recordPath string) (*source.Result, error) {
	category := contenttype.Classify(contentType)
	if category == contenttype.Unknown {
		category = contenttype.JSON
	}
	if !contenttype.IsDocumentSource(category) {
		return nil, ErrInvalidInput("content_type " + contentType + " cannot hold documents; use JSON, NDJSON, YAML, XML, HTML, CSV or form data")
	}

	opts := source.Options{
		RecordPath:   recordPath,
		Select:       selectExpr,
		MaxDocuments: d.Config.MaxDocumentsPerCall,
		Query:        d.Query,
	}
	if ct := strings.ToLower(contentType); ct == "tsv" || strings.Contains(ct, "tab-separated") {
		opts.Comma = '\t'
	}

	res, err := source.Decode([]byte(content), category, opts)
	if err != nil {
		return nil, WrapError(err)
	}
	return res, nil
}
