// Package inference runs example inference over stored collections and
// inline documents, caching results per collection generation.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/usestring/exemplar-mcp/internal/cache"
	"github.com/usestring/exemplar-mcp/internal/config"
	"github.com/usestring/exemplar-mcp/internal/conflict"
	"github.com/usestring/exemplar-mcp/internal/store"
	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/exemplar"
	"github.com/usestring/exemplar-mcp/pkg/jsoncompact"
	"github.com/usestring/exemplar-mcp/pkg/types"
)

// ErrUnknownType is returned for type names the store has never seen.
var ErrUnknownType = errors.New("unknown type")

// Engine infers examples for stored collections. Concurrent requests for
// the same collection generation and settings share one run.
type Engine struct {
	store  *store.Store
	cache  *cache.ResultCache
	cfg    *config.Config
	group  singleflight.Group
	logger *slog.Logger
}

// NewEngine creates an engine. A nil cache disables result caching.
func NewEngine(st *store.Store, c *cache.ResultCache, cfg *config.Config) *Engine {
	return &Engine{
		store:  st,
		cache:  c,
		cfg:    cfg,
		logger: slog.Default().With(slog.String("component", "inference")),
	}
}

// Request selects a collection and the settings to infer it with.
type Request struct {
	TypeName string

	// TypeLabel prefixes conflict selectors. Empty uses TypeName.
	TypeLabel string

	// IgnoreFields replaces the configured top-level ignore list when
	// non-nil. An empty non-nil slice ignores nothing.
	IgnoreFields []string

	// Compact shortens the returned example for display.
	Compact bool
}

// Result is one inference run. Example keeps the key order of the input
// documents.
type Result struct {
	TypeName   string
	TypeLabel  string
	Documents  int
	Generation uint64
	Example    *document.Object
	Conflicts  []conflict.Entry
	Truncated  []conflict.Truncation
	Summary    string

	// docIndex maps every object reachable from the input documents to
	// the index of the document that contains it.
	docIndex map[*document.Object]int
}

// InferType infers the example of a stored collection.
func (e *Engine) InferType(ctx context.Context, req Request) (*types.InferExampleOutput, error) {
	docs, generation, ok := e.store.Documents(req.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, req.TypeName)
	}

	label := req.TypeLabel
	if label == "" {
		label = req.TypeName
	}
	ignored := e.ignored(req.IgnoreFields)
	key := cache.Key(req.TypeName, generation, label, ignored)

	if e.cache != nil {
		if out, hit := e.cache.Get(key); hit {
			cp := *out
			cp.Cached = true
			return e.Present(&cp, req.Compact), nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, _, _ := e.group.Do(key, func() (any, error) {
		res := e.run(ctx, docs, label, ignored)
		res.TypeName = req.TypeName
		res.Generation = generation
		out := res.Output(e.cfg.CompactOptions())
		if e.cache != nil {
			e.cache.Put(key, out)
		}
		return out, nil
	})

	cp := *v.(*types.InferExampleOutput)
	return e.Present(&cp, req.Compact), nil
}

// InferDocuments infers the example of inline documents. ignore behaves
// like Request.IgnoreFields.
func (e *Engine) InferDocuments(ctx context.Context, docs []*document.Object, typeLabel string, ignore []string) *Result {
	return e.run(ctx, docs, typeLabel, e.ignored(ignore))
}

// Purge drops cached results.
func (e *Engine) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

func (e *Engine) ignored(override []string) []string {
	if override != nil {
		return override
	}
	return e.cfg.IgnoreFields
}

func (e *Engine) run(ctx context.Context, docs []*document.Object, label string, ignored []string) *Result {
	start := time.Now()
	collector := conflict.NewCollector()

	opts := append(e.cfg.InferOptions(), exemplar.WithIgnoredFields(ignored...))
	example := exemplar.Infer(docs, label, collector, opts...)

	collector.Log(ctx, e.logger, e.cfg.CompactOptions())
	e.logger.DebugContext(ctx, "inferred example",
		slog.String("type_label", label),
		slog.Int("documents", len(docs)),
		slog.Int("fields", example.Len()),
		slog.Int("conflicts", collector.Len()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	res := &Result{
		TypeLabel: label,
		Documents: len(docs),
		Example:   example,
		Conflicts: collector.Conflicts(),
		Truncated: collector.Truncated(),
		Summary:   collector.Summary(),
	}
	if len(res.Conflicts) > 0 {
		res.docIndex = indexDocuments(docs)
	}
	return res
}

// Present shortens out.Example for display when compact is set. out must
// be a copy the caller owns; cached outputs are never modified.
func (e *Engine) Present(out *types.InferExampleOutput, compact bool) *types.InferExampleOutput {
	if v, ok := out.Example.(document.Value); ok && compact {
		out.Example = jsoncompact.CompactValue(v, e.cfg.CompactOptions())
	}
	return out
}

// indexDocuments records, for every object nested anywhere in docs, the
// index of its top-level document.
func indexDocuments(docs []*document.Object) map[*document.Object]int {
	idx := make(map[*document.Object]int)
	var walk func(v document.Value, i int)
	walk = func(v document.Value, i int) {
		switch v.Kind() {
		case document.KindObject:
			o := v.Object()
			if _, seen := idx[o]; seen {
				return
			}
			idx[o] = i
			o.Range(func(_ string, child document.Value) bool {
				walk(child, i)
				return true
			})
		case document.KindArray:
			for _, el := range v.Elems() {
				walk(el, i)
			}
		}
	}
	for i, d := range docs {
		if d != nil {
			walk(document.ObjectValue(d), i)
		}
	}
	return idx
}
