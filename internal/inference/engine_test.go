package inference

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/exemplar-mcp/internal/cache"
	"github.com/usestring/exemplar-mcp/internal/config"
	"github.com/usestring/exemplar-mcp/internal/store"
	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		LinkMarker:           "___NODE",
		MaxDepth:             64,
		IgnoreFields:         []string{"id"},
		DetectDates:          true,
		CompactMaxArrayItems: 3,
		CompactMaxStringLen:  120,
		CompactMaxDepth:      4,
	}
}

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st := store.New(0)
	c, err := cache.NewResultCache(16)
	require.NoError(t, err)
	return NewEngine(st, c, testConfig()), st
}

// exampleJSON encodes out.Example, keeping its key order.
func exampleJSON(t *testing.T, out *types.InferExampleOutput) string {
	t.Helper()
	b, err := json.Marshal(out.Example)
	require.NoError(t, err)
	return string(b)
}

func addDocs(t *testing.T, st *store.Store, typeName, src string) {
	t.Helper()
	docs, err := document.ParseJSONDocuments([]byte(src))
	require.NoError(t, err)
	_, err = st.Add(typeName, docs)
	require.NoError(t, err)
}

func TestInferType_UnknownType(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.InferType(context.Background(), Request{TypeName: "Nope"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestInferType_Conflicts(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[
		{"id": 1, "title": "a", "n": 1},
		{"id": 2, "title": "b", "n": 2.5, "x": "s"},
		{"id": 3, "x": 3}
	]`)

	out, err := e.InferType(context.Background(), Request{TypeName: "Post"})
	require.NoError(t, err)

	assert.Equal(t, "Post", out.TypeName)
	assert.Equal(t, "Post", out.TypeLabel)
	assert.Equal(t, 3, out.Documents)
	assert.Equal(t, `{"title":"a","n":2.5}`, exampleJSON(t, out))
	assert.Equal(t, []string{"title", "n"}, out.FieldOrder)
	assert.False(t, out.Cached)
	assert.Equal(t, "1 conflicting field (1 report)", out.Summary)
	assert.NotEmpty(t, out.Hint)

	require.Len(t, out.Conflicts, 1)
	c := out.Conflicts[0]
	assert.Equal(t, "Post.x", c.Selector)
	assert.Equal(t, []string{"string", "number"}, c.Types)
	assert.Equal(t, 1, c.Occurrences)
	require.Len(t, c.Examples, 2)
	assert.Equal(t, "s", c.Examples[0].Value)
	assert.Equal(t, 1, c.Examples[0].DocumentIndex)
	assert.Equal(t, 3.0, c.Examples[1].Value)
	assert.Equal(t, 2, c.Examples[1].DocumentIndex)
}

func TestInferType_NestedConflictDocumentIndex(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[
		{"meta": {"v": 1}},
		{"meta": {"v": "one"}}
	]`)

	out, err := e.InferType(context.Background(), Request{TypeName: "Post", TypeLabel: "P"})
	require.NoError(t, err)
	require.Len(t, out.Conflicts, 1)
	assert.Equal(t, "P.meta.v", out.Conflicts[0].Selector)
	assert.Equal(t, 0, out.Conflicts[0].Examples[0].DocumentIndex)
	assert.Equal(t, 1, out.Conflicts[0].Examples[1].DocumentIndex)
	assert.Equal(t, `{}`, exampleJSON(t, out))
}

func TestInferType_CacheFollowsGeneration(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[{"a": 1}]`)
	ctx := context.Background()

	first, err := e.InferType(ctx, Request{TypeName: "Post"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := e.InferType(ctx, Request{TypeName: "Post"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, exampleJSON(t, first), exampleJSON(t, second))

	other, err := e.InferType(ctx, Request{TypeName: "Post", IgnoreFields: []string{"a"}})
	require.NoError(t, err)
	assert.False(t, other.Cached)
	assert.Equal(t, `{}`, exampleJSON(t, other))

	addDocs(t, st, "Post", `[{"b": true}]`)
	third, err := e.InferType(ctx, Request{TypeName: "Post"})
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, `{"a":1,"b":true}`, exampleJSON(t, third))

	e.Purge()
	fourth, err := e.InferType(ctx, Request{TypeName: "Post"})
	require.NoError(t, err)
	assert.False(t, fourth.Cached)
}

func TestInferType_IgnoreOverride(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[{"id": 7, "a": 1}]`)

	out, err := e.InferType(context.Background(), Request{TypeName: "Post", IgnoreFields: []string{}})
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"a":1}`, exampleJSON(t, out))
}

func TestInferType_CompactLeavesCacheWhole(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[
		{"tags___NODE": ["a", "b", "c"]},
		{"tags___NODE": ["d", "e"]}
	]`)
	ctx := context.Background()

	compact, err := e.InferType(ctx, Request{TypeName: "Post", Compact: true})
	require.NoError(t, err)
	assert.Equal(t, `{"tags___NODE":["a","b","c","... (2 more items)"]}`, exampleJSON(t, compact))

	full, err := e.InferType(ctx, Request{TypeName: "Post"})
	require.NoError(t, err)
	assert.True(t, full.Cached)
	assert.Equal(t, `{"tags___NODE":["a","b","c","d","e"]}`, exampleJSON(t, full))
}

func TestInferType_Empty(t *testing.T) {
	e, st := newTestEngine(t)
	_, err := st.Add("Post", nil)
	require.NoError(t, err)

	out, err := e.InferType(context.Background(), Request{TypeName: "Post"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Documents)
	assert.Equal(t, `{}`, exampleJSON(t, out))
	assert.Equal(t, "no conflicts", out.Summary)
	assert.Contains(t, out.Hint, "exemplar_add_documents")
}

func TestInferType_Concurrent(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[{"a": 1, "b": "x"}, {"a": 1.5}]`)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := e.InferType(context.Background(), Request{TypeName: "Post"})
			if err == nil {
				b, _ := json.Marshal(out.Example)
				results[i] = string(b)
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, `{"a":1.5,"b":"x"}`, r)
	}
}

func TestInferType_Canceled(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[{"a": 1}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.InferType(ctx, Request{TypeName: "Post"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInferDocuments_KeepsKeyOrder(t *testing.T) {
	e, _ := newTestEngine(t)
	docs, err := document.ParseJSONDocuments([]byte(`[{"z": 1, "id": 3, "a": "x"}, {"m": true}]`))
	require.NoError(t, err)

	res := e.InferDocuments(context.Background(), docs, "Row", nil)
	b, err := res.Example.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":"x","m":true}`, string(b))
	assert.Equal(t, `{"z":1,"a":"x","m":true}`, string(b))
	assert.Equal(t, 2, res.Documents)
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, -1, res.DocumentIndex(docs[0]))
}

func TestInferType_KeepsDocumentKeyOrder(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[
		{"zeta": 1, "alpha": {"y": true, "b": "s"}},
		{"mid": "m", "alpha": {"a": 2}}
	]`)
	ctx := context.Background()

	for _, compact := range []bool{false, true} {
		out, err := e.InferType(ctx, Request{TypeName: "Post", Compact: compact})
		require.NoError(t, err)
		assert.Equal(t, `{"zeta":1,"alpha":{"y":true,"b":"s","a":2},"mid":"m"}`, exampleJSON(t, out))
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, out.FieldOrder)
	}
}

func TestInferType_IgnoreFieldsWithCommas(t *testing.T) {
	e, st := newTestEngine(t)
	addDocs(t, st, "Post", `[{"a": 1, "b": 2, "a,b": 3}]`)
	ctx := context.Background()

	joined, err := e.InferType(ctx, Request{TypeName: "Post", IgnoreFields: []string{"a,b"}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, exampleJSON(t, joined))

	split, err := e.InferType(ctx, Request{TypeName: "Post", IgnoreFields: []string{"a", "b"}})
	require.NoError(t, err)
	assert.False(t, split.Cached)
	assert.Equal(t, `{"a,b":3}`, exampleJSON(t, split))
}
