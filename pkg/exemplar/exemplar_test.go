package exemplar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

type conflict struct {
	selector   string
	candidates []Candidate
}

type recorder struct {
	conflicts []conflict
	truncated map[string]int
}

func (r *recorder) AddConflict(selector string, candidates []Candidate) {
	r.conflicts = append(r.conflicts, conflict{selector: selector, candidates: candidates})
}

func (r *recorder) AddTruncated(selector string, depth int) {
	if r.truncated == nil {
		r.truncated = make(map[string]int)
	}
	r.truncated[selector] = depth
}

func parseDocs(t *testing.T, src string) []*document.Object {
	t.Helper()
	docs, err := document.ParseJSONDocuments([]byte(src))
	require.NoError(t, err)
	return docs
}

func render(t *testing.T, obj *document.Object) string {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return string(data)
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		docs string
		want string
	}{
		{
			name: "union of keys in first-seen order",
			docs: `[{"a": 1, "b": "x"}, {"c": true, "a": 2}]`,
			want: `{"a":1,"b":"x","c":true}`,
		},
		{
			name: "first exemplar wins for non-numeric leaves",
			docs: `[{"s": "first"}, {"s": "second"}]`,
			want: `{"s":"first"}`,
		},
		{
			name: "numeric widening",
			docs: `[{"n": 1}, {"n": 2}, {"n": 3.5}]`,
			want: `{"n":3.5}`,
		},
		{
			name: "integers beyond int32 widen",
			docs: `[{"n": 1}, {"n": 3000000000}]`,
			want: `{"n":3000000000}`,
		},
		{
			name: "widening scans inside arrays",
			docs: `[{"n": [1, 2]}, {"n": [3, 4.5]}]`,
			want: `{"n":[4.5]}`,
		},
		{
			name: "null and empty values are absent",
			docs: `[{"a": null, "b": [], "c": {}, "d": [null], "e": 1}]`,
			want: `{"e":1}`,
		},
		{
			name: "null in one document does not conflict",
			docs: `[{"a": null}, {"a": "x"}]`,
			want: `{"a":"x"}`,
		},
		{
			name: "empty keys are skipped",
			docs: `[{"": 1, "a": 2}]`,
			want: `{"a":2}`,
		},
		{
			name: "nested objects merge",
			docs: `[{"o": {"x": 1}}, {"o": {"y": "s"}}]`,
			want: `{"o":{"x":1,"y":"s"}}`,
		},
		{
			name: "nested object without typed fields is omitted",
			docs: `[{"o": {"x": null}, "k": 1}]`,
			want: `{"k":1}`,
		},
		{
			name: "array of objects",
			docs: `[{"f": [{"a": 1}]}, {"f": [{"a": 2}]}]`,
			want: `{"f":[{"a":1}]}`,
		},
		{
			name: "array of objects gathers every element",
			docs: `[{"f": [{"a": 1}, {"b": true}]}, {"f": [{"c": "z", "a": 2.5}]}]`,
			want: `{"f":[{"a":2.5,"b":true,"c":"z"}]}`,
		},
		{
			name: "two levels of arrays of objects",
			docs: `[{"f": [[{"a": 1}, {"c": true}]]}, {"f": [[{"b": 1.5}]]}]`,
			want: `{"f":[[{"a":1,"c":true,"b":1.5}]]}`,
		},
		{
			name: "three levels of arrays of objects",
			docs: `[{"f": [[[{"a": 1}]]]}, {"f": [[[{"a": 2.5}]]]}]`,
			want: `{"f":[[[{"a":2.5}]]]}`,
		},
		{
			name: "array of scalars keeps one wrapper",
			docs: `[{"tags": ["a", "b"]}, {"tags": ["c"]}]`,
			want: `{"tags":["a"]}`,
		},
		{
			name: "link arrays collect every value",
			docs: `[{"related___NODE": ["x"]}, {"related___NODE": ["y", "z"]}]`,
			want: `{"related___NODE":["x","y","z"]}`,
		},
		{
			name: "single link behaves as a scalar",
			docs: `[{"parent___NODE": "x"}, {"parent___NODE": "y"}]`,
			want: `{"parent___NODE":"x"}`,
		},
		{
			name: "dates are strings in the example",
			docs: `[{"at": "2024-01-01T10:00:00Z"}, {"at": "2023-05-05"}]`,
			want: `{"at":"2024-01-01T10:00:00Z"}`,
		},
		{
			name: "no documents",
			docs: `[]`,
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			got := Infer(parseDocs(t, tt.docs), "Node", r)
			assert.Equal(t, tt.want, render(t, got))
			assert.Empty(t, r.conflicts)
		})
	}
}

func TestInfer_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		docs     string
		want     string
		selector string
		types    []TypeTag
	}{
		{
			name:     "number against string",
			label:    "Post",
			docs:     `[{"a": 1, "b": true}, {"a": "x"}]`,
			want:     `{"b":true}`,
			selector: "Post.a",
			types:    []TypeTag{TagNumber, TagString},
		},
		{
			name:     "date against string",
			label:    "Post",
			docs:     `[{"d": "2024-01-01"}, {"d": "soon"}]`,
			want:     `{}`,
			selector: "Post.d",
			types:    []TypeTag{TagDate, TagString},
		},
		{
			name:     "mixed array elements",
			label:    "Post",
			docs:     `[{"a": [1, "x"]}]`,
			want:     `{}`,
			selector: "Post.a",
			types:    []TypeTag{"[number,string]"},
		},
		{
			name:     "mixed nested arrays",
			label:    "Post",
			docs:     `[{"a": [[1], ["x"]]}]`,
			want:     `{}`,
			selector: "Post.a",
			types:    []TypeTag{"[[number],[string]]"},
		},
		{
			name:     "nested field",
			label:    "Post",
			docs:     `[{"o": {"a": 1}}, {"o": {"a": "x"}}]`,
			want:     `{}`,
			selector: "Post.o.a",
			types:    []TypeTag{TagNumber, TagString},
		},
		{
			name:     "empty label leaves bare selectors",
			label:    "",
			docs:     `[{"a": 1}, {"a": false}]`,
			want:     `{}`,
			selector: "a",
			types:    []TypeTag{TagNumber, TagBoolean},
		},
		{
			name:     "array against scalar",
			label:    "T",
			docs:     `[{"a": 1}, {"a": [1]}]`,
			want:     `{}`,
			selector: "T.a",
			types:    []TypeTag{TagNumber, "[number]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			got := Infer(parseDocs(t, tt.docs), tt.label, r)
			assert.Equal(t, tt.want, render(t, got))

			require.Len(t, r.conflicts, 1)
			assert.Equal(t, tt.selector, r.conflicts[0].selector)
			var types []TypeTag
			for _, c := range r.conflicts[0].candidates {
				types = append(types, c.Type)
			}
			assert.Equal(t, tt.types, types)
		})
	}
}

func TestInfer_ConflictCandidates(t *testing.T) {
	docs := parseDocs(t, `[{"a": 1}, {"a": 2}, {"a": "x"}, {"a": "y"}]`)
	r := &recorder{}
	Infer(docs, "T", r)

	require.Len(t, r.conflicts, 1)
	candidates := r.conflicts[0].candidates
	require.Len(t, candidates, 2)

	assert.Equal(t, 1.0, candidates[0].Value.Float())
	assert.Same(t, docs[0], candidates[0].Parent)
	assert.Equal(t, "x", candidates[1].Value.Str())
	assert.Same(t, docs[2], candidates[1].Parent)
}

func TestInfer_IgnoredFieldsAreTopLevelOnly(t *testing.T) {
	docs := parseDocs(t, `[{"id": 1, "parent": "p", "o": {"id": 2, "v": "x"}}]`)
	got := Infer(docs, "T", nil, WithIgnoredFields("id", "parent"))
	assert.Equal(t, `{"o":{"id":2,"v":"x"}}`, render(t, got))
}

func TestInfer_IgnoredFieldsNeverConflict(t *testing.T) {
	docs := parseDocs(t, `[{"id": 1}, {"id": "two"}]`)
	r := &recorder{}
	got := Infer(docs, "T", r, WithIgnoredFields("id"))
	assert.Equal(t, `{}`, render(t, got))
	assert.Empty(t, r.conflicts)
}

func TestInfer_DateDetectorDisabled(t *testing.T) {
	docs := parseDocs(t, `[{"d": "2024-01-01"}, {"d": "soon"}]`)
	r := &recorder{}
	got := Infer(docs, "T", r, WithDateDetector(nil))
	assert.Equal(t, `{"d":"2024-01-01"}`, render(t, got))
	assert.Empty(t, r.conflicts)
}

func TestInfer_BoxedStringsAreNeverDates(t *testing.T) {
	docs := []*document.Object{
		document.NewObject().Set("d", document.BoxedString("2024-01-01")),
		document.NewObject().Set("d", document.String("soon")),
	}
	r := &recorder{}
	got := Infer(docs, "T", r)
	assert.Equal(t, `{"d":"2024-01-01"}`, render(t, got))
	assert.Empty(t, r.conflicts)
}

func TestInfer_CustomIntegerTest(t *testing.T) {
	docs := parseDocs(t, `[{"n": 1}, {"n": 3000000000}, {"n": 2.5}]`)
	isInt64 := func(f float64) bool { return f == float64(int64(f)) }
	got := Infer(docs, "T", nil, WithIntegerTest(isInt64))
	assert.Equal(t, `{"n":2.5}`, render(t, got))
}

func TestInfer_LinkMarker(t *testing.T) {
	src := `[{"refs": ["a"]}, {"refs": ["b"]}]`

	got := Infer(parseDocs(t, src), "T", nil)
	assert.Equal(t, `{"refs":["a"]}`, render(t, got))

	got = Infer(parseDocs(t, src), "T", nil, WithLinkMarker("refs"))
	assert.Equal(t, `{"refs":["a","b"]}`, render(t, got))

	link := `[{"x___NODE": ["a"]}, {"x___NODE": ["b"]}]`
	got = Infer(parseDocs(t, link), "T", nil, WithLinkMarker(""))
	assert.Equal(t, `{"x___NODE":["a"]}`, render(t, got))
}

func TestInfer_MaxDepth(t *testing.T) {
	docs := parseDocs(t, `[{"o": {"p": {"x": 1}, "y": 2}}]`)

	r := &recorder{}
	got := Infer(docs, "T", r, WithMaxDepth(1))
	assert.Equal(t, `{"o":{"y":2}}`, render(t, got))
	assert.Equal(t, map[string]int{"T.o.p": 2}, r.truncated)

	r = &recorder{}
	got = Infer(docs, "T", r, WithMaxDepth(0))
	assert.Equal(t, `{"o":{"p":{"x":1},"y":2}}`, render(t, got))
	assert.Empty(t, r.truncated)
}

func TestInfer_DeepNestingWithinDefaultLimit(t *testing.T) {
	src := `{"a": {"b": {"c": {"d": {"e": {"f": 1.5}}}}}}`
	got := Infer(parseDocs(t, src), "T", nil)
	assert.Equal(t, `{"a":{"b":{"c":{"d":{"e":{"f":1.5}}}}}}`, render(t, got))
}

func TestInfer_Deterministic(t *testing.T) {
	src := `[
		{"a": 1, "o": {"x": [1, 2]}, "l___NODE": ["p"], "s": "2024-01-01"},
		{"b": "q", "o": {"y": {"z": 2.25}}, "l___NODE": ["r"], "a": "bad"},
		{"o": {"x": [3.75]}, "c": [[{"k": true}]]}
	]`
	first := render(t, Infer(parseDocs(t, src), "T", nil))
	second := render(t, Infer(parseDocs(t, src), "T", nil))
	assert.Equal(t, first, second)
	assert.Equal(t, `{"o":{"x":[3.75],"y":{"z":2.25}},"l___NODE":["p","r"],"s":"2024-01-01","b":"q","c":[[{"k":true}]]}`, first)
}

func TestInfer_DoesNotMutateInput(t *testing.T) {
	src := `[{"f": [[{"a": 1}]], "n": [1, 2.5], "l___NODE": ["x"]}, {"f": [[{"b": 2}]], "l___NODE": ["y"]}]`
	docs := parseDocs(t, src)
	before := make([]string, len(docs))
	for i, d := range docs {
		before[i] = render(t, d)
	}

	Infer(docs, "T", nil)

	for i, d := range docs {
		assert.Equal(t, before[i], render(t, d))
	}
}

func TestInfer_ReporterFunc(t *testing.T) {
	var selectors []string
	r := ReporterFunc(func(selector string, _ []Candidate) {
		selectors = append(selectors, selector)
	})
	Infer(parseDocs(t, `[{"a": 1, "b": 1}, {"a": "x", "b": true}]`), "T", r)
	assert.Equal(t, []string{"T.a", "T.b"}, selectors)
}
