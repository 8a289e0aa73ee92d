package document

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_PreservesKeyOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"zeta": 1, "alpha": "a", "mid": {"y": true, "b": null}}`))
	require.NoError(t, err)
	require.True(t, v.IsObject())

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Object().Keys())

	mid, ok := v.Object().Get("mid")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, mid.Object().Keys())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"a","mid":{"y":true,"b":null}}`, string(out))
}

func TestParseJSON_Scalars(t *testing.T) {
	tests := []struct {
		name string
		json string
		kind Kind
	}{
		{"string", `"hello"`, KindString},
		{"escaped string", `"a\"bé"`, KindString},
		{"integer", `42`, KindNumber},
		{"float", `-3.5e2`, KindNumber},
		{"true", `true`, KindBoolean},
		{"null", `null`, KindNull},
		{"empty array", `[]`, KindArray},
		{"empty object", `{}`, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseJSON([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestParseJSON_Unescapes(t *testing.T) {
	v, err := ParseJSON([]byte(`{"k\"ey": "line\nbreak"}`))
	require.NoError(t, err)

	got, ok := v.Object().Get(`k"ey`)
	require.True(t, ok)
	assert.Equal(t, "line\nbreak", got.Str())
}

func TestParseJSON_NestedArrays(t *testing.T) {
	v, err := ParseJSON([]byte(`[[1, 2], [], [["x"]]]`))
	require.NoError(t, err)
	require.Len(t, v.Elems(), 3)

	assert.Equal(t, 2.0, v.Elems()[0].Elems()[1].Float())
	assert.Empty(t, v.Elems()[1].Elems())
	assert.Equal(t, "x", v.Elems()[2].First().First().Str())
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte(`{"a": }`))
	require.Error(t, err)
}

func TestParseJSONDocuments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"array", `[{"a": 1}, {"a": 2}, 3]`, 2},
		{"single object", `{"a": 1}`, 1},
		{"ndjson", "{\"a\": 1}\n{\"a\": 2}\n\n{\"a\": 3}\n", 3},
		{"empty", "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := ParseJSONDocuments([]byte(tt.input))
			require.NoError(t, err)
			assert.Len(t, docs, tt.count)
		})
	}
}

func TestParseJSONDocuments_ReportsPosition(t *testing.T) {
	_, err := ParseJSONDocuments([]byte("{\"a\": 1}\n{\"a\": tru}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 2")
}

func TestMarshalJSON_Dates(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	obj := NewObject().Set("at", Date(ts)).Set("n", Number(1.5))

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"at":"2024-03-01T12:00:00Z","n":1.5}`, string(out))
}

func TestObject_UnmarshalJSON(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"b": 1, "a": [true]}`), &obj))
	assert.Equal(t, []string{"b", "a"}, obj.Keys())

	err := json.Unmarshal([]byte(`[1]`), &obj)
	require.Error(t, err)
}

func TestWrap(t *testing.T) {
	v := Wrap(String("x"), 2)
	assert.Equal(t, `[["x"]]`, v.String())
	assert.Equal(t, `"x"`, Wrap(String("x"), 0).String())
}

func TestValue_First(t *testing.T) {
	assert.True(t, Array().First().IsNull())
	assert.True(t, String("s").First().IsNull())
	assert.Equal(t, "a", Array(String("a"), String("b")).First().Str())
}

func TestParseJSONValues_KeepsNonObjects(t *testing.T) {
	values, err := ParseJSONValues([]byte("1\n\"x\"\n[2]\n{\"a\": null}"))
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, KindNumber, values[0].Kind())
	assert.Equal(t, KindString, values[1].Kind())
	assert.Equal(t, KindArray, values[2].Kind())
	assert.Equal(t, KindObject, values[3].Kind())
}
