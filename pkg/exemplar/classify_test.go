package exemplar

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

func TestClassify(t *testing.T) {
	obj := document.ObjectValue(document.NewObject().Set("a", document.Number(1)))

	tests := []struct {
		name string
		in   document.Value
		want TypeTag
	}{
		{"null", document.Null(), TagNone},
		{"number", document.Number(1.5), TagNumber},
		{"string", document.String("hello"), TagString},
		{"date string", document.String("2024-03-01"), TagDate},
		{"boxed date string", document.BoxedString("2024-03-01"), TagString},
		{"boolean", document.Bool(false), TagBoolean},
		{"date", document.Date(time.Unix(0, 0)), TagDate},
		{"object", obj, TagObject},
		{"empty object", document.ObjectValue(nil), TagNone},
		{"empty array", document.Array(), TagNone},
		{"array of nulls", document.Array(document.Null(), document.Null()), TagNone},
		{"array of numbers", document.Array(document.Number(1), document.Number(2)), "[number]"},
		{"array skips nulls", document.Array(document.Null(), document.String("x")), "[string]"},
		{"mixed array", document.Array(document.String("x"), obj, document.String("y")), "[string,object]"},
		{"nested array", document.Array(document.Array(document.Number(1))), "[[number]]"},
		{
			"nested mixed array",
			document.Array(document.Array(document.Number(1)), document.Array(document.Bool(true))),
			"[[number],[boolean]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestClassifier_NoDateDetector(t *testing.T) {
	c := Classifier{}
	assert.Equal(t, TagString, c.Classify(document.String("2024-03-01")))
	assert.Equal(t, TagDate, c.Classify(document.Date(time.Now())))
}

func TestTypeTag(t *testing.T) {
	assert.True(t, TypeTag("[number]").IsArray())
	assert.False(t, TypeTag("[number]").IsComposite())
	assert.True(t, TypeTag("[[number],[string]]").IsComposite())
	assert.False(t, TagObject.IsArray())
	assert.Equal(t, TypeTag("[date,object]"), ArrayTag(TagDate, TagObject))
}

func TestIsInt32(t *testing.T) {
	tests := []struct {
		in   float64
		want bool
	}{
		{0, true},
		{-1, true},
		{math.MaxInt32, true},
		{math.MinInt32, true},
		{math.MaxInt32 + 1, false},
		{math.MinInt32 - 1, false},
		{1.5, false},
		{-0.25, false},
		{math.Inf(1), false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsInt32(tt.in), "IsInt32(%v)", tt.in)
	}
}

func TestFindFloat(t *testing.T) {
	n := document.Number
	arr := document.Array

	t.Run("first non-integer in order", func(t *testing.T) {
		got, ok := FindFloat([]document.Value{n(1), n(2.5), n(3.5)}, IsInt32)
		assert.True(t, ok)
		assert.Equal(t, 2.5, got.Float())
	})

	t.Run("depth first into arrays", func(t *testing.T) {
		values := []document.Value{arr(n(1), arr(n(2), n(7.25))), n(9.5)}
		got, ok := FindFloat(values, IsInt32)
		assert.True(t, ok)
		assert.Equal(t, 7.25, got.Float())
	})

	t.Run("large integers count", func(t *testing.T) {
		got, ok := FindFloat([]document.Value{n(1), n(1 << 40)}, IsInt32)
		assert.True(t, ok)
		assert.Equal(t, float64(1<<40), got.Float())
	})

	t.Run("none found", func(t *testing.T) {
		got, ok := FindFloat([]document.Value{n(1), arr(n(2), arr(n(3)))}, IsInt32)
		assert.False(t, ok)
		assert.True(t, got.IsNull())
	})

	t.Run("ignores non-numbers", func(t *testing.T) {
		_, ok := FindFloat([]document.Value{document.String("1.5"), document.Bool(true)}, IsInt32)
		assert.False(t, ok)
	})
}
