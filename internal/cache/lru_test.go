package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/exemplar-mcp/pkg/types"
)

func TestKey(t *testing.T) {
	a := Key("Post", 3, "Post", []string{"id", "parent"})
	b := Key("Post", 3, "Post", []string{"parent", "id"})
	assert.Equal(t, a, b)
	assert.Equal(t, `"Post"@3|"Post"|"id","parent"`, a)

	assert.NotEqual(t, a, Key("Post", 4, "Post", []string{"id", "parent"}))
	assert.NotEqual(t, a, Key("Post", 3, "Article", []string{"id", "parent"}))
	assert.NotEqual(t, a, Key("Post", 3, "Post", nil))
}

func TestKey_SeparatorsInNames(t *testing.T) {
	assert.NotEqual(t,
		Key("Post", 1, "Post", []string{"a,b"}),
		Key("Post", 1, "Post", []string{"a", "b"}))
	assert.NotEqual(t,
		Key("Post", 1, "Post", []string{`a","b`}),
		Key("Post", 1, "Post", []string{"a", "b"}))
	assert.NotEqual(t,
		Key("a|b", 1, "c", nil),
		Key("a", 1, "b|c", nil))
}

func TestKey_DoesNotReorderInput(t *testing.T) {
	ignored := []string{"z", "a"}
	Key("T", 1, "T", ignored)
	assert.Equal(t, []string{"z", "a"}, ignored)
}

func TestResultCache(t *testing.T) {
	_, err := NewResultCache(0)
	assert.Error(t, err)

	c, err := NewResultCache(2)
	require.NoError(t, err)

	first := &types.InferExampleOutput{TypeName: "A"}
	c.Put("a", first)
	c.Put("b", &types.InferExampleOutput{TypeName: "B"})

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, first, got)

	c.Put("c", &types.InferExampleOutput{TypeName: "C"})
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
