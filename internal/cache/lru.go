// Package cache provides caching utilities for the MCP server.
package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/exemplar-mcp/pkg/types"
)

// ResultCache provides thread-safe LRU caching of inference results. Entries
// are keyed by collection generation, so writes to a collection make its old
// entries unreachable and they age out.
type ResultCache struct {
	cache *lru.Cache[string, *types.InferExampleOutput]
}

// NewResultCache creates a new LRU cache with the specified maximum number of items.
func NewResultCache(maxItems int) (*ResultCache, error) {
	c, err := lru.New[string, *types.InferExampleOutput](maxItems)
	if err != nil {
		return nil, err
	}
	return &ResultCache{cache: c}, nil
}

// Key builds the cache key for a collection generation and the settings
// that change the result. The order of ignored fields does not matter.
// Every name is quoted so separators inside names cannot collide.
func Key(typeName string, generation uint64, typeLabel string, ignored []string) string {
	quoted := make([]string, len(ignored))
	for i, f := range ignored {
		quoted[i] = strconv.Quote(f)
	}
	sort.Strings(quoted)
	return fmt.Sprintf("%q@%d|%q|%s", typeName, generation, typeLabel, strings.Join(quoted, ","))
}

// Get retrieves a result by key.
// Returns the result and true if found, nil and false otherwise.
func (c *ResultCache) Get(key string) (*types.InferExampleOutput, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a result in the cache.
func (c *ResultCache) Put(key string, out *types.InferExampleOutput) {
	c.cache.Add(key, out)
}

// Purge drops every cached result.
func (c *ResultCache) Purge() {
	c.cache.Purge()
}

// Len returns the current number of items in the cache.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}
