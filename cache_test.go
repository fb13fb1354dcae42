package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeCache(t *testing.T) {
	cache, err := NewOutcomeCache(2)
	require.NoError(t, err)

	_, ok := cache.Get("type A")
	assert.False(t, ok)

	cache.Put("type A", Outcome{Label: "a"})
	cache.Put("type B", Outcome{Label: "b"})

	outcome, ok := cache.Get("type A")
	require.True(t, ok)
	assert.Equal(t, "a", outcome.Label)

	// B is now the least recently used
	cache.Put("type C", Outcome{Label: "c"})
	assert.Equal(t, 2, cache.Len())
	_, ok = cache.Get("type B")
	assert.False(t, ok)
	_, ok = cache.Get("type C")
	assert.True(t, ok)
}

func TestNewOutcomeCache_invalidSize(t *testing.T) {
	_, err := NewOutcomeCache(0)
	assert.Error(t, err)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("type A"), cacheKey("type A"))
	assert.NotEqual(t, cacheKey("type A"), cacheKey("type A "))
	assert.Len(t, cacheKey(""), 64)
}
