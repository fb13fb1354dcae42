package subgraph

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// OutcomeCache remembers pipeline outcomes by schema text. Bulk dumps carry many copies of
// the same schema, and an outcome only depends on the text, so repeats can be answered
// without validating again.
type OutcomeCache struct {
	cache *lru.Cache[string, Outcome]
}

// NewOutcomeCache creates a cache holding at most maxItems outcomes
func NewOutcomeCache(maxItems int) (*OutcomeCache, error) {
	c, err := lru.New[string, Outcome](maxItems)
	if err != nil {
		return nil, err
	}
	return &OutcomeCache{cache: c}, nil
}

// Get returns the outcome recorded for raw, if any
func (c *OutcomeCache) Get(raw string) (Outcome, bool) {
	return c.cache.Get(cacheKey(raw))
}

// Put records the outcome for raw
func (c *OutcomeCache) Put(raw string, outcome Outcome) {
	c.cache.Add(cacheKey(raw), outcome)
}

// Len returns the number of cached outcomes
func (c *OutcomeCache) Len() int {
	return c.cache.Len()
}

func cacheKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
