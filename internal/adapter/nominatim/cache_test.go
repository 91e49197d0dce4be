package nominatim

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-guardian/internal/domain"
)

// countingResolver counts calls so tests can observe cache behavior.
type countingResolver struct {
	calls  int
	result domain.ResolvedLocation
	err    error
}

func (m *countingResolver) Resolve(_ context.Context, _ string) (domain.ResolvedLocation, error) {
	m.calls++
	return m.result, m.err
}

func TestCachedResolver_CacheHit(t *testing.T) {
	inner := &countingResolver{
		result: domain.ResolvedLocation{Latitude: 30.2672, Longitude: -97.7431, FullAddress: "Austin, Texas"},
	}
	cached := NewCachedResolver(inner, 10)

	r1, err := cached.Resolve(context.Background(), "Austin")
	require.NoError(t, err)
	r2, err := cached.Resolve(context.Background(), "  AUSTIN ")
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "normalized queries share one cache entry")
}

func TestCachedResolver_ErrorsNotCached(t *testing.T) {
	inner := &countingResolver{err: errors.New("boom")}
	cached := NewCachedResolver(inner, 10)

	_, err := cached.Resolve(context.Background(), "Austin")
	require.Error(t, err)
	_, err = cached.Resolve(context.Background(), "Austin")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newLRUCache(2)
	cache.put("a", domain.ResolvedLocation{FullAddress: "A"})
	cache.put("b", domain.ResolvedLocation{FullAddress: "B"})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", domain.ResolvedLocation{FullAddress: "C"})

	_, ok = cache.get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = cache.get("a")
	assert.True(t, ok)
	_, ok = cache.get("c")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExistingKey(t *testing.T) {
	cache := newLRUCache(2)
	cache.put("a", domain.ResolvedLocation{FullAddress: "A1"})
	cache.put("a", domain.ResolvedLocation{FullAddress: "A2"})

	v, ok := cache.get("a")
	require.True(t, ok)
	assert.Equal(t, "A2", v.FullAddress)
}

func TestLRUCache_ManyEntries(t *testing.T) {
	cache := newLRUCache(8)
	for i := 0; i < 64; i++ {
		cache.put(fmt.Sprintf("k%d", i), domain.ResolvedLocation{})
	}
	assert.Len(t, cache.entries, 8)
}
