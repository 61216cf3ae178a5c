package providers

import (
	"pcd/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hitMissMetrics struct {
	noopMetrics
	hits   int
	misses int
}

func (m *hitMissMetrics) IncCacheHits()   { m.hits++ }
func (m *hitMissMetrics) IncCacheMisses() { m.misses++ }

func TestInstrumentedCache_CountsHitsAndMisses(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1, TTL: 60}}
	metrics := &hitMissMetrics{}
	cache := NewInstrumentedCacheProvider(conf, &discardLogger{}, metrics)

	_, ok := cache.Get("teams")
	require.False(t, ok)
	assert.Equal(t, 1, metrics.misses)

	cache.Set("teams", []byte("x"))
	_, ok = cache.Get("teams")
	require.True(t, ok)
	assert.Equal(t, 1, metrics.hits)
}

func TestInstrumentedCache_DisabledSkipsInstrumentation(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: false}}
	metrics := &hitMissMetrics{}
	cache := NewInstrumentedCacheProvider(conf, &discardLogger{}, metrics)

	_, _ = cache.Get("teams")

	assert.Equal(t, 0, metrics.misses)
	assert.Equal(t, 0, metrics.hits)
}
