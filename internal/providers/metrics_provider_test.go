package providers

import (
	"pcd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMetricsProvider_DisabledReturnsNoop(t *testing.T) {
	conf := &structures.Config{Metrics: structures.MetricsConfig{Enabled: false}}

	m := NewMetricsProvider(conf)

	_, ok := m.(*noopMetrics)
	assert.True(t, ok)

	// The noop provider swallows everything without touching a registry.
	m.IncRequestsTotal("/snapshot", 200)
	m.ObserveRequestDuration("/snapshot", time.Millisecond)
	m.IncVotes("created")
	m.IncRatings("peer", "created")
	m.IncConversions()
	m.IncPhaseTransitions("voting")
	m.SetSseSubscribers("voting", 3)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
}
