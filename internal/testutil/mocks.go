package testutil

import (
	"pcd/internal/models"
	"pcd/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockClock implements providers.Clock with a settable current time.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	Votes            map[string]int
	Ratings          map[string]int
	Conversions      int
	PhaseTransitions map[string]int
	SseSubscribers   map[string]int
	CacheHits        int
	CacheMisses      int
	Persists         int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Votes:            make(map[string]int),
		Ratings:          make(map[string]int),
		PhaseTransitions: make(map[string]int),
		SseSubscribers:   make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncVotes(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Votes[status]++
}

func (m *MockMetrics) IncRatings(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ratings[kind+":"+status]++
}

func (m *MockMetrics) IncConversions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Conversions++
}

func (m *MockMetrics) IncPhaseTransitions(round string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PhaseTransitions[round]++
}

func (m *MockMetrics) SetSseSubscribers(round string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SseSubscribers[round] = count
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

// MockBroadcaster implements interfaces.BroadcasterInterface and records
// published snapshots.
type MockBroadcaster struct {
	mu        sync.Mutex
	Published []models.CycleSnapshot
	chans     map[string]chan models.CycleSnapshot
	nextID    int
}

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{chans: make(map[string]chan models.CycleSnapshot)}
}

func (m *MockBroadcaster) Subscribe(_ models.RoundKind) (string, <-chan models.CycleSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := string(rune('a' + m.nextID))
	ch := make(chan models.CycleSnapshot, 16)
	m.chans[id] = ch
	return id, ch
}

func (m *MockBroadcaster) Unsubscribe(_ models.RoundKind, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.chans[id]; ok {
		delete(m.chans, id)
		close(ch)
	}
}

func (m *MockBroadcaster) Publish(snapshot models.CycleSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, snapshot)
	for _, ch := range m.chans {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (m *MockBroadcaster) SubscriberCount(_ models.RoundKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chans)
}

func (m *MockBroadcaster) PublishedPhases() []models.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	phases := make([]models.Phase, 0, len(m.Published))
	for _, s := range m.Published {
		phases = append(phases, s.Phase)
	}
	return phases
}
