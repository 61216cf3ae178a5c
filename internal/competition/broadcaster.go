package competition

import (
	"pcd/internal/competition/interfaces"
	"pcd/internal/models"
	"pcd/internal/providers"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer bounds how many undelivered snapshots a subscriber may
// accumulate before further publishes to it are dropped.
const subscriberBuffer = 8

type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[models.RoundKind]map[string]chan models.CycleSnapshot
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewBroadcaster(logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.BroadcasterInterface {
	return &Broadcaster{
		subscribers: make(map[models.RoundKind]map[string]chan models.CycleSnapshot),
		logger:      logger,
		metrics:     metrics,
	}
}

func (b *Broadcaster) Subscribe(kind models.RoundKind) (string, <-chan models.CycleSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan models.CycleSnapshot, subscriberBuffer)
	if b.subscribers[kind] == nil {
		b.subscribers[kind] = make(map[string]chan models.CycleSnapshot)
	}
	b.subscribers[kind][id] = ch
	b.metrics.SetSseSubscribers(string(kind), len(b.subscribers[kind]))
	return id, ch
}

func (b *Broadcaster) Unsubscribe(kind models.RoundKind, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if chans, ok := b.subscribers[kind]; ok {
		if ch, ok := chans[id]; ok {
			delete(chans, id)
			close(ch)
		}
		b.metrics.SetSseSubscribers(string(kind), len(chans))
	}
}

// Publish delivers the snapshot to every subscriber of its round kind.
// Delivery is fire-and-forget: a subscriber whose buffer is full misses this
// snapshot and self-corrects from the next one or from polling.
func (b *Broadcaster) Publish(snapshot models.CycleSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers[snapshot.RoundKind] {
		select {
		case ch <- snapshot:
		default:
			b.logger.Debugf(providers.TypeApp, "Dropping snapshot for slow subscriber %s", id)
		}
	}
}

func (b *Broadcaster) SubscriberCount(kind models.RoundKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[kind])
}
