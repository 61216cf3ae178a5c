package interfaces

import "pcd/internal/models"

// BroadcasterInterface fans cycle snapshots out to an arbitrary number of
// subscribers. Publish never blocks on a slow consumer.
type BroadcasterInterface interface {
	Subscribe(kind models.RoundKind) (string, <-chan models.CycleSnapshot)
	Unsubscribe(kind models.RoundKind, id string)
	Publish(snapshot models.CycleSnapshot)
	SubscriberCount(kind models.RoundKind) int
}
