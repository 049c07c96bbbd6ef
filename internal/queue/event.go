// Package queue defines message payloads exchanged over the message
// broker, the publisher, and the background notification consumer.
package queue

// Queue names for lifecycle events.
const (
	BookingStatusQueue = "booking.status"
	HiringStatusQueue  = "hiring.status"
)

// LifecycleEvent is published whenever a booking or hiring changes
// status. It carries enough for downstream consumers to notify the
// affected parties without querying the primary database.
type LifecycleEvent struct {
	Kind       string  `json:"kind"` // booking|hiring
	RecordID   uint64  `json:"record_id"`
	SubjectID  uint64  `json:"subject_id"` // equipment or worker profile ID
	ActorID    uint64  `json:"actor_id"`
	FromStatus string  `json:"from_status,omitempty"`
	ToStatus   string  `json:"to_status"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Amount     float64 `json:"amount"`
	OccurredAt string  `json:"occurred_at"`
}
