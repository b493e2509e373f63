package model

// PendingNotification is a completion awaiting the notification batcher's
// debounce window.
type PendingNotification struct {
	FileName   string
	Domain     Domain
	Confidence float64
}

// NotificationKind distinguishes the three flush outcomes of the batcher.
type NotificationKind string

const (
	// NotificationDetailed is a single completion with full detail.
	NotificationDetailed NotificationKind = "detailed"
	// NotificationItem is one of a small batch, with abbreviated detail.
	NotificationItem NotificationKind = "item"
	// NotificationSummary aggregates a large batch into per-domain counts.
	NotificationSummary NotificationKind = "summary"
)

// Notification is what the batcher emits after a flush. For detailed and item
// notifications the file fields are set; for summaries only Total and
// DomainCounts are meaningful.
type Notification struct {
	DomainCounts map[Domain]int
	FileName     string
	Kind         NotificationKind
	Domain       Domain
	Confidence   float64
	Total        int
}
