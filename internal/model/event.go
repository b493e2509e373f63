package model

// EventKind identifies a discrete file lifecycle event inferred from
// consecutive status snapshots.
type EventKind string

const (
	// EventFileStarted means the pipeline began ingesting a new file.
	EventFileStarted EventKind = "file_started"
	// EventFileCompleted means the pipeline finished a file successfully.
	EventFileCompleted EventKind = "file_completed"
	// EventFileFailed means the pipeline reported a file as failed.
	EventFileFailed EventKind = "file_failed"
)

// Event is a single inferred lifecycle event. Domain and Confidence are
// populated by the classifier for started and completed events.
type Event struct {
	Kind       EventKind
	FileName   string
	Domain     Domain
	Confidence float64
}
