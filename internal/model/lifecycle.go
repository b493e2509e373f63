package model

import "time"

// FileStatus indicates where a tracked file is in its ingestion lifecycle.
type FileStatus string

const (
	// StatusProcessing means the pipeline is actively ingesting the file.
	StatusProcessing FileStatus = "processing"
	// StatusComplete means the pipeline confirmed the file was ingested.
	StatusComplete FileStatus = "complete"
	// StatusFailed means the pipeline reported the file as failed.
	StatusFailed FileStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s FileStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// FileLifecycleRecord tracks one in-flight or recently-finished file. Records
// are owned exclusively by the monitor's registry; progress is simulated
// locally because the pipeline reports no intermediate progress.
type FileLifecycleRecord struct {
	StartTime  time.Time
	FileName   string
	Domain     Domain
	Status     FileStatus
	Confidence float64
	Progress   float64
}
