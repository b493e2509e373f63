// Package monitor reconstructs per-file ingestion lifecycle events from the
// pipeline's aggregate status feed and tracks the resulting file records.
package monitor

import (
	"path"

	"github.com/quadmind/ingestwatch/internal/classify"
	"github.com/quadmind/ingestwatch/internal/common"
	"github.com/quadmind/ingestwatch/internal/model"
)

// Detector infers discrete lifecycle events by diffing consecutive status
// snapshots. The feed exposes only cumulative counters and a single
// current-file pointer, so the detector is the sole source of per-file
// started/completed/failed events.
//
// Known limitation, kept deliberately: with one current-file pointer, at most
// one completion or failure can be attributed between two polls. If the
// pipeline finishes several files within one poll interval, the counter delta
// beyond the first file is unattributable and dropped.
type Detector struct {
	prev *model.StatusSnapshot
}

// NewDetector creates a detector with no snapshot history.
func NewDetector() *Detector {
	return &Detector{}
}

// Reduce ingests the next snapshot and returns the lifecycle events implied
// by the change from the previous one. The first snapshot is stored and
// yields no events.
func (d *Detector) Reduce(curr model.StatusSnapshot) []model.Event {
	prev := d.prev
	d.prev = &curr

	if prev == nil {
		return nil
	}

	var events []model.Event

	if started, ok := detectStarted(prev, &curr); ok {
		events = append(events, started)
	}
	if ended, ok := detectEnded(prev, &curr); ok {
		events = append(events, ended)
	}

	return events
}

// detectStarted fires when the pipeline is actively working a file it was not
// working before: either it just went active, or the current-file pointer
// moved.
func detectStarted(prev, curr *model.StatusSnapshot) (model.Event, bool) {
	if !curr.IsActive || curr.CurrentFile == nil {
		return model.Event{}, false
	}
	if prev.IsActive && prev.CurrentFile != nil && *prev.CurrentFile == *curr.CurrentFile {
		return model.Event{}, false
	}

	name := path.Base(*curr.CurrentFile)
	result := classify.Classify(name)

	return model.Event{
		Kind:       model.EventFileStarted,
		FileName:   name,
		Domain:     result.Domain,
		Confidence: result.Confidence,
	}, true
}

// detectEnded fires when the pipeline goes idle after working a file. Whether
// the file completed or failed is disambiguated by which cumulative counter
// moved. If neither moved the outcome is unknowable from this feed (for
// example a session reset raced the poll) and no event is emitted.
func detectEnded(prev, curr *model.StatusSnapshot) (model.Event, bool) {
	if !prev.IsActive || prev.CurrentFile == nil {
		return model.Event{}, false
	}
	if curr.IsActive || curr.CurrentFile != nil {
		return model.Event{}, false
	}

	name := path.Base(*prev.CurrentFile)

	switch {
	case curr.FilesProcessed > prev.FilesProcessed:
		result := classify.Classify(name)
		return model.Event{
			Kind:       model.EventFileCompleted,
			FileName:   name,
			Domain:     result.Domain,
			Confidence: result.Confidence,
		}, true
	case curr.FilesFailed > prev.FilesFailed:
		return model.Event{
			Kind:     model.EventFileFailed,
			FileName: name,
		}, true
	default:
		common.LogDebug("File ended with no counter movement, dropping ambiguous transition",
			common.Fields{"file": name})
		return model.Event{}, false
	}
}
