package monitor

import (
	"testing"

	"github.com/quadmind/ingestwatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDetectorFirstSnapshotEmitsNothing(t *testing.T) {
	d := NewDetector()

	events := d.Reduce(model.StatusSnapshot{
		IsActive:    true,
		CurrentFile: strPtr("api_spec.md"),
	})

	assert.Empty(t, events)
}

func TestDetectorStartThenComplete(t *testing.T) {
	d := NewDetector()

	d.Reduce(model.StatusSnapshot{IsActive: false})

	started := d.Reduce(model.StatusSnapshot{
		IsActive:    true,
		CurrentFile: strPtr("a.log"),
	})
	require.Len(t, started, 1)
	assert.Equal(t, model.EventFileStarted, started[0].Kind)
	assert.Equal(t, "a.log", started[0].FileName)
	assert.Equal(t, model.DomainBody, started[0].Domain)
	assert.InDelta(t, 0.92, started[0].Confidence, 1e-9)

	completed := d.Reduce(model.StatusSnapshot{
		IsActive:       false,
		FilesProcessed: 1,
	})
	require.Len(t, completed, 1)
	assert.Equal(t, model.EventFileCompleted, completed[0].Kind)
	assert.Equal(t, "a.log", completed[0].FileName)
	assert.Equal(t, model.DomainBody, completed[0].Domain)
}

func TestDetectorFailureDisambiguatedByCounter(t *testing.T) {
	d := NewDetector()

	d.Reduce(model.StatusSnapshot{IsActive: false})
	d.Reduce(model.StatusSnapshot{
		IsActive:    true,
		CurrentFile: strPtr("user_feedback.txt"),
	})

	events := d.Reduce(model.StatusSnapshot{
		IsActive:    false,
		FilesFailed: 1,
	})
	require.Len(t, events, 1)
	assert.Equal(t, model.EventFileFailed, events[0].Kind)
	assert.Equal(t, "user_feedback.txt", events[0].FileName)
}

func TestDetectorAmbiguousEndIsDropped(t *testing.T) {
	d := NewDetector()

	d.Reduce(model.StatusSnapshot{
		IsActive:       true,
		CurrentFile:    strPtr("notes.txt"),
		FilesProcessed: 3,
	})

	// The file ended but neither counter moved: the outcome is unknowable.
	events := d.Reduce(model.StatusSnapshot{
		IsActive:       false,
		FilesProcessed: 3,
	})
	assert.Empty(t, events)
}

func TestDetectorCurrentFileSwitchStartsNewFile(t *testing.T) {
	d := NewDetector()

	d.Reduce(model.StatusSnapshot{
		IsActive:    true,
		CurrentFile: strPtr("first_guide.md"),
	})

	// The pointer moved while staying active: only the new start is
	// attributable; the first file's outcome is lost to the feed's
	// single-pointer design.
	events := d.Reduce(model.StatusSnapshot{
		IsActive:       true,
		CurrentFile:    strPtr("security_policy.md"),
		FilesProcessed: 1,
	})
	require.Len(t, events, 1)
	assert.Equal(t, model.EventFileStarted, events[0].Kind)
	assert.Equal(t, "security_policy.md", events[0].FileName)
	assert.Equal(t, model.DomainSoul, events[0].Domain)
}

func TestDetectorReactivationOfSameFileStarts(t *testing.T) {
	d := NewDetector()

	d.Reduce(model.StatusSnapshot{
		IsActive:    false,
		CurrentFile: strPtr("retry_me.txt"),
	})

	events := d.Reduce(model.StatusSnapshot{
		IsActive:    true,
		CurrentFile: strPtr("retry_me.txt"),
	})
	require.Len(t, events, 1)
	assert.Equal(t, model.EventFileStarted, events[0].Kind)
}

func TestDetectorIdenticalSnapshotsEmitNothing(t *testing.T) {
	d := NewDetector()

	snapshot := model.StatusSnapshot{
		IsActive:       true,
		CurrentFile:    strPtr("api_reference.yaml"),
		FilesProcessed: 5,
	}
	d.Reduce(snapshot)

	// A degraded-link replay re-feeds the same snapshot; no phantom
	// transitions may appear.
	assert.Empty(t, d.Reduce(snapshot))
	assert.Empty(t, d.Reduce(snapshot))
}

func TestDetectorSessionResetIsNotCompletion(t *testing.T) {
	d := NewDetector()

	d.Reduce(model.StatusSnapshot{
		IsActive:       true,
		CurrentFile:    strPtr("telemetry.csv"),
		FilesProcessed: 40,
		FilesFailed:    2,
	})

	// Counters reset to zero: new session, not a regression and not a
	// completion.
	events := d.Reduce(model.StatusSnapshot{IsActive: false})
	assert.Empty(t, events)
}

func TestDetectorUsesBasename(t *testing.T) {
	d := NewDetector()

	d.Reduce(model.StatusSnapshot{IsActive: false})
	events := d.Reduce(model.StatusSnapshot{
		IsActive:    true,
		CurrentFile: strPtr("/watch/incoming/security_audit.md"),
	})

	require.Len(t, events, 1)
	assert.Equal(t, "security_audit.md", events[0].FileName)
	assert.Equal(t, model.DomainSoul, events[0].Domain)
}
