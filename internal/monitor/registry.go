package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/quadmind/ingestwatch/internal/clock"
	"github.com/quadmind/ingestwatch/internal/model"
)

// maxSimulatedProgress caps locally simulated progress. 100 is reserved for
// a confirmed completion so the display never claims a file is done before
// the pipeline says so.
const maxSimulatedProgress = 90.0

// Registry is the mutable table of in-flight and recently-terminal file
// records. The detector drives status transitions, the simulator drives
// progress, and terminal records linger for a grace period before eviction
// so the operator can see the outcome.
//
// All three writers run on independent timers, so every mutation serializes
// through one mutex.
type Registry struct {
	clock   clock.Clock
	records map[string]*model.FileLifecycleRecord
	timers  map[string]*clock.Timer
	grace   time.Duration
	mu      sync.Mutex
}

// NewRegistry creates an empty registry whose terminal records are evicted
// after the given grace period.
func NewRegistry(clk clock.Clock, grace time.Duration) *Registry {
	return &Registry{
		clock:   clk,
		grace:   grace,
		records: make(map[string]*model.FileLifecycleRecord),
		timers:  make(map[string]*clock.Timer),
	}
}

// OnFileStarted inserts a fresh record for the file. A stale record under the
// same name is reset, and any pending eviction for it is cancelled.
func (r *Registry) OnFileStarted(fileName string, domain model.Domain, confidence float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.timers[fileName]; ok {
		timer.Stop()
		delete(r.timers, fileName)
	}

	r.records[fileName] = &model.FileLifecycleRecord{
		FileName:   fileName,
		Domain:     domain,
		Confidence: confidence,
		Progress:   0,
		Status:     model.StatusProcessing,
		StartTime:  r.clock.Now(),
	}
}

// OnFileCompleted transitions the record to complete with authoritative 100%
// progress and schedules its eviction. It returns the record's start time and
// whether a record existed; untracked completions are a registry no-op but
// still matter to the caller for stats and notifications.
func (r *Registry) OnFileCompleted(fileName string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[fileName]
	if !ok {
		return time.Time{}, false
	}

	record.Status = model.StatusComplete
	record.Progress = 100
	r.scheduleEvictionLocked(fileName)

	return record.StartTime, true
}

// OnFileFailed transitions the record to failed, leaving progress at its last
// simulated value, and schedules its eviction.
func (r *Registry) OnFileFailed(fileName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[fileName]
	if !ok {
		return false
	}

	record.Status = model.StatusFailed
	r.scheduleEvictionLocked(fileName)

	return true
}

// Tick advances simulated progress for every processing record. Progress
// ramps linearly from 0 toward maxSimulatedProgress over simulatedDuration
// and holds there until the pipeline confirms an outcome.
func (r *Registry) Tick(simulatedDuration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for _, record := range r.records {
		if record.Status != model.StatusProcessing {
			continue
		}

		elapsed := now.Sub(record.StartTime)
		progress := float64(elapsed) / float64(simulatedDuration) * maxSimulatedProgress
		if progress > maxSimulatedProgress {
			progress = maxSimulatedProgress
		}
		if progress < 0 {
			progress = 0
		}
		record.Progress = progress
	}
}

// Snapshot returns a copy of all records, oldest first, for rendering.
func (r *Registry) Snapshot() []model.FileLifecycleRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.FileLifecycleRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, *record)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].FileName < out[j].FileName
	})

	return out
}

// Close cancels all pending eviction timers. Records are left in place for a
// final render.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, timer := range r.timers {
		timer.Stop()
		delete(r.timers, name)
	}
}

func (r *Registry) scheduleEvictionLocked(fileName string) {
	if r.grace <= 0 {
		r.evictLocked(fileName)
		return
	}
	if timer, ok := r.timers[fileName]; ok {
		timer.Stop()
	}
	record := r.records[fileName]
	r.timers[fileName] = r.clock.AfterFunc(r.grace, func() {
		r.evictExpired(fileName, record)
	})
}

// evictExpired runs when a grace timer fires. Stop on a fired timer cannot
// cancel its in-flight callback, so the callback verifies the record is
// still the terminal one it was armed for; a restart under the same name
// installs a fresh record that a stale timer must not reap.
func (r *Registry) evictExpired(fileName string, record *model.FileLifecycleRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[fileName]
	if !ok || current != record || !current.Status.Terminal() {
		return
	}
	r.evictLocked(fileName)
}

func (r *Registry) evictLocked(fileName string) {
	if timer, ok := r.timers[fileName]; ok {
		timer.Stop()
		delete(r.timers, fileName)
	}
	delete(r.records, fileName)
}
