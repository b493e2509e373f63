package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/quadmind/ingestwatch/internal/model"
)

// MockSink is an in-memory stats sink for tests.
type MockSink struct {
	mu        sync.Mutex
	counts    map[model.Domain]int
	durations map[model.Domain][]time.Duration
	err       error
}

// NewMockSink creates an empty mock sink.
func NewMockSink() *MockSink {
	return &MockSink{
		counts:    make(map[model.Domain]int),
		durations: make(map[model.Domain][]time.Duration),
	}
}

// FailWith makes every subsequent call return err.
func (m *MockSink) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Increment records one completion for the domain.
func (m *MockSink) Increment(_ context.Context, domain model.Domain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.counts[domain]++
	return nil
}

// RecordDuration stores one ingest duration sample.
func (m *MockSink) RecordDuration(_ context.Context, domain model.Domain, elapsed time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.durations[domain] = append(m.durations[domain], elapsed)
	return nil
}

// Totals returns the recorded counts.
func (m *MockSink) Totals(_ context.Context) (model.DomainTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	totals := make(model.DomainTotals, len(m.counts))
	for d, n := range m.counts {
		totals[d] = n
	}
	return totals, nil
}

// Performance aggregates the stored samples.
func (m *MockSink) Performance(_ context.Context) (model.DomainPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	perf := make(model.DomainPerformance, len(m.durations))
	for d, samples := range m.durations {
		if len(samples) == 0 {
			continue
		}
		stats := model.PerformanceStats{
			MinTime:    samples[0],
			MaxTime:    samples[0],
			TotalFiles: len(samples),
		}
		var sum time.Duration
		for _, s := range samples {
			sum += s
			if s < stats.MinTime {
				stats.MinTime = s
			}
			if s > stats.MaxTime {
				stats.MaxTime = s
			}
		}
		stats.AvgTime = sum / time.Duration(len(samples))
		perf[d] = stats
	}
	return perf, nil
}

// Count returns the tally for one domain.
func (m *MockSink) Count(domain model.Domain) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[domain]
}

// Durations returns the samples recorded for one domain.
func (m *MockSink) Durations(domain model.Domain) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.durations[domain]))
	copy(out, m.durations[domain])
	return out
}

// Close is a no-op.
func (m *MockSink) Close() error { return nil }
