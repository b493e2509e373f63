package model

import "time"

// DomainTotals holds the cumulative count of completed files per domain.
type DomainTotals map[Domain]int

// PerformanceStats summarizes observed ingest durations for one domain.
type PerformanceStats struct {
	AvgTime    time.Duration
	MinTime    time.Duration
	MaxTime    time.Duration
	TotalFiles int
}

// DomainPerformance maps each domain to its ingest timing statistics.
type DomainPerformance map[Domain]PerformanceStats
