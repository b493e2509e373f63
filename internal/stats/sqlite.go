package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quadmind/ingestwatch/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements Sink on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (or creates) the stats database at dbPath. Use
// ":memory:" for an ephemeral store in tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS domain_counts (
			domain TEXT PRIMARY KEY,
			completed INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ingest_durations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			domain TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ingest_durations_domain ON ingest_durations(domain)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Increment adds one completed file to the domain's tally.
func (s *SQLiteStore) Increment(ctx context.Context, domain model.Domain) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := `
		INSERT INTO domain_counts (domain, completed, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(domain) DO UPDATE SET
			completed = completed + 1,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, string(domain)); err != nil {
		return fmt.Errorf("failed to increment domain count: %w", err)
	}
	return nil
}

// RecordDuration stores one observed ingest duration for the domain.
func (s *SQLiteStore) RecordDuration(ctx context.Context, domain model.Domain, elapsed time.Duration) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if elapsed < 0 {
		return fmt.Errorf("%w: elapsed", ErrNegativeDuration)
	}

	query := `INSERT INTO ingest_durations (domain, duration_ms) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, string(domain), elapsed.Milliseconds()); err != nil {
		return fmt.Errorf("failed to record ingest duration: %w", err)
	}
	return nil
}

// Totals returns the completed-file tally per domain. Domains with no
// completions are present with a zero count.
func (s *SQLiteStore) Totals(ctx context.Context) (model.DomainTotals, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	totals := make(model.DomainTotals, len(model.Domains))
	for _, d := range model.Domains {
		totals[d] = 0
	}

	rows, err := s.db.QueryContext(ctx, `SELECT domain, completed FROM domain_counts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query domain counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var completed int
		if err := rows.Scan(&name, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan domain count: %w", err)
		}

		domain, err := model.ParseDomain(name)
		if err != nil {
			return nil, fmt.Errorf("unexpected domain in stats store: %w", err)
		}
		totals[domain] = completed
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domain counts: %w", err)
	}
	return totals, nil
}

// Performance aggregates the stored ingest durations per domain.
func (s *SQLiteStore) Performance(ctx context.Context) (model.DomainPerformance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT domain, AVG(duration_ms), MIN(duration_ms), MAX(duration_ms), COUNT(*)
		FROM ingest_durations
		GROUP BY domain`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest durations: %w", err)
	}
	defer rows.Close()

	perf := make(model.DomainPerformance)
	for rows.Next() {
		var name string
		var avgMs float64
		var minMs, maxMs int64
		var count int
		if err := rows.Scan(&name, &avgMs, &minMs, &maxMs, &count); err != nil {
			return nil, fmt.Errorf("failed to scan ingest durations: %w", err)
		}

		domain, err := model.ParseDomain(name)
		if err != nil {
			return nil, fmt.Errorf("unexpected domain in stats store: %w", err)
		}

		perf[domain] = model.PerformanceStats{
			AvgTime:    time.Duration(avgMs * float64(time.Millisecond)),
			MinTime:    time.Duration(minMs) * time.Millisecond,
			MaxTime:    time.Duration(maxMs) * time.Millisecond,
			TotalFiles: count,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingest durations: %w", err)
	}
	return perf, nil
}

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNegativeDuration = errors.New("duration cannot be negative")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s, paramName string) error {
	if s == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}
