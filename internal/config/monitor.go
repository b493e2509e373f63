package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/quadmind/ingestwatch/internal/common"
	"github.com/spf13/viper"
)

// Monitor holds all tunables for the ingestion activity monitor.
type Monitor struct {
	// Endpoint is the orchestrator's ingestion status URL.
	Endpoint string

	// DatabasePath is where domain tallies are persisted.
	DatabasePath string

	// PollInterval is how often the status feed is fetched.
	PollInterval time.Duration

	// ProgressTick is how often simulated progress is advanced.
	ProgressTick time.Duration

	// SimulatedDuration is the assumed time a file takes to ingest; it is
	// the denominator of the 0-90% progress ramp.
	SimulatedDuration time.Duration

	// EvictionGrace is how long a finished file stays visible before it is
	// dropped from the registry.
	EvictionGrace time.Duration

	// BatchWindow is the debounce window for completion notifications.
	BatchWindow time.Duration

	// BatchSummaryThreshold is the batch size above which individual
	// notifications collapse into a single summary.
	BatchSummaryThreshold int
}

// DefaultMonitor returns the default monitor configuration.
func DefaultMonitor() Monitor {
	return Monitor{
		Endpoint:              "http://localhost:8080/api/knowledge/ingest/status",
		DatabasePath:          filepath.Join(DefaultDataDir(), "stats.db"),
		PollInterval:          2 * time.Second,
		ProgressTick:          500 * time.Millisecond,
		SimulatedDuration:     10 * time.Second,
		EvictionGrace:         3 * time.Second,
		BatchWindow:           500 * time.Millisecond,
		BatchSummaryThreshold: 5,
	}
}

// LoadMonitor resolves the monitor configuration from Viper, falling back to
// defaults for anything unset.
func LoadMonitor() (Monitor, error) {
	cfg := DefaultMonitor()

	if v := viper.GetString("monitor.endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if v := viper.GetString("monitor.database"); v != "" {
		cfg.DatabasePath = v
	}
	if v := viper.GetDuration("monitor.poll_interval"); v != 0 {
		cfg.PollInterval = v
	}
	if v := viper.GetDuration("monitor.progress_tick"); v != 0 {
		cfg.ProgressTick = v
	}
	if v := viper.GetDuration("monitor.simulated_duration"); v != 0 {
		cfg.SimulatedDuration = v
	}
	if v := viper.GetDuration("monitor.eviction_grace"); v != 0 {
		cfg.EvictionGrace = v
	}
	if v := viper.GetDuration("monitor.batch_window"); v != 0 {
		cfg.BatchWindow = v
	}
	if v := viper.GetInt("monitor.batch_summary_threshold"); v != 0 {
		cfg.BatchSummaryThreshold = v
	}

	cfg.DatabasePath = ExpandPath(cfg.DatabasePath)

	if err := cfg.Validate(); err != nil {
		return Monitor{}, common.NewUserError(
			"invalid monitor configuration; check ~/.config/ingestwatch/config.yaml", err)
	}
	return cfg, nil
}

// Validate checks that every tunable is usable.
func (m Monitor) Validate() error {
	if m.Endpoint == "" {
		return fmt.Errorf("%w: monitor.endpoint", common.ErrMissingConfig)
	}
	if m.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", common.ErrInvalidConfig)
	}
	if m.ProgressTick <= 0 {
		return fmt.Errorf("%w: progress_tick must be positive", common.ErrInvalidConfig)
	}
	if m.SimulatedDuration <= 0 {
		return fmt.Errorf("%w: simulated_duration must be positive", common.ErrInvalidConfig)
	}
	if m.EvictionGrace < 0 {
		return fmt.Errorf("%w: eviction_grace must not be negative", common.ErrInvalidConfig)
	}
	if m.BatchWindow <= 0 {
		return fmt.Errorf("%w: batch_window must be positive", common.ErrInvalidConfig)
	}
	if m.BatchSummaryThreshold < 1 {
		return fmt.Errorf("%w: batch_summary_threshold must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}
