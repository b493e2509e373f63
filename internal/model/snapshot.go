package model

// StatusSnapshot is a point-in-time read of the ingestion pipeline's aggregate
// status, as served by the orchestrator's status endpoint. The pipeline exposes
// only cumulative counters and a single current-file pointer; discrete per-file
// events are reconstructed by diffing consecutive snapshots.
type StatusSnapshot struct {
	CurrentFile    *string `json:"current_file"`
	LastError      *string `json:"last_error"`
	FilesProcessed int     `json:"files_processed"`
	FilesFailed    int     `json:"files_failed"`
	IsActive       bool    `json:"is_active"`
}

// SessionReset reports whether curr belongs to a new pipeline session relative
// to this snapshot. Counters are monotonically non-decreasing within a session;
// a drop means the pipeline restarted, not that work was undone.
func (s *StatusSnapshot) SessionReset(curr *StatusSnapshot) bool {
	return curr.FilesProcessed < s.FilesProcessed || curr.FilesFailed < s.FilesFailed
}
