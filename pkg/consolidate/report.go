package consolidate

import "time"

// Skip records one entry that was visited but left out of the artifact.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes a finished run. It is immutable once returned;
// ownership passes to the caller.
type Report struct {
	FilesProcessed int    `json:"files_processed"`
	Skipped        []Skip `json:"skipped"`
	TotalLines     int    `json:"total_lines"`
	ArtifactBytes  int64  `json:"artifact_bytes"`
	TotalTokens    int    `json:"total_tokens,omitempty"`
	ElapsedMS      int64  `json:"elapsed_ms"`
	Cancelled      bool   `json:"cancelled"`
}

// runStats is the mutable accumulator behind a Report. One is allocated
// per run, touched only by that run's single goroutine, and discarded
// after finalization.
type runStats struct {
	processed  int
	candidates int // candidates consumed, processed or skipped
	skipped    []Skip
	lines      int
	bytes      int64
	tokens     int
	started    time.Time
	cancelled  bool
}

func newRunStats() *runStats {
	return &runStats{
		skipped: []Skip{},
		started: time.Now(),
	}
}

func (s *runStats) recordSkip(path, reason string) {
	s.skipped = append(s.skipped, Skip{Path: path, Reason: reason})
}

// report finalizes the accumulator into an immutable Report.
func (s *runStats) report() Report {
	return Report{
		FilesProcessed: s.processed,
		Skipped:        s.skipped,
		TotalLines:     s.lines,
		ArtifactBytes:  s.bytes,
		TotalTokens:    s.tokens,
		ElapsedMS:      time.Since(s.started).Milliseconds(),
		Cancelled:      s.cancelled,
	}
}
