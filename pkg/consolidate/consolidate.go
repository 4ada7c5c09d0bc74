// Package consolidate walks a project tree, filters it through
// include/exclude rules, and streams every readable text file into one
// annotated context artifact. A run is synchronous and single-threaded:
// the caller supplies an immutable Config, may cancel between files
// through the context, and receives an immutable Report when the run
// finishes. Nothing is retained between runs.
package consolidate

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
)

// Run executes one consolidation pass described by cfg. It validates the
// configuration, opens the artifact, walks the tree, and returns the
// finished Report. Per-file failures are recorded as skips and never
// abort the run; a *ConfigError or *ArtifactError does.
//
// ctx cancels the run between candidates: the artifact keeps every block
// written so far and the returned Report has Cancelled set instead of an
// error being returned.
func Run(ctx context.Context, cfg *Config, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	logger.Info("starting consolidation",
		zap.String("root", cfg.Root),
		zap.String("output", cfg.Output),
		zap.String("format", string(cfg.Format)))

	stats := newRunStats()
	matcher := NewMatcher(cfg)
	agg, err := newAggregator(cfg, filepath.Base(cfg.Root), stats, logger)
	if err != nil {
		return Report{}, err
	}

	walker := NewWalker(cfg.Root, matcher, logger)
	walker.OnSkip = stats.recordSkip

	walkErr := walker.Walk(agg.consume(ctx))
	closeErr := agg.close()
	if walkErr != nil {
		return Report{}, walkErr
	}
	if closeErr != nil {
		return Report{}, closeErr
	}

	if cfg.TreeOutput != "" {
		if err := writeTree(cfg.TreeOutput, filepath.Base(cfg.Root), agg.treePaths); err != nil {
			return Report{}, err
		}
	}

	report := stats.report()
	logger.Info("consolidation complete",
		zap.Int("filesProcessed", report.FilesProcessed),
		zap.Int("filesSkipped", len(report.Skipped)),
		zap.Int("totalLines", report.TotalLines),
		zap.Int64("artifactBytes", report.ArtifactBytes),
		zap.Int64("elapsedMs", report.ElapsedMS),
		zap.Bool("cancelled", report.Cancelled))
	return report, nil
}
