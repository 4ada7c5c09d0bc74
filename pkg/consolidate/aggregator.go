package consolidate

import (
	"bufio"
	"context"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// Aggregator consumes the candidate sequence and streams one block per
// readable text file into the artifact. The artifact is opened before the
// first candidate and flushed on every exit path; because cancellation is
// only observed between candidates, a cancelled artifact always ends on a
// block boundary.
type Aggregator struct {
	cfg     *Config
	writer  blockWriter
	counter *countingWriter
	buf     *bufio.Writer
	file    *os.File
	stats   *runStats
	logger  *zap.Logger

	// treePaths collects processed relative paths for the optional tree
	// artifact. Only populated when the run asked for one.
	treePaths []string
}

// newAggregator opens the artifact, truncating any previous content, and
// writes the format preamble. A create failure is a configuration
// problem: it surfaces before any traversal begins.
func newAggregator(cfg *Config, projectName string, stats *runStats, logger *zap.Logger) (*Aggregator, error) {
	file, err := os.Create(cfg.Output)
	if err != nil {
		return nil, &ConfigError{Field: "output", Msg: "cannot create artifact", Err: err}
	}
	buf := bufio.NewWriter(file)
	a := &Aggregator{
		cfg:     cfg,
		writer:  newBlockWriter(cfg.Format, projectName),
		counter: &countingWriter{w: buf},
		buf:     buf,
		file:    file,
		stats:   stats,
		logger:  logger,
	}
	if err := a.writer.Preamble(a.counter); err != nil {
		_ = file.Close()
		return nil, &ArtifactError{Path: cfg.Output, Op: "write", Err: err}
	}
	return a, nil
}

// consume returns the WalkFunc feeding this aggregator. Cancellation is
// checked once per candidate; a write failure aborts the walk with an
// *ArtifactError.
func (a *Aggregator) consume(ctx context.Context) WalkFunc {
	return func(c Candidate) error {
		select {
		case <-ctx.Done():
			a.stats.cancelled = true
			return fs.SkipAll
		default:
		}
		return a.process(c)
	}
}

func (a *Aggregator) process(c Candidate) error {
	a.stats.candidates++

	if a.cfg.MaxFileSize > 0 {
		if info, err := os.Lstat(c.Path); err == nil && info.Size() > a.cfg.MaxFileSize {
			a.logger.Debug("skipping oversized file",
				zap.String("path", c.Rel),
				zap.Int64("sizeBytes", info.Size()))
			a.skip(c, ReasonTooLarge)
			return nil
		}
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		a.logger.Warn("cannot read candidate, skipping",
			zap.String("path", c.Path),
			zap.Error(err))
		a.skip(c, ReasonReadError)
		return nil
	}
	if isBinaryContent(data) {
		a.logger.Debug("skipping binary file", zap.String("path", c.Rel))
		a.skip(c, ReasonDecodeError)
		return nil
	}

	if err := a.writer.Block(a.counter, c.Rel, data); err != nil {
		return &ArtifactError{Path: a.cfg.Output, Op: "write", Err: err}
	}

	a.stats.processed++
	a.stats.lines += countLines(data)
	a.stats.bytes = a.counter.n
	if a.cfg.Counter != nil {
		a.stats.tokens += a.cfg.Counter.CountTokens(string(data))
	}
	if a.cfg.TreeOutput != "" {
		a.treePaths = append(a.treePaths, c.Rel)
	}
	a.progress(c.Rel)
	return nil
}

func (a *Aggregator) skip(c Candidate, reason string) {
	a.stats.recordSkip(c.Rel, reason)
	a.progress(c.Rel)
}

func (a *Aggregator) progress(rel string) {
	if a.cfg.OnProgress == nil {
		return
	}
	a.cfg.OnProgress(rel, a.stats.processed, a.stats.candidates)
}

// close flushes and closes the artifact. Whatever whole blocks were
// written stay on disk even when the flush fails.
func (a *Aggregator) close() error {
	flushErr := a.buf.Flush()
	closeErr := a.file.Close()
	if flushErr != nil {
		return &ArtifactError{Path: a.cfg.Output, Op: "flush", Err: flushErr}
	}
	if closeErr != nil {
		return &ArtifactError{Path: a.cfg.Output, Op: "close", Err: closeErr}
	}
	a.stats.bytes = a.counter.n
	return nil
}
