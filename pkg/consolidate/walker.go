package consolidate

import (
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

// Candidate is one file that passed every rule and awaits aggregation.
type Candidate struct {
	Path string // absolute path on disk
	Rel  string // slash-normalized path relative to the root
}

// WalkFunc consumes candidates in traversal order. Returning an error
// stops the walk; fs.SkipAll stops it without error.
type WalkFunc func(c Candidate) error

// Walker produces the candidate sequence for one run: a depth-first,
// lexically ordered traversal that prunes excluded directories before
// descending and yields files one at a time. Symlinked directories are
// never followed, so cyclic links cannot cause non-termination.
type Walker struct {
	root    string
	matcher *Matcher
	logger  *zap.Logger

	// OnSkip records directories that could not be enumerated.
	OnSkip func(relPath, reason string)
}

// NewWalker returns a Walker over root using the given rules.
func NewWalker(root string, m *Matcher, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{root: root, matcher: m, logger: logger}
}

// Walk streams candidates into fn. Unreadable directories are recorded
// through OnSkip and the traversal continues; only an error returned by
// fn aborts the walk.
func (w *Walker) Walk(fn WalkFunc) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rel := w.rel(path)
			w.logger.Warn("cannot access path, skipping",
				zap.String("path", path),
				zap.Error(err))
			if w.OnSkip != nil {
				w.OnSkip(rel, ReasonDirError)
			}
			return nil
		}
		if path == w.root {
			return nil
		}

		rel := w.rel(path)
		if d.IsDir() {
			if w.matcher.Excluded(rel) {
				w.logger.Debug("pruning excluded directory", zap.String("dir", rel))
				return fs.SkipDir
			}
			return nil
		}
		if w.matcher.Excluded(rel) {
			return nil
		}
		if !w.matcher.Included(d.Name()) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(Candidate{Path: path, Rel: rel})
	})
}

func (w *Walker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
