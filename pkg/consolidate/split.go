package consolidate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Block is one file recovered from a plain-format artifact.
type Block struct {
	Path    string // slash-normalized path relative to the original root
	Content []byte // exact original file content
}

// Split parses a plain-format artifact back into its blocks, the exact
// inverse of what the plain writer produced. An empty artifact yields no
// blocks. Content lines that themselves use the header framing defeat
// the format; the artifact declares header lines unique.
func Split(r io.Reader) ([]Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	type header struct {
		start   int // offset of the header line
		content int // offset of the first content byte
		path    string
	}
	var headers []header
	for i := 0; i < len(data); {
		lineEnd := bytes.IndexByte(data[i:], '\n')
		var line []byte
		next := len(data)
		if lineEnd < 0 {
			line = data[i:]
		} else {
			line = data[i : i+lineEnd]
			next = i + lineEnd + 1
		}
		if path, ok := parseHeaderLine(line); ok {
			headers = append(headers, header{start: i, content: next, path: path})
		}
		i = next
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("not a plain artifact: no file headers found")
	}
	if headers[0].start != 0 {
		return nil, fmt.Errorf("artifact does not start with a file header")
	}

	blocks := make([]Block, 0, len(headers))
	for k, h := range headers {
		end := len(data)
		if k+1 < len(headers) {
			end = headers[k+1].start
		}
		// Every block ends in the blank-line delimiter the writer added.
		if end-h.content < 2 || data[end-2] != '\n' || data[end-1] != '\n' {
			return nil, fmt.Errorf("block %q is not terminated by a blank line", h.path)
		}
		content := make([]byte, end-2-h.content)
		copy(content, data[h.content:end-2])
		blocks = append(blocks, Block{Path: h.path, Content: content})
	}
	return blocks, nil
}

// parseHeaderLine extracts the relative path from a block header line.
func parseHeaderLine(line []byte) (string, bool) {
	if len(line) < len(headerPrefix)+len(headerSuffix) {
		return "", false
	}
	if !bytes.HasPrefix(line, []byte(headerPrefix)) || !bytes.HasSuffix(line, []byte(headerSuffix)) {
		return "", false
	}
	return string(line[len(headerPrefix) : len(line)-len(headerSuffix)]), true
}

// Restore writes blocks back to disk under destDir, recreating the
// relative layout the artifact recorded. Blocks are written by a small
// worker pool; workers <= 0 selects one per CPU. Paths that would escape
// destDir are rejected.
func Restore(ctx context.Context, blocks []Block, destDir string, workers int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(blocks) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(blocks) {
		workers = len(blocks)
	}
	logger.Debug("restoring blocks",
		zap.Int("blocks", len(blocks)),
		zap.String("dest", destDir),
		zap.Int("workers", workers))

	jobs := make(chan Block, len(blocks))
	errs := make(chan error, len(blocks))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", w))
		go func() {
			defer wg.Done()
			for b := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := writeBlock(destDir, b); err != nil {
					workerLogger.Error("cannot restore block",
						zap.String("path", b.Path),
						zap.Error(err))
					errs <- err
					continue
				}
				workerLogger.Debug("restored block", zap.String("path", b.Path))
			}
		}()
	}
	for _, b := range blocks {
		jobs <- b
	}
	close(jobs)
	wg.Wait()
	close(errs)

	if err := ctx.Err(); err != nil {
		return err
	}
	var first error
	failed := 0
	for err := range errs {
		if first == nil {
			first = err
		}
		failed++
	}
	if first != nil {
		return fmt.Errorf("restore failed for %d of %d blocks: %w", failed, len(blocks), first)
	}
	return nil
}

// writeBlock materializes one block under destDir, creating parent
// directories as needed.
func writeBlock(destDir string, b Block) error {
	if b.Path == "" {
		return fmt.Errorf("block has an empty path")
	}
	base := filepath.Clean(destDir)
	target := filepath.Join(base, filepath.FromSlash(b.Path))
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("block path %q escapes the destination directory", b.Path)
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", b.Path, err)
		}
	}
	if err := os.WriteFile(target, b.Content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", b.Path, err)
	}
	return nil
}
