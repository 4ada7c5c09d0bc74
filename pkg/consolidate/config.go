package consolidate

import (
	"os"
	"path/filepath"
	"strings"

	"ctxgen/pkg/ignore"
	"ctxgen/pkg/tokencount"
)

// DefaultIncludeExtensions selects the file types most projects want in
// their context artifact.
var DefaultIncludeExtensions = []string{
	".kt", ".java", ".xml", ".gradle", ".kts", ".pro", ".md",
	".json", ".yml", ".yaml", ".py", ".js", ".html", ".css",
	".go", ".ts",
}

// DefaultExcludePatterns prunes VCS metadata, IDE state, and build output.
var DefaultExcludePatterns = []string{
	".git", ".idea", "build", ".gradle", "gradle", "captures",
	"local.properties", ".DS_Store", "__pycache__", "node_modules",
	"vendor", "dist", "target",
}

// Format names an artifact layout.
type Format string

const (
	// FormatPlain frames each file as "=== path ===" plus raw content.
	// Plain artifacts can be split back into their source files.
	FormatPlain Format = "plain"
	// FormatMarkdown wraps each file in a fenced code block for reading.
	FormatMarkdown Format = "markdown"
)

// ProgressFunc receives one notification per processed-or-skipped
// candidate. total is the number of candidates seen so far; the walk is
// lazy, so the final count is unknown until it completes. Handlers must
// return quickly, the engine blocks on them.
type ProgressFunc func(relPath string, processed, total int)

// Config describes one consolidation run. Callers fill it once; the
// engine never mutates it beyond extension normalization in Validate.
type Config struct {
	Root            string   // project directory to walk
	Output          string   // artifact path, truncated on open
	IncludeExts     []string // extension suffixes, matched case-insensitively
	ExcludePatterns []string // substring or path-segment excludes, case-sensitive
	Format          Format   // artifact layout, FormatPlain when empty
	TreeOutput      string   // optional path for a candidate tree rendering
	MaxFileSize     int64    // per-file byte limit, 0 means unlimited

	IgnoreRules *ignore.RuleSet    // optional .ctxignore rules
	OnProgress  ProgressFunc       // optional progress sink
	Counter     tokencount.Counter // optional token estimator
}

// Validate checks the invariants a run depends on and normalizes the
// rule sets: the root becomes absolute, extensions become lowercase with
// a leading dot, and blank exclude patterns are dropped (an empty pattern
// is a substring of every path and would exclude the whole tree).
// Normalized sets replace the slice headers wholesale; the caller's
// backing arrays are never written to. It returns a *ConfigError
// describing the first violation found.
func (c *Config) Validate() error {
	if c.Root == "" {
		return &ConfigError{Field: "root", Msg: "path is empty"}
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return &ConfigError{Field: "root", Msg: "path does not exist", Err: err}
	}
	if !info.IsDir() {
		return &ConfigError{Field: "root", Msg: "path is not a directory"}
	}
	if abs, err := filepath.Abs(c.Root); err == nil {
		c.Root = abs
	}
	if c.Output == "" {
		return &ConfigError{Field: "output", Msg: "path is empty"}
	}
	if len(c.IncludeExts) == 0 {
		return &ConfigError{Field: "include", Msg: "extension set is empty, nothing would be included"}
	}
	exts := make([]string, len(c.IncludeExts))
	for i, ext := range c.IncludeExts {
		e := strings.ToLower(strings.TrimSpace(ext))
		if e == "" {
			return &ConfigError{Field: "include", Msg: "extension set contains an empty entry"}
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[i] = e
	}
	c.IncludeExts = exts
	patterns := make([]string, 0, len(c.ExcludePatterns))
	for _, p := range c.ExcludePatterns {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	c.ExcludePatterns = patterns
	if c.Format == "" {
		c.Format = FormatPlain
	}
	if c.Format != FormatPlain && c.Format != FormatMarkdown {
		return &ConfigError{Field: "format", Msg: "unknown format " + string(c.Format)}
	}
	if c.MaxFileSize < 0 {
		return &ConfigError{Field: "max-size", Msg: "negative size limit"}
	}
	return nil
}
