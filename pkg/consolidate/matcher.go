package consolidate

import (
	"strings"
)

// Matcher evaluates the inclusion and exclusion rules of one run. It is a
// pure predicate over path strings; it never touches the filesystem.
type Matcher struct {
	exts     []string
	patterns []string
	rules    ruleMatcher
}

// ruleMatcher is the slice of the ignore RuleSet the matcher needs.
type ruleMatcher interface {
	Matches(relPath string) bool
}

// NewMatcher builds a Matcher from a validated Config.
func NewMatcher(cfg *Config) *Matcher {
	m := &Matcher{
		exts:     cfg.IncludeExts,
		patterns: cfg.ExcludePatterns,
	}
	if cfg.IgnoreRules != nil && cfg.IgnoreRules.Len() > 0 {
		m.rules = cfg.IgnoreRules
	}
	return m
}

// Included reports whether the file name carries one of the include
// extensions. The check is a case-insensitive suffix match, so compound
// extensions like ".gradle.kts" qualify under ".kts".
func (m *Matcher) Included(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range m.exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Excluded reports whether the slash-normalized relative path is ruled
// out. A pattern excludes when it occurs as a case-sensitive substring of
// the path; a pattern equal to one whole path segment is in particular a
// substring, so directory names and exact file names are covered by the
// same test. Exclusion takes precedence over inclusion: callers check
// Excluded first and never read or descend into anything it rejects.
func (m *Matcher) Excluded(relPath string) bool {
	for _, p := range m.patterns {
		if strings.Contains(relPath, p) {
			return true
		}
	}
	if m.rules != nil && m.rules.Matches(relPath) {
		return true
	}
	return false
}
