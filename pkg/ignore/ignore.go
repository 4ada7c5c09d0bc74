// Package ignore compiles gitignore-style pattern files into a RuleSet
// that matches slash-normalized paths relative to a project root.
package ignore

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern is one compiled rule together with its source line.
type Pattern struct {
	Regexp *regexp.Regexp // Compiled form of the rule.
	Negate bool           // True when the line started with '!'.
	Line   string         // Original pattern line.
	LineNo int            // 1-based position in the source.
}

// RuleSet holds an ordered list of patterns. Later patterns override
// earlier ones, so a negation can re-admit a previously ignored path.
type RuleSet struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty RuleSet.
func New(logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleSet{logger: logger}
}

// Load reads each named ignore file in order and compiles its patterns.
// Files that do not exist are silently skipped; any other read failure
// aborts the load.
func Load(logger *zap.Logger, paths ...string) (*RuleSet, error) {
	rs := New(logger)
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := rs.CompileFile(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("load ignore file %s: %w", path, err)
		}
	}
	return rs, nil
}

// CompileFile parses an ignore file and appends its patterns.
func (rs *RuleSet) CompileFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		rs.compileLine(line, i+1)
	}
	rs.logger.Debug("compiled ignore file",
		zap.String("file", path),
		zap.Int("totalPatterns", len(rs.patterns)))
	return nil
}

// CompileLines appends patterns given directly, one rule per line.
func (rs *RuleSet) CompileLines(lines ...string) {
	base := len(rs.patterns)
	for i, line := range lines {
		rs.compileLine(line, base+i+1)
	}
}

func (rs *RuleSet) compileLine(line string, lineNo int) {
	re, negate, ok := parseLine(line, rs.logger)
	if !ok {
		return
	}
	rs.patterns = append(rs.patterns, &Pattern{
		Regexp: re,
		Negate: negate,
		Line:   strings.TrimSpace(line),
		LineNo: lineNo,
	})
}

// Len reports the number of compiled patterns.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.patterns)
}

// Matches reports whether relPath is ignored. relPath must be relative to
// the project root and use forward slashes.
func (rs *RuleSet) Matches(relPath string) bool {
	matched, _ := rs.MatchesWithPattern(relPath)
	return matched
}

// MatchesWithPattern is Matches plus the pattern that decided the outcome.
// The last matching pattern wins, so negations override earlier rules.
func (rs *RuleSet) MatchesWithPattern(relPath string) (bool, *Pattern) {
	if rs == nil {
		return false, nil
	}
	matched := false
	var decided *Pattern
	for _, p := range rs.patterns {
		if !p.Regexp.MatchString(relPath) {
			continue
		}
		matched = !p.Negate
		decided = p
	}
	return matched, decided
}

// parseLine turns one ignore-file line into a compiled regexp.
// Comments and blank lines yield ok=false.
func parseLine(line string, logger *zap.Logger) (re *regexp.Regexp, negate, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, false
	}
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	expr := escapeSpecials(trimmed)
	expr = expandDoubleStars(expr)
	expr = wildcardsToRegex(expr)
	expr = anchorPattern(expr, trimmed)

	re, err := regexp.Compile(expr)
	if err != nil {
		logger.Warn("invalid ignore pattern",
			zap.String("pattern", trimmed),
			zap.Error(err))
		return nil, false, false
	}
	return re, negate, true
}

var (
	doubleStarMiddle   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailing = regexp.MustCompile(`/\*\*$`)
	doubleStarLeading  = regexp.MustCompile(`^\*\*/`)
	singleStar         = regexp.MustCompile(`\*`)
)

// Sentinels stand in for expanded '**' fragments so the single-star pass
// cannot rewrite the regex text they produce.
const (
	midMark  = "\x00m\x00"
	tailMark = "\x00t\x00"
	headMark = "\x00h\x00"
)

// escapeSpecials escapes regexp metacharacters except '*', '?', and '/'.
func escapeSpecials(pattern string) string {
	const specials = `.+()|^$[]{}`
	for _, c := range specials {
		pattern = strings.ReplaceAll(pattern, string(c), `\`+string(c))
	}
	return pattern
}

func expandDoubleStars(pattern string) string {
	pattern = doubleStarMiddle.ReplaceAllString(pattern, midMark)
	pattern = doubleStarTrailing.ReplaceAllString(pattern, tailMark)
	pattern = doubleStarLeading.ReplaceAllString(pattern, headMark)
	return pattern
}

func wildcardsToRegex(pattern string) string {
	pattern = singleStar.ReplaceAllString(pattern, `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", ".")
	pattern = strings.ReplaceAll(pattern, midMark, `/(.+/)?`)
	pattern = strings.ReplaceAll(pattern, tailMark, `(/.*)?`)
	pattern = strings.ReplaceAll(pattern, headMark, `(.*/)?`)
	return pattern
}

// anchorPattern pins the rule to whole path components. A trailing slash
// marks a directory rule that also covers everything beneath it; a leading
// slash anchors the rule to the root instead of any depth.
func anchorPattern(pattern, original string) string {
	if strings.HasSuffix(original, "/") {
		pattern = strings.TrimSuffix(pattern, "/") + "(/.*)?$"
	} else {
		pattern += "(/.*)?$"
	}
	if strings.HasPrefix(original, "/") {
		return "^" + strings.TrimPrefix(pattern, "/")
	}
	return "^(|.*/)" + pattern
}
