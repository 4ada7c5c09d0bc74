package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSetMatches(t *testing.T) {
	testCases := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"star extension at root", []string{"*.log"}, "debug.log", true},
		{"star extension nested", []string{"*.log"}, "logs/app/debug.log", true},
		{"star extension no match", []string{"*.log"}, "debug.log.txt", false},
		{"star stays in segment", []string{"src/*.py"}, "src/deep/a.py", false},
		{"directory rule bare name", []string{"build/"}, "build", true},
		{"directory rule contents", []string{"build/"}, "build/out/app.py", true},
		{"directory rule nested", []string{"build/"}, "android/build/tmp.py", true},
		{"directory rule similar name", []string{"build/"}, "builder/x.py", false},
		{"rooted pattern at root", []string{"/rooted.txt"}, "rooted.txt", true},
		{"rooted pattern nested", []string{"/rooted.txt"}, "sub/rooted.txt", false},
		{"leading doublestar", []string{"**/temp"}, "a/b/temp", true},
		{"leading doublestar at root", []string{"**/temp"}, "temp", true},
		{"leading doublestar contents", []string{"**/temp"}, "a/temp/file.py", true},
		{"trailing doublestar", []string{"doc/**"}, "doc/a/b.md", true},
		{"trailing doublestar self", []string{"doc/**"}, "doc", true},
		{"middle doublestar direct", []string{"a/**/b"}, "a/b", true},
		{"middle doublestar deep", []string{"a/**/b"}, "a/x/y/b", true},
		{"middle doublestar no tail", []string{"a/**/b"}, "a/x/c", false},
		{"question mark one char", []string{"file?.txt"}, "fileA.txt", true},
		{"question mark zero chars", []string{"file?.txt"}, "file.txt", false},
		{"escaped dot is literal", []string{"a.py"}, "aXpy", false},
		{"whole segment only", []string{"cache"}, "cachedir/x.py", false},
		{"segment anywhere", []string{"cache"}, "app/cache/x.py", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rs := New(nil)
			rs.CompileLines(tc.patterns...)
			assert.Equal(t, tc.want, rs.Matches(tc.path))
		})
	}
}

func TestRuleSetNegation(t *testing.T) {
	rs := New(nil)
	rs.CompileLines("*.md", "!README.md")

	assert.True(t, rs.Matches("docs/notes.md"))
	assert.False(t, rs.Matches("README.md"), "negation re-admits the file")
	assert.False(t, rs.Matches("docs/README.md"))
}

func TestRuleSetLastMatchWins(t *testing.T) {
	rs := New(nil)
	rs.CompileLines("!keep.py", "*.py")

	// The later unconditional rule overrides the earlier negation.
	assert.True(t, rs.Matches("keep.py"))
}

func TestRuleSetSkipsCommentsAndBlanks(t *testing.T) {
	rs := New(nil)
	rs.CompileLines("# a comment", "", "   ", "*.tmp")

	assert.Equal(t, 1, rs.Len())
	assert.True(t, rs.Matches("x.tmp"))
}

func TestMatchesWithPattern(t *testing.T) {
	rs := New(nil)
	rs.CompileLines("*.md", "!README.md")

	matched, p := rs.MatchesWithPattern("README.md")
	assert.False(t, matched)
	require.NotNil(t, p)
	assert.Equal(t, "!README.md", p.Line)
	assert.Equal(t, 2, p.LineNo)
	assert.True(t, p.Negate)

	matched, p = rs.MatchesWithPattern("unrelated.py")
	assert.False(t, matched)
	assert.Nil(t, p)
}

func TestNilRuleSetIsInert(t *testing.T) {
	var rs *RuleSet
	assert.Zero(t, rs.Len())
	assert.False(t, rs.Matches("anything.py"))
}

func TestLoadReadsFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, ".ctxignore")
	global := filepath.Join(dir, "global-ignore")
	require.NoError(t, os.WriteFile(project, []byte("*.log\n!important.log\n"), 0644))
	require.NoError(t, os.WriteFile(global, []byte("secrets/\n"), 0644))

	rs, err := Load(nil, project, global)
	require.NoError(t, err)

	assert.Equal(t, 3, rs.Len())
	assert.True(t, rs.Matches("debug.log"))
	assert.False(t, rs.Matches("important.log"))
	assert.True(t, rs.Matches("secrets/key.pem"))
}

func TestLoadToleratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	rs, err := Load(nil, filepath.Join(dir, "does-not-exist"), "")
	require.NoError(t, err)
	assert.Zero(t, rs.Len())
}

func TestCompileFileMissingIsAnError(t *testing.T) {
	rs := New(nil)
	err := rs.CompileFile(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, os.IsNotExist(err))
}
