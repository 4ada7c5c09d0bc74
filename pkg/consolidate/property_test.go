//go:build property

package consolidate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genBlockContent produces arbitrary file contents whose lines never
// collide with the block header framing, which is the one precondition
// the plain format places on its inputs.
func genBlockContent() gopter.Gen {
	return gen.AnyString().SuchThat(func(s string) bool {
		for _, line := range strings.Split(s, "\n") {
			if strings.HasPrefix(line, headerPrefix) && strings.HasSuffix(line, headerSuffix) {
				return false
			}
		}
		return true
	})
}

func genRelPath() gopter.Gen {
	segment := gen.RegexMatch(`^[a-z][a-z0-9_]{0,8}$`)
	return gen.SliceOfN(3, segment).Map(func(segs []string) string {
		return strings.Join(segs, "/") + ".py"
	})
}

func TestSplitInvertsAggregation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1905)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("split recovers every block byte for byte", prop.ForAll(
		func(contents []string) bool {
			var buf bytes.Buffer
			w := plainWriter{}
			for i, content := range contents {
				rel := "file_" + strings.Repeat("x", i) + ".py"
				if err := w.Block(&buf, rel, []byte(content)); err != nil {
					return false
				}
			}

			blocks, err := Split(&buf)
			if err != nil {
				return false
			}
			if len(blocks) != len(contents) {
				return false
			}
			for i, b := range blocks {
				if string(b.Content) != contents[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, genBlockContent()),
	))

	properties.Property("paths survive the round trip", prop.ForAll(
		func(rel, content string) bool {
			var buf bytes.Buffer
			if err := (plainWriter{}).Block(&buf, rel, []byte(content)); err != nil {
				return false
			}
			blocks, err := Split(&buf)
			if err != nil || len(blocks) != 1 {
				return false
			}
			return blocks[0].Path == rel && string(blocks[0].Content) == content
		},
		genRelPath(),
		genBlockContent(),
	))

	properties.TestingRun(t)
}

func TestLineCountProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1905)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("appending a terminated line adds exactly one", prop.ForAll(
		func(base, line string) bool {
			if strings.Contains(line, "\n") {
				return true
			}
			prefix := ""
			if base != "" && !strings.HasSuffix(base, "\n") {
				prefix = "\n"
			}
			before := countLines([]byte(base))
			after := countLines([]byte(base + prefix + line + "\n"))
			return after == before+1
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("line count never exceeds byte count", prop.ForAll(
		func(s string) bool {
			return countLines([]byte(s)) <= len(s)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
