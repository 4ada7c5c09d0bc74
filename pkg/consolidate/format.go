package consolidate

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	headerPrefix = "=== "
	headerSuffix = " ==="
)

// blockWriter renders one artifact layout.
type blockWriter interface {
	// Preamble runs once, before any block.
	Preamble(w io.Writer) error
	// Block writes one file entry.
	Block(w io.Writer, rel string, content []byte) error
}

func newBlockWriter(format Format, projectName string) blockWriter {
	if format == FormatMarkdown {
		return markdownWriter{project: projectName}
	}
	return plainWriter{}
}

// plainWriter emits the re-splittable layout: a header line naming the
// file, the raw content, and a blank-line delimiter. Split relies on this
// exact framing to recover content byte-for-byte.
type plainWriter struct{}

func (plainWriter) Preamble(io.Writer) error { return nil }

func (plainWriter) Block(w io.Writer, rel string, content []byte) error {
	if _, err := io.WriteString(w, headerPrefix+rel+headerSuffix+"\n"); err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n\n")
	return err
}

// markdownWriter emits a human-readable layout with fenced code blocks.
// Markdown artifacts are for reading, not for Split.
type markdownWriter struct {
	project string
}

var markdownRule = strings.Repeat("=", 80)

func (m markdownWriter) Preamble(w io.Writer) error {
	_, err := fmt.Fprintf(w, "--- Project Context for: %s ---\n\n", m.project)
	return err
}

func (m markdownWriter) Block(w io.Writer, rel string, content []byte) error {
	lang := strings.TrimPrefix(path.Ext(rel), ".")
	if _, err := fmt.Fprintf(w, "%s\n### FILE: %s\n%s\n```%s\n", markdownRule, rel, markdownRule, lang); err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n```\n\n")
	return err
}

// countLines counts line-terminator boundaries plus a final unterminated
// line when the content does not end in a newline. Empty content has
// zero lines.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// countingWriter tracks how many bytes reached the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
