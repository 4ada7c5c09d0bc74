package consolidate

import (
	"bytes"
	"unicode/utf8"
)

// classifyProbeSize bounds the control-character scan to the head of the
// file, matching the usual "sniff the first block" heuristic.
const classifyProbeSize = 512

// isBinaryContent reports whether data cannot be treated as text. A NUL
// byte, invalid UTF-8, or a high share of control characters in the
// leading probe all mark the content binary. Empty files are text.
func isBinaryContent(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	probe := data
	if len(probe) > classifyProbeSize {
		probe = probe[:classifyProbeSize]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return true
	}
	if !utf8.Valid(data) {
		return true
	}
	control := 0
	for _, b := range probe {
		if isControl(b) {
			control++
		}
	}
	return float64(control)/float64(len(probe)) > 0.3
}

// isControl flags bytes below the printable ASCII range, except the
// whitespace every text file contains. Multi-byte UTF-8 sequences are
// handled by the validity check, not counted here.
func isControl(b byte) bool {
	if b == '\n' || b == '\r' || b == '\t' {
		return false
	}
	return b < 32 || b == 127
}
