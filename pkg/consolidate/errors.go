package consolidate

import "fmt"

// Skip reasons recorded in a Report. Every visited candidate that does not
// make it into the artifact carries exactly one of these.
const (
	ReasonDecodeError = "decode-error" // binary or non-UTF-8 content
	ReasonReadError   = "read-error"   // file vanished or unreadable
	ReasonDirError    = "dir-error"    // directory could not be enumerated
	ReasonTooLarge    = "too-large"    // over the configured size limit
)

// ConfigError reports an invalid run configuration. It is returned before
// any traversal begins; a run that starts walking never produces one.
type ConfigError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Field, e.Msg, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ArtifactError reports a failed write to the output artifact mid-run.
// It is fatal: the run aborts and the partial artifact is flushed as-is.
type ArtifactError struct {
	Path string
	Op   string // "write", "flush", "close"
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
