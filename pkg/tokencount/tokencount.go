// Package tokencount estimates how many LLM tokens a piece of text will
// consume. The exact counter uses a tiktoken BPE encoding; when the
// encoding for the requested model cannot be loaded, a crude length-based
// heuristic stands in so token reporting keeps working offline.
package tokencount

import (
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// DefaultModel is the encoding used when the caller does not name one.
const DefaultModel = "gpt-4o"

// Counter estimates token usage for text.
type Counter interface {
	CountTokens(text string) int
	Name() string
}

// ForModel returns the tiktoken counter for model, falling back to the
// heuristic estimate when the encoding cannot be loaded.
func ForModel(model string, logger *zap.Logger) Counter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = DefaultModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using heuristic token estimate",
			zap.String("model", model),
			zap.Error(err))
		return Heuristic{}
	}
	return &Tiktoken{enc: enc, model: model}
}

// Tiktoken counts tokens with an exact BPE encoding.
type Tiktoken struct {
	enc   *tiktoken.Tiktoken
	model string
}

func (t *Tiktoken) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.EncodeOrdinary(text))
}

func (t *Tiktoken) Name() string { return "tiktoken/" + t.model }

// Heuristic approximates tokens as one per four bytes, the usual rough
// figure for English-like text. Intentionally crude but stable and free
// of model downloads.
type Heuristic struct{}

func (Heuristic) CountTokens(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

func (Heuristic) Name() string { return "heuristic" }
