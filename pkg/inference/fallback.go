package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
)

// Fallback tries each inferencer in priority order; the first to return
// successfully wins. Per-attempt failures are logged and the next model
// tried. There is no retry within a model, no backoff, and no circuit
// breaking.
type Fallback struct {
	chain []Inferencer

	// OnFailover, when set, observes each failed attempt's model name.
	OnFailover func(model string)
}

func NewFallback(chain ...Inferencer) *Fallback {
	return &Fallback{chain: chain}
}

// Model reports the highest-priority model in the chain.
func (f *Fallback) Model() string {
	if len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Model()
}

func (f *Fallback) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, msgs []chat.Message) (Completion, error) {
	if len(f.chain) == 0 {
		return Completion{}, errors.New("no models configured")
	}

	var lastErr error
	for _, inf := range f.chain {
		if err := ctx.Err(); err != nil {
			return Completion{}, err
		}

		comp, err := inf.Infer(ctx, params, msgs)
		if err == nil {
			return comp, nil
		}
		lastErr = err
		log.Warn("model attempt failed, trying next", "model", inf.Model(), "error", err)
		if f.OnFailover != nil {
			f.OnFailover(inf.Model())
		}
	}

	return Completion{}, fmt.Errorf("all models failed, last error: %w", lastErr)
}
