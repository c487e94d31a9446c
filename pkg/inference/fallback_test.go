package inference

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
)

type stubInferencer struct {
	model   string
	content string
	err     error
	calls   int
}

func (s *stubInferencer) Model() string { return s.model }

func (s *stubInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, msgs []chat.Message) (Completion, error) {
	s.calls++
	if s.err != nil {
		return Completion{}, s.err
	}
	return Completion{Content: s.content, Model: s.model}, nil
}

func TestFallbackFirstModelWins(t *testing.T) {
	first := &stubInferencer{model: "gpt-4o", content: "from first"}
	second := &stubInferencer{model: "gpt-4o-mini", content: "from second"}
	f := NewFallback(first, second)

	comp, err := f.Infer(context.Background(), nil, []chat.Message{chat.User("hi")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comp.Model != "gpt-4o" || comp.Content != "from first" {
		t.Fatalf("unexpected completion: %+v", comp)
	}
	if second.calls != 0 {
		t.Fatal("second model must not be tried when the first succeeds")
	}
}

func TestFallbackSecondModelWins(t *testing.T) {
	first := &stubInferencer{model: "gpt-4o", err: errors.New("rate limited")}
	second := &stubInferencer{model: "gpt-4o-mini", content: "recovered"}
	f := NewFallback(first, second)

	var failed []string
	f.OnFailover = func(model string) { failed = append(failed, model) }

	comp, err := f.Infer(context.Background(), nil, []chat.Message{chat.User("hi")})
	if err != nil {
		t.Fatalf("expected second model to recover, got error: %v", err)
	}
	if comp.Model != "gpt-4o-mini" {
		t.Fatalf("expected modelUsed to be the second model, got %q", comp.Model)
	}
	if len(failed) != 1 || failed[0] != "gpt-4o" {
		t.Fatalf("expected one failover for gpt-4o, got %v", failed)
	}
}

func TestFallbackAllModelsFail(t *testing.T) {
	lastErr := errors.New("quota exhausted")
	f := NewFallback(
		&stubInferencer{model: "a", err: errors.New("boom")},
		&stubInferencer{model: "b", err: lastErr},
	)

	_, err := f.Infer(context.Background(), nil, []chat.Message{chat.User("hi")})
	if err == nil {
		t.Fatal("expected error when all models fail")
	}
	if !errors.Is(err, lastErr) {
		t.Fatalf("error must embed the last failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "all models failed") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestFallbackEmptyChain(t *testing.T) {
	f := NewFallback()
	if _, err := f.Infer(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error with no models configured")
	}
}
