package segment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
	"tara/pkg/inference"
)

type stubInferencer struct {
	content string
	err     error
	delay   time.Duration
}

func (s *stubInferencer) Model() string { return "stub" }

func (s *stubInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, msgs []chat.Message) (inference.Completion, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return inference.Completion{}, ctx.Err()
		}
	}
	if s.err != nil {
		return inference.Completion{}, s.err
	}
	return inference.Completion{Content: s.content, Model: "stub"}, nil
}

func TestSegmentAcceptsLosslessSplit(t *testing.T) {
	text := "Your career looks strong this month. For love, patience will serve you well."
	stub := &stubInferencer{content: `{"segments":[
		{"topic":"career outlook","content":"Your career looks strong this month."},
		{"topic":"love guidance","content":"For love, patience will serve you well."}
	]}`}

	got := New(stub).Segment(context.Background(), text)
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	if got[0].Topic != "career outlook" || got[1].Topic != "love guidance" {
		t.Fatalf("unexpected topics: %+v", got)
	}
}

func TestSegmentEmptyText(t *testing.T) {
	if got := New(&stubInferencer{}).Segment(context.Background(), "   "); got != nil {
		t.Fatalf("expected nil for empty text, got %+v", got)
	}
}

func TestSegmentGarbageFallsBack(t *testing.T) {
	text := "A single paragraph about the moon."
	got := New(&stubInferencer{content: "not json at all"}).Segment(context.Background(), text)
	if len(got) != 1 || got[0].Topic != fallbackTopic || got[0].Content != text {
		t.Fatalf("expected single fallback segment, got %+v", got)
	}
}

func TestSegmentInferenceErrorFallsBack(t *testing.T) {
	text := "A single paragraph about the moon."
	got := New(&stubInferencer{err: errors.New("model down")}).Segment(context.Background(), text)
	if len(got) != 1 || got[0].Content != text {
		t.Fatalf("expected single fallback segment, got %+v", got)
	}
}

func TestSegmentLossySplitRejected(t *testing.T) {
	text := "Your career looks strong this month. For love, patience will serve you well. Health needs rest."
	stub := &stubInferencer{content: `{"segments":[{"topic":"career","content":"Your career looks strong."}]}`}

	got := New(stub).Segment(context.Background(), text)
	if len(got) != 1 || got[0].Topic != fallbackTopic || got[0].Content != text {
		t.Fatalf("lossy split must be rejected, got %+v", got)
	}
}

func TestSegmentEmptySegmentRejected(t *testing.T) {
	text := "Something about the stars."
	stub := &stubInferencer{content: `{"segments":[{"topic":"a","content":"Something about the stars."},{"topic":"b","content":"  "}]}`}

	got := New(stub).Segment(context.Background(), text)
	if len(got) != 1 || got[0].Topic != fallbackTopic {
		t.Fatalf("empty segment must trigger fallback, got %+v", got)
	}
}

func TestSegmentTimeoutFallsBack(t *testing.T) {
	text := "The moon is in your seventh house."
	s := New(&stubInferencer{delay: time.Second, content: `{"segments":[{"topic":"x","content":"y"}]}`})
	s.timeout = 10 * time.Millisecond

	got := s.Segment(context.Background(), text)
	if len(got) != 1 || got[0].Content != text {
		t.Fatalf("timeout must yield the fallback segment, got %+v", got)
	}
}
