package chat

import "testing"

func TestOptimizeShortSequenceUnchanged(t *testing.T) {
	msgs := []Message{
		System("base"),
		User("hello"),
		Assistant("hi there"),
	}
	got := Optimize(msgs)
	if len(got) != 3 {
		t.Fatalf("expected identity for <=3 messages, got %d", len(got))
	}
	for i := range msgs {
		if got[i].ID != msgs[i].ID {
			t.Fatalf("message %d changed", i)
		}
	}
}

func TestOptimizeBoundsLongSequence(t *testing.T) {
	msgs := []Message{
		System("base"),
		User("q1"), Assistant("a1"),
		User("q2"), Assistant("a2"),
		User("q3"),
	}
	got := Optimize(msgs)
	if len(got) > 4 {
		t.Fatalf("expected at most 4 entries, got %d", len(got))
	}
	if got[0].Role != RoleSystem || got[0].Content != "base" {
		t.Fatalf("original system message must come first, got %+v", got[0])
	}
	if got[1].Content != SummarizedNotice {
		t.Fatalf("expected summarized notice for >5 messages, got %q", got[1].Content)
	}
	if got[2].Role != RoleAssistant || got[2].Content != "a2" {
		t.Fatalf("expected latest assistant message, got %+v", got[2])
	}
	if got[3].Role != RoleUser || got[3].Content != "q3" {
		t.Fatalf("expected latest user message, got %+v", got[3])
	}
}

func TestOptimizeFourMessagesNoNotice(t *testing.T) {
	msgs := []Message{
		System("base"),
		User("q1"), Assistant("a1"),
		User("q2"),
	}
	got := Optimize(msgs)
	for _, m := range got {
		if m.Content == SummarizedNotice {
			t.Fatalf("notice must only appear for >5 messages")
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected [system, assistant, user], got %d entries", len(got))
	}
}

func TestOptimizeNoSystemMessage(t *testing.T) {
	msgs := []Message{
		User("q1"), Assistant("a1"),
		User("q2"), Assistant("a2"),
	}
	got := Optimize(msgs)
	if len(got) == 0 || got[0].Role == RoleSystem {
		t.Fatalf("no system message should be invented, got %+v", got)
	}
}
