package chat

import (
	"context"
	"fmt"
)

// summarizeEvery is the message-count cadence between summarization passes.
const summarizeEvery = 10

// Summary is a condensed record of a conversation span.
type Summary struct {
	Text         string `json:"summary"`
	MessageCount int    `json:"messageCount"`
}

// Summarizer condenses a span of messages into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, msgs []Message) (string, error)
}

// LatestSummary returns the most recent conversation summary.
func (h *History) LatestSummary() (Summary, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.summaries) == 0 {
		return Summary{}, false
	}
	return h.summaries[len(h.summaries)-1], true
}

// MaybeSummarize summarizes the unsummarized tail once the history has
// grown by summarizeEvery messages since the last checkpoint. It reports
// whether the caller should collapse the history with StartNewChat.
// Summarization failures propagate; there is no retry and no fallback,
// and the checkpoint does not advance.
func (h *History) MaybeSummarize(ctx context.Context, s Summarizer) (bool, error) {
	h.mu.Lock()
	if len(h.messages) < h.lastSummarized+summarizeEvery {
		h.mu.Unlock()
		return false, nil
	}
	mark := h.lastSummarized
	tail := make([]Message, len(h.messages)-mark)
	copy(tail, h.messages[mark:])
	total := len(h.messages)
	h.mu.Unlock()

	text, err := s.Summarize(ctx, tail)
	if err != nil {
		return false, fmt.Errorf("summarizing conversation for %s: %w", h.characterID, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// A concurrent Reset or summarization already moved the checkpoint.
	if h.lastSummarized != mark || len(h.messages) < total {
		return false, nil
	}
	h.summaries = append(h.summaries, Summary{Text: text, MessageCount: total})
	h.lastSummarized = total
	return true, nil
}

// StartNewChat collapses the history to the original system message plus
// a synthetic system message embedding the latest summary.
func (h *History) StartNewChat() {
	h.mu.Lock()
	defer h.mu.Unlock()

	seed := System(h.seed)
	for _, m := range h.messages {
		if m.Role == RoleSystem {
			seed = m
			break
		}
	}

	collapsed := []Message{seed}
	if len(h.summaries) > 0 {
		latest := h.summaries[len(h.summaries)-1]
		collapsed = append(collapsed, System("Summary of the conversation so far: "+latest.Text))
	}
	h.messages = collapsed
	h.lastSummarized = len(collapsed)
}
