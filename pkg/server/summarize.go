package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
	"tara/pkg/inference"
	"tara/pkg/schema"
	"tara/pkg/utils"
)

const summarizePrompt = `You summarize a span of conversation between a user and a tarot/astrology character.
Write a concise third-person summary that keeps:
- the user's name and any birth details they shared (date, time, place)
- questions asked and readings or advice given
- commitments, remedies, or follow-ups mentioned
Return strict JSON: {"summary":"..."}. Output only the JSON object.`

// Summarizer condenses conversation spans with an LLM call. Failures
// propagate to the caller unchanged; the conversation checkpoint only
// advances on success.
type Summarizer struct {
	inf inference.Inferencer
}

func NewSummarizer(inf inference.Inferencer) *Summarizer {
	return &Summarizer{inf: inf}
}

func (s *Summarizer) Summarize(ctx context.Context, msgs []chat.Message) (string, error) {
	var transcript strings.Builder
	for _, m := range msgs {
		if m.Role == chat.RoleSystem {
			continue
		}
		transcript.WriteString(string(m.Role))
		transcript.WriteString(": ")
		transcript.WriteString(m.Content)
		transcript.WriteString("\n")
	}
	if transcript.Len() == 0 {
		return "", fmt.Errorf("nothing to summarize")
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(512),
		Temperature:         openai.Float(0.2),
		ResponseFormat:      schema.ChatSummaryResponseFormat(),
	}
	prompt := []chat.Message{
		chat.System(summarizePrompt),
		chat.User(transcript.String()),
	}

	comp, err := s.inf.Infer(ctx, params, prompt)
	if err != nil {
		return "", err
	}

	var parsed schema.ChatSummary
	if err := json.Unmarshal([]byte(utils.CleanJSON(comp.Content)), &parsed); err != nil {
		return "", fmt.Errorf("parsing summary response: %w", err)
	}
	if strings.TrimSpace(parsed.Summary) == "" {
		return "", fmt.Errorf("empty summary returned")
	}
	return parsed.Summary, nil
}
