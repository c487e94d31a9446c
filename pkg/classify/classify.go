// Package classify labels the user's latest message so the prompt
// engineer can steer the character's reply. Classification is best
// effort: every failure path degrades to a fixed default rather than
// surfacing an error.
package classify

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
	"tara/pkg/inference"
	"tara/pkg/schema"
	"tara/pkg/utils"
)

const classifyPrompt = `You classify a single message sent to a tarot/astrology chat character.
Return strict JSON with exactly these keys:
  "category": one of love, career, finance, health, family, spiritual, general
  "emotionalTone": one or two words (e.g. anxious, hopeful, curious, neutral)
  "recommendedApproach": one sentence on how the character should respond
Output only the JSON object, no commentary.`

// Service classifies messages with an LLM call.
type Service struct {
	inf inference.Inferencer
}

func New(inf inference.Inferencer) *Service {
	return &Service{inf: inf}
}

// Default is the classification used when there is nothing to classify or
// when the model response cannot be parsed.
func Default() schema.Classification {
	return schema.Classification{
		Category:            "general",
		EmotionalTone:       "neutral",
		RecommendedApproach: "Respond warmly and stay in character.",
	}
}

// Classify labels the last user message in msgs. Parse failures are
// swallowed and logged; the caller always gets a usable classification.
func (s *Service) Classify(ctx context.Context, msgs []chat.Message) schema.Classification {
	text, ok := chat.LastUser(msgs)
	if !ok {
		return Default()
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(256),
		Temperature:         openai.Float(0.0),
		ResponseFormat:      schema.ClassificationResponseFormat(),
	}
	prompt := []chat.Message{
		chat.System(classifyPrompt),
		chat.User(text),
	}

	comp, err := s.inf.Infer(ctx, params, prompt)
	if err != nil {
		log.Warn("classification inference failed, using default", "error", err)
		return Default()
	}

	var cls schema.Classification
	if err := json.Unmarshal([]byte(utils.CleanJSON(comp.Content)), &cls); err != nil {
		log.Warn("classification parse failed, using default", "error", err, "output", utils.LimitStr(comp.Content, 200))
		return Default()
	}
	if cls.Category == "" {
		cls.Category = "general"
	}
	if cls.EmotionalTone == "" {
		cls.EmotionalTone = "neutral"
	}
	return cls
}
