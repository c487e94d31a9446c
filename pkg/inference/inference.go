package inference

import (
	"context"

	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
)

// Completion is a model response together with the model that produced it.
type Completion struct {
	Content string `json:"content"`
	Model   string `json:"modelUsed"`
}

// Inferencer runs chat completion against a single model.
type Inferencer interface {
	// Model reports the model name this inferencer targets.
	Model() string
	// Infer sends the message sequence to the model. params may be nil;
	// implementations fill in their defaults.
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, msgs []chat.Message) (Completion, error)
}

func toOpenAIMessages(msgs []chat.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case chat.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case chat.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
