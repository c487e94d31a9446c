package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"tara/pkg/chat"
)

type GeminiInferencer struct {
	client *genai.Client
	apiKey string
	model  string
}

func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client: client,
		apiKey: apiKey,
		model:  model,
	}, nil
}

func (o *GeminiInferencer) Model() string {
	return o.model
}

// Infer sends the message sequence to Gemini. System messages become the
// system instruction; the rest map to user/model turns.
func (o *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, msgs []chat.Message) (Completion, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}

	var system []string
	var contents []*genai.Content
	for _, m := range msgs {
		switch m.Role {
		case chat.RoleSystem:
			system = append(system, m.Content)
		case chat.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(cmp.Or(params.MaxCompletionTokens.Value, 2048)),
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleModel)
	}
	if params.ResponseFormat.OfJSONSchema != nil {
		config.ResponseMIMEType = "application/json"
	}

	model := cmp.Or(params.Model, o.model)
	result, err := o.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return Completion{}, fmt.Errorf("gemini inference error: %w", err)
	}
	text := result.Text()
	if text == "" {
		return Completion{}, errors.New("empty completion content")
	}

	return Completion{Content: text, Model: model}, nil
}
