package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"tara/pkg/chat"
)

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK.
// It also serves OpenAI-compatible endpoints (Grok, local servers) via
// ChangeBaseURL.
type OpenAIInferencer struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey string, model string) *OpenAIInferencer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIInferencer{
		client: &client,
		apiKey: apiKey,
		model:  model,
	}
}

// NewGrokInferencer targets xAI's OpenAI-compatible API.
func NewGrokInferencer(apiKey string, model string) *OpenAIInferencer {
	if model == "" {
		model = "grok-4-fast-reasoning"
	}
	inf := NewOpenAIInferencer(apiKey, model)
	inf.ChangeBaseURL("https://api.x.ai/v1")
	return inf
}

func (o *OpenAIInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
	)
	o.client = &client
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

func (o *OpenAIInferencer) Model() string {
	return o.model
}

// Infer sends the message sequence to the chat completion endpoint.
func (o *OpenAIInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, msgs []chat.Message) (Completion, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	} else {
		p := *params
		params = &p
	}
	params.Model = cmp.Or(params.Model, o.model)
	params.Messages = toOpenAIMessages(msgs)

	params.MaxCompletionTokens = openai.Int(cmp.Or(params.MaxCompletionTokens.Value, 2048))
	params.Temperature = openai.Float(cmp.Or(params.Temperature.Value, 0.8))
	params.TopP = openai.Float(cmp.Or(params.TopP.Value, 1.0))

	resp, err := o.client.Chat.Completions.New(ctx, *params)
	if err != nil {
		return Completion{}, fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return Completion{}, errors.New("empty completion content")
	}

	return Completion{
		Content: resp.Choices[0].Message.Content,
		Model:   params.Model,
	}, nil
}
