package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var (
	ClassificationSchema = generateSchema[Classification]()
	SegmentListSchema    = generateSchema[SegmentList]()
	ChatSummarySchema    = generateSchema[ChatSummary]()
)

func ClassificationResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return structuredOutputs("message_classification",
		"Category, emotional tone, and recommended approach for the user's latest message",
		ClassificationSchema)
}

func SegmentListResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return structuredOutputs("topic_segments",
		"The response text split losslessly into topic-labeled segments",
		SegmentListSchema)
}

func ChatSummaryResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return structuredOutputs("chat_summary",
		"A concise summary of the conversation span",
		ChatSummarySchema)
}

func structuredOutputs(name, description string, schema any) openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
