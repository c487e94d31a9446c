// Package segment splits a generated response into topic-labeled
// segments. The split is advisory: on timeout, inference failure, parse
// failure, or lossy output, the whole response becomes a single generic
// segment, so segmentation never fails outward.
package segment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
	"tara/pkg/inference"
	"tara/pkg/schema"
	"tara/pkg/utils"
)

const segmentPrompt = `Split the given text into topic-labeled segments.
Rules:
- Segments must be the exact original text, in order, with nothing dropped or rewritten.
- Together the segments must reproduce the entire input.
- Topics are short labels like "career outlook" or "remedy suggestion".
- Use a single segment if the text covers one topic.
Return strict JSON: {"segments":[{"topic":"...","content":"..."}]}.`

// fallbackTopic labels the degenerate single-segment result.
const fallbackTopic = "general"

// coverageThreshold is the minimum fraction of source words the joined
// segments must retain for the model's split to be accepted.
const coverageThreshold = 0.85

type Segmenter struct {
	inf     inference.Inferencer
	timeout time.Duration
}

func New(inf inference.Inferencer) *Segmenter {
	return &Segmenter{inf: inf, timeout: 8 * time.Second}
}

// Segment splits text into topic segments, racing the model against the
// configured timeout.
func (s *Segmenter) Segment(ctx context.Context, text string) []schema.TopicSegment {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	fallback := []schema.TopicSegment{{Topic: fallbackTopic, Content: text}}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(int64(len(text) + 512)),
		Temperature:         openai.Float(0.0),
		ResponseFormat:      schema.SegmentListResponseFormat(),
	}
	prompt := []chat.Message{
		chat.System(segmentPrompt),
		chat.User(text),
	}

	comp, err := s.inf.Infer(ctx, params, prompt)
	if err != nil {
		log.Warn("topic segmentation failed, returning single segment", "error", err)
		return fallback
	}

	var list schema.SegmentList
	if err := json.Unmarshal([]byte(utils.CleanJSON(comp.Content)), &list); err != nil || len(list.Segments) == 0 {
		log.Warn("topic segmentation parse failed, returning single segment", "error", err)
		return fallback
	}

	var joined strings.Builder
	for _, seg := range list.Segments {
		if strings.TrimSpace(seg.Content) == "" {
			log.Warn("topic segmentation produced an empty segment, returning single segment")
			return fallback
		}
		joined.WriteString(seg.Content)
		joined.WriteString(" ")
	}

	// The split must be lossless: reject segmentations that drop words.
	if cov := utils.DiffCoverage(text, joined.String()); cov < coverageThreshold {
		log.Warn("topic segmentation dropped content, returning single segment", "coverage", cov)
		return fallback
	}

	return list.Segments
}
