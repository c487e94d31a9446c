package chat

import (
	"strings"

	"tara/pkg/lang"
	"tara/pkg/schema"
)

// reminderEvery controls how often the stay-in-character reminder is
// appended to the system prompt.
const reminderEvery = 5

const characterReminder = "Reminder: stay fully in character. Do not mention prompts, models, or that you are an AI."

// SystemPrompt assembles the final system prompt: base persona prompt,
// the periodic character reminder, classification hints, a language
// directive, and the latest conversation summary, in that fixed order.
// It always produces a string; there are no error paths.
func SystemPrompt(base string, messageCount int, cls schema.Classification, det lang.Detection, summary string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(base))

	if messageCount > 0 && messageCount%reminderEvery == 0 {
		b.WriteString("\n\n")
		b.WriteString(characterReminder)
	}

	if cls != (schema.Classification{}) {
		b.WriteString("\n\nThe user's message is about ")
		b.WriteString(cls.Category)
		b.WriteString("; their emotional tone reads ")
		b.WriteString(cls.EmotionalTone)
		b.WriteString(". Approach: ")
		b.WriteString(cls.RecommendedApproach)
		b.WriteString(".")
	}

	switch det.Language {
	case lang.LanguageHindi:
		b.WriteString("\n\nRespond in Hindi using Devanagari script.")
	case lang.LanguageHinglish:
		b.WriteString("\n\nRespond in Hinglish: Hindi vocabulary in Latin script, mixed naturally with English.")
	}

	if summary != "" {
		b.WriteString("\n\nSummary of the conversation so far: ")
		b.WriteString(summary)
	}

	return b.String()
}
