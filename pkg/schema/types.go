package schema

// Classification describes the user's latest message. It is produced per
// request and never persisted.
type Classification struct {
	Category            string `json:"category" jsonschema:"enum=love,enum=career,enum=finance,enum=health,enum=family,enum=spiritual,enum=general" jsonschema_description:"Topic of the user's message"`
	EmotionalTone       string `json:"emotionalTone" jsonschema_description:"Emotional tone of the message (e.g. anxious, hopeful, curious, neutral)"`
	RecommendedApproach string `json:"recommendedApproach" jsonschema_description:"One sentence describing how the character should approach the reply"`
}

// TopicSegment is a labeled substring of a generated response.
type TopicSegment struct {
	Topic   string `json:"topic" jsonschema_description:"Short label for what this segment is about"`
	Content string `json:"content" jsonschema_description:"The exact segment text, copied verbatim from the response"`
}

// SegmentList is the structured output of the topic segmenter. Segments
// must cover the entire input text in order, without dropping words.
type SegmentList struct {
	Segments []TopicSegment `json:"segments" jsonschema_description:"Ordered segments that together reproduce the full input text"`
}

// ChatSummary is the structured output of the conversation summarizer.
type ChatSummary struct {
	Summary string `json:"summary" jsonschema_description:"Concise third-person summary of the conversation span, keeping names, birth details, and commitments"`
}
