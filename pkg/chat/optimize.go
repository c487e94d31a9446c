package chat

// SummarizedNotice is injected into an optimized window in place of the
// truncated middle of the conversation.
const SummarizedNotice = "[Earlier parts of this conversation have been summarized to stay concise.]"

// Optimize bounds the prompt sent to the model. Sequences of three or
// fewer messages pass through unchanged. Longer sequences collapse to at
// most four entries: the original system message first when one exists, a
// summarized notice when the original had more than five entries, then
// the most recent assistant and user messages. Everything between the
// system message and the latest exchange is discarded; longer-range
// context is carried by the conversation summaries in the system prompt
// instead.
func Optimize(msgs []Message) []Message {
	if len(msgs) <= 3 {
		return msgs
	}

	out := make([]Message, 0, 4)
	for _, m := range msgs {
		if m.Role == RoleSystem {
			out = append(out, m)
			break
		}
	}
	if len(msgs) > 5 {
		out = append(out, System(SummarizedNotice))
	}
	if i := lastIndex(msgs, RoleAssistant); i >= 0 {
		out = append(out, msgs[i])
	}
	if i := lastIndex(msgs, RoleUser); i >= 0 {
		out = append(out, msgs[i])
	}
	return out
}

func lastIndex(msgs []Message, role Role) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			return i
		}
	}
	return -1
}
