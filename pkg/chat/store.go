package chat

import (
	"sync"

	"tara/pkg/utils"
)

// Store owns the per-character conversation histories. It is an injected
// state container: request handlers receive a *Store rather than reaching
// for package-level state, and each history serializes its own mutations,
// so concurrent requests for one character cannot interleave appends.
//
// Histories live for the process lifetime; there is no eviction.
type Store struct {
	histories *utils.SyncMap[map[string]*History, string, *History]
}

func NewStore() *Store {
	return &Store{
		histories: utils.NewSyncMap[map[string]*History](),
	}
}

// Get returns the history for a character id, creating it seeded with the
// given base system prompt when absent.
func (s *Store) Get(characterID, systemPrompt string) *History {
	if h, ok := s.histories.Load(characterID); ok {
		return h
	}
	h := newHistory(characterID, systemPrompt)
	h, _ = s.histories.LoadOrStore(characterID, h)
	return h
}

// Len reports how many character histories exist.
func (s *Store) Len() int {
	return s.histories.Len()
}

// History is the ordered message sequence for one character. Index 0 is
// conventionally the active system message.
type History struct {
	mu          sync.Mutex
	characterID string
	seed        string

	messages []Message

	summaries      []Summary
	lastSummarized int
}

func newHistory(characterID, systemPrompt string) *History {
	return &History{
		characterID: characterID,
		seed:        systemPrompt,
		messages:    []Message{System(systemPrompt)},
	}
}

// Messages returns a copy of the current message sequence.
func (h *History) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

// Add appends a message.
func (h *History) Add(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

// Reset truncates the history to the seed system message and clears the
// summarization state.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = []Message{System(h.seed)}
	h.summaries = nil
	h.lastSummarized = 0
}

// UpdateSystem replaces the content of the first system message in place.
// It is a no-op when no system message exists.
func (h *History) UpdateSystem(content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.messages {
		if h.messages[i].Role == RoleSystem {
			h.messages[i].Content = content
			return
		}
	}
}
