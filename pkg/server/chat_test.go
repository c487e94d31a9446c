package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3"

	"tara/pkg/chat"
	"tara/pkg/classify"
	"tara/pkg/inference"
	"tara/pkg/persona"
	"tara/pkg/segment"
)

// scriptedInferencer answers each internal LLM role by matching the
// system prompt, so one stub serves chat, classification, segmentation,
// and summarization.
type scriptedInferencer struct {
	chatReply string
	chatErr   error
	model     string
}

func (s *scriptedInferencer) Model() string {
	if s.model != "" {
		return s.model
	}
	return "scripted"
}

func (s *scriptedInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, msgs []chat.Message) (inference.Completion, error) {
	system := ""
	if len(msgs) > 0 && msgs[0].Role == chat.RoleSystem {
		system = msgs[0].Content
	}
	switch {
	case strings.Contains(system, "You classify a single message"):
		return inference.Completion{
			Content: `{"category":"career","emotionalTone":"hopeful","recommendedApproach":"Be encouraging."}`,
			Model:   s.Model(),
		}, nil
	case strings.Contains(system, "Split the given text"):
		return inference.Completion{
			Content: fmt.Sprintf(`{"segments":[{"topic":"reading","content":%q}]}`, s.chatReply),
			Model:   s.Model(),
		}, nil
	case strings.Contains(system, "You summarize a span"):
		return inference.Completion{Content: `{"summary":"user asked about work"}`, Model: s.Model()}, nil
	default:
		if s.chatErr != nil {
			return inference.Completion{}, s.chatErr
		}
		return inference.Completion{Content: s.chatReply, Model: s.Model()}, nil
	}
}

func newTestServer(t *testing.T, inf inference.Inferencer) *Server {
	t.Helper()
	return NewServer(context.Background(), Config{
		Registry:   persona.NewRegistry(),
		Store:      chat.NewStore(),
		Inferencer: inf,
		Classifier: classify.New(inf),
		Segmenter:  segment.New(inf),
		Summarizer: NewSummarizer(inf),
	})
}

func postChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestChatValidation(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{chatReply: "reply"})

	cases := []struct {
		name string
		body string
	}{
		{"missing characterId", `{"messages":[{"role":"user","content":"hi"}]}`},
		{"missing messages", `{"characterId":"tara"}`},
		{"bad role", `{"characterId":"tara","messages":[{"role":"wizard","content":"hi"}]}`},
		{"empty content", `{"characterId":"tara","messages":[{"role":"user","content":"  "}]}`},
		{"no user message", `{"characterId":"tara","messages":[{"role":"assistant","content":"welcome"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postChat(t, s, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestChatGreetingShortCircuits(t *testing.T) {
	inf := &scriptedInferencer{chatErr: errors.New("must not be called")}
	s := newTestServer(t, inf)

	rec := postChat(t, s, `{"characterId":"tara","messages":[{"role":"user","content":"hello"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp chatResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.FullResponse == "" || resp.FullResponse != resp.Character.IntroMessage {
		t.Fatalf("greeting must return the intro message, got %+v", resp)
	}
	if len(resp.TopicSegments) != 1 || resp.TopicSegments[0].Topic != "greeting" {
		t.Fatalf("expected single greeting segment, got %+v", resp.TopicSegments)
	}
	if resp.ModelUsed != "" {
		t.Fatalf("greeting path must not report a model, got %q", resp.ModelUsed)
	}
}

func TestChatFullPipeline(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{chatReply: "The cards favor a bold move at work.", model: "gpt-4o"})

	rec := postChat(t, s, `{"characterId":"tara","messages":[{"role":"user","content":"will I get promoted this year?"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp chatResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.FullResponse != "The cards favor a bold move at work." {
		t.Fatalf("unexpected response text: %q", resp.FullResponse)
	}
	if resp.ModelUsed != "gpt-4o" {
		t.Fatalf("expected modelUsed gpt-4o, got %q", resp.ModelUsed)
	}
	if len(resp.TopicSegments) != 1 || resp.TopicSegments[0].Topic != "reading" {
		t.Fatalf("unexpected segments: %+v", resp.TopicSegments)
	}
	if resp.Character.ID != "tara" {
		t.Fatalf("expected default character, got %q", resp.Character.ID)
	}
	if !strings.Contains(resp.SystemPrompt, "career") {
		t.Fatalf("system prompt must carry the classification, got %q", resp.SystemPrompt)
	}
}

func TestChatUnknownCharacterFallsBack(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{chatReply: "A calm week ahead."})

	rec := postChat(t, s, `{"characterId":"nobody","messages":[{"role":"user","content":"what does my week look like?"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var resp chatResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Character.ID != persona.DefaultCharacterID {
		t.Fatalf("expected fallback to default character, got %q", resp.Character.ID)
	}
}

func TestChatResetAcknowledges(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{chatReply: "reply"})

	// Seed some history first.
	rec := postChat(t, s, `{"characterId":"tara","messages":[{"role":"user","content":"what about my health?"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed turn failed: %d %s", rec.Code, rec.Body)
	}

	rec = postChat(t, s, `{"characterId":"tara","resetChat":true,"messages":[{"role":"user","content":"reset please"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var ack struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatal(err)
	}
	if !ack.Success {
		t.Fatalf("expected reset acknowledgement, got %s", rec.Body)
	}

	if got := s.store.Get("tara", "").Len(); got != 1 {
		t.Fatalf("expected history truncated to the seed, got %d messages", got)
	}
}

func TestChatInferenceFailure(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{chatErr: errors.New("all models failed")})

	rec := postChat(t, s, `{"characterId":"tara","messages":[{"role":"user","content":"what does saturn mean for me?"}]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "chat completion failed" || body["detail"] == "" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestGetCharacters(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{})

	req := httptest.NewRequest(http.MethodGet, "/api/characters", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Characters []persona.Character `json:"characters"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Characters) == 0 || resp.Characters[0].ID != persona.DefaultCharacterID {
		t.Fatalf("unexpected characters: %+v", resp.Characters)
	}
	for _, c := range resp.Characters {
		if c.SystemPrompt == "" {
			t.Fatalf("character %q lost its system prompt in the listing", c.ID)
		}
	}
}

func TestGetRoot(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body)
	}
}

// Consecutive turns must accumulate history, shaping the optimized
// window passed back to the model.
func TestChatHistoryAccumulates(t *testing.T) {
	s := newTestServer(t, &scriptedInferencer{chatReply: "Noted, the stars agree."})

	for i := range 3 {
		body := fmt.Sprintf(`{"characterId":"tara","messages":[{"role":"user","content":"question number %d about my career?"}]}`, i)
		rec := postChat(t, s, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("turn %d failed: %d %s", i, rec.Code, rec.Body)
		}
	}

	// Seed system + 3 user/assistant pairs.
	if got := s.store.Get("tara", "").Len(); got != 7 {
		t.Fatalf("expected 7 messages in history, got %d", got)
	}
}
