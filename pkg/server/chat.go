package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"tara/pkg/chat"
	"tara/pkg/lang"
	"tara/pkg/persona"
	"tara/pkg/schema"
	"tara/pkg/utils"
)

// maxEmojis caps emoji per reply before segmentation.
const maxEmojis = 3

type incomingMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatReq struct {
	Messages    []incomingMessage `json:"messages"`
	ResetChat   bool              `json:"resetChat"`
	CharacterID string            `json:"characterId"`
}

type chatResp struct {
	TopicSegments []schema.TopicSegment `json:"topicSegments"`
	FullResponse  string                `json:"fullResponse"`
	SystemPrompt  string                `json:"systemPrompt"`
	Character     persona.Character     `json:"character"`
	ModelUsed     string                `json:"modelUsed,omitempty"`
}

// POST /api/chat
func (s *Server) handlePostChat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if err := validateChatReq(req); err != nil {
		s.countChat("error")
		return err
	}

	// Unknown ids silently resolve to the default character.
	char := s.registry.Get(req.CharacterID)
	hist := s.store.Get(char.ID, char.SystemPrompt)

	if req.ResetChat {
		hist.Reset()
		log.Info("chat reset", "character", char.ID)
		s.countChat("reset")
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"message":   "chat reset",
			"character": char,
		})
	}

	userText, ok := lastIncomingUser(req.Messages)
	if !ok {
		s.countChat("error")
		return echo.NewHTTPError(http.StatusBadRequest, "messages must include a user message")
	}

	// Plain greetings short-circuit to the character's intro message;
	// no model call.
	if lang.IsGreetingOrNonQuestion(userText) {
		hist.Add(chat.User(userText))
		hist.Add(chat.Assistant(char.IntroMessage))
		s.countChat("greeting")
		return c.JSON(http.StatusOK, chatResp{
			TopicSegments: []schema.TopicSegment{{Topic: "greeting", Content: char.IntroMessage}},
			FullResponse:  char.IntroMessage,
			SystemPrompt:  char.SystemPrompt,
			Character:     char,
		})
	}

	ctx := c.Request().Context()
	det := lang.Detect(userText)
	cls := s.classifier.Classify(ctx, historyAsMessages(req.Messages))

	var summaryText string
	if latest, ok := hist.LatestSummary(); ok {
		summaryText = latest.Text
	}
	systemPrompt := chat.SystemPrompt(char.SystemPrompt, hist.Len(), cls, det, summaryText)
	hist.UpdateSystem(systemPrompt)
	hist.Add(chat.User(userText))

	window := chat.Optimize(hist.Messages())
	s.observePromptTokens(window)

	comp, err := s.inferencer.Infer(ctx, nil, window)
	if err != nil {
		log.Error("chat completion failed", "character", char.ID, "error", err)
		s.countChat("error")
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":  "chat completion failed",
			"detail": err.Error(),
		})
	}

	reply := utils.LimitEmojis(strings.TrimSpace(comp.Content), maxEmojis)
	segments := s.segmenter.Segment(ctx, reply)
	hist.Add(chat.Assistant(reply))

	// Summarization failure is fatal to the turn: no retry, no fallback.
	shouldReset, err := hist.MaybeSummarize(ctx, s.summarizer)
	if err != nil {
		log.Error("conversation summarization failed", "character", char.ID, "error", err)
		s.countChat("error")
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":  "conversation summarization failed",
			"detail": err.Error(),
		})
	}
	if shouldReset {
		hist.StartNewChat()
		log.Info("conversation collapsed after summarization", "character", char.ID)
	}

	log.Info("chat turn complete",
		"character", char.ID,
		"language", det.Language,
		"category", cls.Category,
		"model", comp.Model,
		"segments", len(segments),
	)
	s.countChat("ok")

	return c.JSON(http.StatusOK, chatResp{
		TopicSegments: segments,
		FullResponse:  reply,
		SystemPrompt:  systemPrompt,
		Character:     char,
		ModelUsed:     comp.Model,
	})
}

func validateChatReq(req chatReq) error {
	if strings.TrimSpace(req.CharacterID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "characterId is required and must be a string")
	}
	if req.Messages == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "messages is required and must be an array")
	}
	for i, m := range req.Messages {
		if !chat.Role(m.Role).Valid() {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("messages[%d].role must be one of user, assistant, system", i))
		}
		if strings.TrimSpace(m.Content) == "" {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("messages[%d].content must be a non-empty string", i))
		}
	}
	return nil
}

func lastIncomingUser(msgs []incomingMessage) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if chat.Role(msgs[i].Role) == chat.RoleUser {
			return strings.TrimSpace(msgs[i].Content), true
		}
	}
	return "", false
}

func historyAsMessages(msgs []incomingMessage) []chat.Message {
	out := make([]chat.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chat.New(chat.Role(m.Role), m.Content))
	}
	return out
}

func (s *Server) countChat(outcome string) {
	if s.metrics != nil {
		s.metrics.ChatRequests.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) observePromptTokens(window []chat.Message) {
	var joined strings.Builder
	for _, m := range window {
		joined.WriteString(m.Content)
		joined.WriteString("\n")
	}
	tokens, err := utils.NumTokens(joined.String())
	if err != nil {
		log.Debug("token estimate unavailable", "error", err)
		return
	}
	log.Debug("prompt window prepared", "messages", len(window), "tokens", tokens)
	if s.metrics != nil {
		s.metrics.PromptTokens.Observe(float64(tokens))
	}
}
