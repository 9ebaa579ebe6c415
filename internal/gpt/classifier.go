package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottotimer/internal/countdown"
	"github.com/hammamikhairi/ottotimer/internal/domain"
	"github.com/hammamikhairi/ottotimer/internal/logger"
)

// Chatter sends a conversation and returns the reply.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Classifier asks the model what an unrecognised command means.
type Classifier struct {
	chat Chatter
	log  *logger.Logger
}

// NewClassifier creates a classifier backed by chat.
func NewClassifier(chat Chatter, log *logger.Logger) *Classifier {
	return &Classifier{chat: chat, log: log}
}

type classifyResponse struct {
	Intent  string `json:"intent"`
	Seconds int    `json:"seconds"`
	Label   string `json:"label"`
}

// Classify returns the intent behind input. A reply the model garbles
// yields IntentUnknown with input as payload rather than an error.
func (c *Classifier) Classify(ctx context.Context, input string, state countdown.Snapshot) (*domain.Intent, error) {
	raw, err := c.chat.Chat(ctx, []Message{
		{Role: RoleSystem, Content: PromptClassify},
		{Role: RoleUser, Content: fmt.Sprintf("[timer: %s]\n%s", state, input)},
	})
	if err != nil {
		return nil, err
	}

	var resp classifyResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		c.log.Warn("gpt: unreadable classification %q: %v", raw, err)
		return &domain.Intent{Type: domain.IntentUnknown, Payload: input}, nil
	}

	intent := &domain.Intent{Type: domain.IntentFromString(resp.Intent)}
	switch intent.Type {
	case domain.IntentAddTime, domain.IntentSetTime:
		intent.Seconds = resp.Seconds
	case domain.IntentRename:
		intent.Payload = strings.TrimSpace(resp.Label)
	case domain.IntentUnknown:
		intent.Payload = input
	}

	c.log.Debug("gpt: classified %q -> %s (seconds=%d, payload=%q)", input, intent.Type, intent.Seconds, intent.Payload)
	return intent, nil
}

// stripCodeFence removes ```json ... ``` wrappers.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
