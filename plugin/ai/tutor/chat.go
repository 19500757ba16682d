package tutor

import (
	"context"
	"strings"

	"github.com/hrygo/studybuddy/plugin/ai"
)

const maxChatHistory = 10

// FollowUpQuestions are suggested after every chat answer.
var FollowUpQuestions = []string{
	"Can you explain this in simpler terms?",
	"What are some practice problems for this topic?",
	"How does this relate to real-world applications?",
}

// Chat answers a free-form study question. Only the last 10 history turns are sent.
// Chat replies are not cached.
func (t *Tutor) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return nil, invalidArgument("message is required")
	}
	if req.Subject = strings.TrimSpace(req.Subject); req.Subject == "" {
		req.Subject = "general"
	}
	if req.Difficulty = strings.TrimSpace(req.Difficulty); req.Difficulty == "" {
		req.Difficulty = "intermediate"
	}

	history := req.History
	if len(history) > maxChatHistory {
		history = history[len(history)-maxChatHistory:]
	}
	messages := make([]ai.Message, 0, 2*len(history))
	for _, turn := range history {
		messages = append(messages, ai.UserMessage(turn.Message), ai.AssistantMessage(turn.Response))
	}

	reply, err := t.complete(ctx, "chat response",
		ai.FormatMessages(tutorSystemPrompt, chatPrompt(req), messages), chatMaxTokens)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Response:          strings.TrimSpace(reply),
		FollowUpQuestions: append([]string(nil), FollowUpQuestions...),
	}, nil
}
