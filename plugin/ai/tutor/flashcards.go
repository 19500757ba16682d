package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/cache"
)

const (
	defaultFlashcardCount = 5
	maxFlashcardCount     = 30
)

// GenerateFlashcards creates up to count question/answer cards about topic.
// count <= 0 means 5; larger requests are capped at 30.
func (t *Tutor) GenerateFlashcards(ctx context.Context, topic string, count int) (*FlashcardSet, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalidArgument("topic is required")
	}
	count = clampCount(count, defaultFlashcardCount, maxFlashcardCount)

	return cached(ctx, t, cache.GenerateKey("flashcards", topic, strconv.Itoa(count)), func() (*FlashcardSet, error) {
		reply, err := t.complete(ctx, "flashcards",
			[]ai.Message{ai.SystemPrompt(jsonOnlySystemPrompt), ai.UserMessage(flashcardsPrompt(topic, count))}, flashcardsMaxTokens)
		if err != nil {
			return nil, err
		}
		cards := parseFlashcards(reply)
		if len(cards) == 0 {
			return nil, fmt.Errorf("%w: no flashcards in response", ErrGenerationFailed)
		}
		if len(cards) > count {
			cards = cards[:count]
		}
		return &FlashcardSet{Topic: topic, Flashcards: cards, Timestamp: t.timestamp()}, nil
	})
}

// parseFlashcards prefers JSON and falls back to Q/A lines when the JSON
// yields no usable card, since prose replies may quote stray braces.
func parseFlashcards(reply string) []*Flashcard {
	if raw, err := ai.ExtractJSON(reply); err == nil {
		cards, err := unmarshalFlashcards(raw)
		if err != nil {
			slog.Debug("flashcards reply is not card JSON", "error", err)
		} else if cards = usableFlashcards(cards); len(cards) > 0 {
			return cards
		}
	}
	return usableFlashcards(parseQALines(reply))
}

// unmarshalFlashcards accepts {"flashcards":[...]} or a bare array.
func unmarshalFlashcards(raw string) ([]*Flashcard, error) {
	var wrapped struct {
		Flashcards []*Flashcard `json:"flashcards"`
	}
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &wrapped.Flashcards); err != nil {
			return nil, err
		}
		return wrapped.Flashcards, nil
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Flashcards, nil
}

func usableFlashcards(cards []*Flashcard) []*Flashcard {
	out := make([]*Flashcard, 0, len(cards))
	for _, card := range cards {
		if card == nil {
			continue
		}
		card.Question = strings.TrimSpace(card.Question)
		card.Answer = strings.TrimSpace(card.Answer)
		if card.Question != "" && card.Answer != "" {
			out = append(out, card)
		}
	}
	return out
}

// parseQALines reads "Q: ..." / "A: ..." (or Question:/Answer:) pairs.
func parseQALines(reply string) []*Flashcard {
	var (
		cards    []*Flashcard
		question string
	)
	for _, line := range strings.Split(reply, "\n") {
		line = bulletText(line)
		if v, ok := cutLabel(line, "Q:", "Question:"); ok {
			question = v
			continue
		}
		if v, ok := cutLabel(line, "A:", "Answer:"); ok && question != "" {
			cards = append(cards, &Flashcard{Question: question, Answer: v})
			question = ""
		}
	}
	return cards
}

func cutLabel(line string, labels ...string) (string, bool) {
	for _, label := range labels {
		if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
			return strings.TrimSpace(line[len(label):]), true
		}
	}
	return "", false
}

func clampCount(count, def, max int) int {
	if count <= 0 {
		return def
	}
	if count > max {
		return max
	}
	return count
}
