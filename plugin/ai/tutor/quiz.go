package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/cache"
)

const (
	defaultQuizCount = 5
	maxQuizCount     = 20
	optionsPerQuiz   = 4
)

var difficulties = map[string]bool{
	"easy": true, "medium": true, "hard": true,
	"beginner": true, "intermediate": true, "advanced": true,
}

// GenerateQuiz creates multiple choice questions. Every question carries four distinct
// options in random order and the index of the correct one.
func (t *Tutor) GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return nil, invalidArgument("topic is required")
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		req.Subject = "general"
	}
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if !difficulties[req.Difficulty] {
		return nil, invalidArgument("unsupported difficulty %q", req.Difficulty)
	}
	req.Count = clampCount(req.Count, defaultQuizCount, maxQuizCount)

	key := cache.GenerateKey("quiz", req.Subject, req.Topic, req.Difficulty, strconv.Itoa(req.Count))
	quiz, err := cached(ctx, t, key, func() (*Quiz, error) {
		reply, err := t.complete(ctx, "quiz",
			[]ai.Message{ai.SystemPrompt(jsonOnlySystemPrompt), ai.UserMessage(quizPrompt(req))}, quizMaxTokens)
		if err != nil {
			return nil, err
		}
		questions := parseQuizQuestions(reply)
		if len(questions) == 0 {
			return nil, fmt.Errorf("%w: no valid questions in response", ErrGenerationFailed)
		}
		if len(questions) > req.Count {
			questions = questions[:req.Count]
		}
		return &Quiz{
			Subject:    req.Subject,
			Topic:      req.Topic,
			Difficulty: req.Difficulty,
			Questions:  questions,
			Timestamp:  t.timestamp(),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	for _, q := range quiz.Questions {
		t.shuffleOptions(q)
	}
	return quiz, nil
}

func (t *Tutor) shuffleOptions(q *QuizQuestion) {
	t.shuffle(len(q.Options), func(i, j int) {
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	})
	for i, opt := range q.Options {
		if opt == q.CorrectAnswer {
			q.CorrectIndex = i
			return
		}
	}
}

type rawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer any      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

func parseQuizQuestions(reply string) []*QuizQuestion {
	raw, err := ai.ExtractJSON(reply)
	if err != nil {
		return nil
	}
	var wrapped struct {
		Questions []rawQuestion `json:"questions"`
	}
	if strings.HasPrefix(raw, "[") {
		err = json.Unmarshal([]byte(raw), &wrapped.Questions)
	} else {
		err = json.Unmarshal([]byte(raw), &wrapped)
	}
	if err != nil {
		return nil
	}

	questions := make([]*QuizQuestion, 0, len(wrapped.Questions))
	for _, rq := range wrapped.Questions {
		if q, ok := validateQuestion(rq); ok {
			questions = append(questions, q)
		}
	}
	return questions
}

// validateQuestion keeps a question only with exactly four distinct, non-empty options
// and a correct answer that resolves to one of them.
func validateQuestion(rq rawQuestion) (*QuizQuestion, bool) {
	question := strings.TrimSpace(rq.Question)
	if question == "" || len(rq.Options) != optionsPerQuiz {
		return nil, false
	}

	options := make([]string, optionsPerQuiz)
	seen := map[string]bool{}
	for i, opt := range rq.Options {
		opt = strings.TrimSpace(opt)
		key := strings.ToLower(opt)
		if opt == "" || seen[key] {
			return nil, false
		}
		seen[key] = true
		options[i] = opt
	}

	idx := resolveCorrectIndex(rq.CorrectAnswer, options)
	if idx < 0 {
		return nil, false
	}
	return &QuizQuestion{
		Question:      question,
		Options:       options,
		CorrectAnswer: options[idx],
		CorrectIndex:  idx,
		Explanation:   strings.TrimSpace(rq.Explanation),
	}, true
}

// resolveCorrectIndex accepts the option text, a letter A-D (also "B)" or "C. text"),
// or a 0-based index.
func resolveCorrectIndex(answer any, options []string) int {
	switch v := answer.(type) {
	case float64:
		if i := int(v); float64(i) == v && i >= 0 && i < len(options) {
			return i
		}
		return -1
	case string:
		s := strings.TrimSpace(v)
		for i, opt := range options {
			if strings.EqualFold(opt, s) {
				return i
			}
		}
		if len(s) == 1 && s[0] >= '0' && s[0] <= '3' {
			return int(s[0] - '0')
		}
		if len(s) >= 1 {
			letter := s[0] | 0x20 // lower-case ASCII
			if letter >= 'a' && letter <= 'd' && (len(s) == 1 || strings.ContainsRune(".):", rune(s[1]))) {
				i := int(letter - 'a')
				rest := strings.TrimSpace(s[1:])
				if len(rest) > 0 {
					rest = strings.TrimSpace(rest[1:])
				}
				if rest == "" || strings.EqualFold(rest, options[i]) {
					return i
				}
			}
		}
	}
	return -1
}
