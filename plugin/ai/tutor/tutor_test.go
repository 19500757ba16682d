package tutor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/cache"
)

// fakeLLM replays canned replies and records what it was asked.
type fakeLLM struct {
	mu       sync.Mutex
	replies  []string
	err      error
	calls    int
	messages [][]ai.Message
}

func (f *fakeLLM) Chat(_ context.Context, messages []ai.Message, _ ...ai.ChatOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = append(f.messages, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeLLM) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.ChatOption) (<-chan string, <-chan error) {
	contentChan := make(chan string, 1)
	errChan := make(chan error, 1)
	reply, err := f.Chat(ctx, messages, opts...)
	if err != nil {
		errChan <- err
	} else {
		contentChan <- reply
	}
	close(contentChan)
	close(errChan)
	return contentChan, errChan
}

func lastUserPrompt(f *fakeLLM) string {
	msgs := f.messages[len(f.messages)-1]
	return msgs[len(msgs)-1].Content
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTutor(llm ai.LLMService, opts ...Option) *Tutor {
	// Identity shuffle keeps option order predictable.
	base := []Option{WithClock(func() time.Time { return fixedNow }), WithShuffle(func(int, func(int, int)) {})}
	return New(llm, append(base, opts...)...)
}

func TestUnavailable(t *testing.T) {
	tt := New(nil)
	assert.False(t, tt.Available())
	_, err := tt.ExplainTopic(context.Background(), "Cells", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerationFailedWrapsCause(t *testing.T) {
	cause := errors.New("429 rate limited")
	tt := newTestTutor(&fakeLLM{err: cause})
	_, err := tt.GenerateFlashcards(context.Background(), "Cells", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to generate flashcards")
}

func TestExplainTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("JSON reply", func(t *testing.T) {
		llm := &fakeLLM{replies: []string{"```json\n" + `{"topic":"x","explanation":"Plants make sugar.","key_points":["a","b","c","d","e","f"],"examples":["1","2","3","4"]}` + "\n```"}}
		res, err := newTestTutor(llm).ExplainTopic(ctx, " Photosynthesis ", "")
		require.NoError(t, err)
		assert.Equal(t, "Photosynthesis", res.Topic)
		assert.Equal(t, "intermediate", res.Depth)
		assert.Equal(t, "Plants make sugar.", res.Explanation)
		assert.Len(t, res.KeyPoints, 5)
		assert.Len(t, res.Examples, 3)
		assert.Equal(t, "2026-03-01T12:00:00Z", res.Timestamp)
		assert.Contains(t, lastUserPrompt(llm), `"Photosynthesis" at a intermediate level`)
	})

	t.Run("section reply", func(t *testing.T) {
		reply := "EXPLANATION:\nGravity pulls masses together.\nIt keeps planets in orbit.\n\nKEY POINTS:\n- Mass attracts mass\n- Force falls with distance squared\n\n**Examples:**\n1. Apples fall\n2. Tides"
		res, err := newTestTutor(&fakeLLM{replies: []string{reply}}).ExplainTopic(ctx, "Gravity", "basic")
		require.NoError(t, err)
		assert.Equal(t, "Gravity pulls masses together.\nIt keeps planets in orbit.", res.Explanation)
		assert.Equal(t, []string{"Mass attracts mass", "Force falls with distance squared"}, res.KeyPoints)
		assert.Equal(t, []string{"Apples fall", "Tides"}, res.Examples)
	})

	t.Run("plain prose", func(t *testing.T) {
		res, err := newTestTutor(&fakeLLM{replies: []string{"  Just some prose.  "}}).ExplainTopic(ctx, "Gravity", "advanced")
		require.NoError(t, err)
		assert.Equal(t, "Just some prose.", res.Explanation)
		assert.Empty(t, res.KeyPoints)
		assert.NotNil(t, res.KeyPoints)
	})

	t.Run("invalid input", func(t *testing.T) {
		tt := newTestTutor(&fakeLLM{})
		_, err := tt.ExplainTopic(ctx, "  ", "basic")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = tt.ExplainTopic(ctx, "Gravity", "expert")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestExplainTopicCached(t *testing.T) {
	ctx := context.Background()
	svc := cache.NewService(cache.DefaultServiceConfig())
	defer svc.Close()

	llm := &fakeLLM{replies: []string{`{"explanation":"first"}`, `{"explanation":"second"}`}}
	tt := newTestTutor(llm, WithCache(svc, time.Minute))

	first, err := tt.ExplainTopic(ctx, "Cells", "basic")
	require.NoError(t, err)
	second, err := tt.ExplainTopic(ctx, "cells ", "BASIC")
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, first.Explanation, second.Explanation)
}

func TestGenerateFlashcards(t *testing.T) {
	ctx := context.Background()

	t.Run("JSON truncated to count", func(t *testing.T) {
		llm := &fakeLLM{replies: []string{`{"flashcards":[{"question":"Q1","answer":"A1"},{"question":"","answer":"dropped"},{"question":"Q2","answer":"A2"},{"question":"Q3","answer":"A3"}]}`}}
		res, err := newTestTutor(llm).GenerateFlashcards(ctx, "Cells", 2)
		require.NoError(t, err)
		require.Len(t, res.Flashcards, 2)
		assert.Equal(t, &Flashcard{Question: "Q1", Answer: "A1"}, res.Flashcards[0])
		assert.Equal(t, &Flashcard{Question: "Q2", Answer: "A2"}, res.Flashcards[1])
		assert.Contains(t, lastUserPrompt(llm), "Generate 2 flashcards")
	})

	t.Run("bare array", func(t *testing.T) {
		llm := &fakeLLM{replies: []string{`[{"question":"Q1","answer":"A1"}]`}}
		res, err := newTestTutor(llm).GenerateFlashcards(ctx, "Cells", 0)
		require.NoError(t, err)
		assert.Len(t, res.Flashcards, 1)
		assert.Contains(t, lastUserPrompt(llm), "Generate 5 flashcards")
	})

	t.Run("Q/A lines", func(t *testing.T) {
		reply := "Here you go\nQ: What is a cell?\nA: The basic unit of life.\nQuestion: Who found cells?\nAnswer: Robert Hooke\nA: orphan answer"
		res, err := newTestTutor(&fakeLLM{replies: []string{reply}}).GenerateFlashcards(ctx, "Cells", 10)
		require.NoError(t, err)
		require.Len(t, res.Flashcards, 2)
		assert.Equal(t, "Robert Hooke", res.Flashcards[1].Answer)
	})

	t.Run("Q/A lines quoting braces", func(t *testing.T) {
		reply := "Q: What does {} denote in JSON?\nA: An empty object\nQ: What is 2+2?\nA: Four"
		res, err := newTestTutor(&fakeLLM{replies: []string{reply}}).GenerateFlashcards(ctx, "JSON", 5)
		require.NoError(t, err)
		require.Len(t, res.Flashcards, 2)
		assert.Equal(t, &Flashcard{Question: "What does {} denote in JSON?", Answer: "An empty object"}, res.Flashcards[0])
		assert.Equal(t, &Flashcard{Question: "What is 2+2?", Answer: "Four"}, res.Flashcards[1])
	})

	t.Run("Q/A lines quoting an array", func(t *testing.T) {
		reply := "Q: Which literal is [1, 2]?\nA: A JSON array"
		res, err := newTestTutor(&fakeLLM{replies: []string{reply}}).GenerateFlashcards(ctx, "JSON", 5)
		require.NoError(t, err)
		require.Len(t, res.Flashcards, 1)
		assert.Equal(t, "A JSON array", res.Flashcards[0].Answer)
	})

	t.Run("count capped", func(t *testing.T) {
		llm := &fakeLLM{replies: []string{`{"flashcards":[{"question":"Q","answer":"A"}]}`}}
		_, err := newTestTutor(llm).GenerateFlashcards(ctx, "Cells", 500)
		require.NoError(t, err)
		assert.Contains(t, lastUserPrompt(llm), "Generate 30 flashcards")
	})

	t.Run("nothing usable", func(t *testing.T) {
		_, err := newTestTutor(&fakeLLM{replies: []string{"sorry, I can't"}}).GenerateFlashcards(ctx, "Cells", 3)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})
}

func TestGenerateQuiz(t *testing.T) {
	ctx := context.Background()
	reply := `{"questions":[
		{"question":"2+2?","options":["3","4","5","6"],"correct_answer":"4","explanation":"basic sum"},
		{"question":"Letter answer","options":["w","x","y","z"],"correct_answer":"C"},
		{"question":"Index answer","options":["w","x","y","z"],"correct_answer":1},
		{"question":"Letter with text","options":["red","green","blue","pink"],"correct_answer":"D) pink"},
		{"question":"Three options","options":["a","b","c"],"correct_answer":"a"},
		{"question":"Duplicates","options":["a","A","b","c"],"correct_answer":"b"},
		{"question":"Unknown answer","options":["a","b","c","d"],"correct_answer":"e"}
	]}`

	llm := &fakeLLM{replies: []string{reply}}
	quiz, err := newTestTutor(llm).GenerateQuiz(ctx, QuizRequest{Topic: "Arithmetic", Count: 10})
	require.NoError(t, err)

	assert.Equal(t, "general", quiz.Subject)
	assert.Equal(t, "medium", quiz.Difficulty)
	require.Len(t, quiz.Questions, 4)

	assert.Equal(t, "4", quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, 1, quiz.Questions[0].CorrectIndex)
	assert.Equal(t, "y", quiz.Questions[1].CorrectAnswer)
	assert.Equal(t, 2, quiz.Questions[1].CorrectIndex)
	assert.Equal(t, "x", quiz.Questions[2].CorrectAnswer)
	assert.Equal(t, "pink", quiz.Questions[3].CorrectAnswer)
	assert.Equal(t, 3, quiz.Questions[3].CorrectIndex)
	assert.Contains(t, lastUserPrompt(llm), "medium difficulty quiz with 10 multiple choice questions")
}

func TestGenerateQuizShufflesEveryCall(t *testing.T) {
	ctx := context.Background()
	svc := cache.NewService(cache.DefaultServiceConfig())
	defer svc.Close()

	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	llm := &fakeLLM{replies: []string{`[{"question":"q","options":["a","b","c","d"],"correct_answer":"a"}]`}}
	tt := New(llm, WithCache(svc, time.Minute), WithShuffle(reverse))

	for i := 0; i < 2; i++ {
		quiz, err := tt.GenerateQuiz(ctx, QuizRequest{Subject: "s", Topic: "t", Difficulty: "easy", Count: 1})
		require.NoError(t, err)
		q := quiz.Questions[0]
		// The cache holds the original order, so each call reverses it afresh.
		assert.Equal(t, []string{"d", "c", "b", "a"}, q.Options)
		assert.Equal(t, 3, q.CorrectIndex)
		assert.Equal(t, q.CorrectAnswer, q.Options[q.CorrectIndex])
	}
	assert.Equal(t, 1, llm.calls)
}

func TestGenerateQuizInvalid(t *testing.T) {
	ctx := context.Background()
	tt := newTestTutor(&fakeLLM{replies: []string{"no json"}})

	_, err := tt.GenerateQuiz(ctx, QuizRequest{Topic: ""})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = tt.GenerateQuiz(ctx, QuizRequest{Topic: "t", Difficulty: "impossible"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = tt.GenerateQuiz(ctx, QuizRequest{Topic: "t"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestCreateSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("JSON reply", func(t *testing.T) {
		reply := `{"schedule":[{"day":1,"topic":"Algebra","duration":90,"focus_area":"equations"},{"day":9,"topic":"out of range","duration":30},{"day":2,"topic":"Geometry","duration":0}],"total_hours":999,"tips":[]}`
		res, err := newTestTutor(&fakeLLM{replies: []string{reply}}).CreateSchedule(ctx, []string{"Algebra", "Geometry"}, 2, 3)
		require.NoError(t, err)
		require.Len(t, res.Schedule, 1)
		assert.Equal(t, 6.0, res.TotalHours)
		assert.Equal(t, DefaultStudyTips, res.Tips)
	})

	t.Run("fallback", func(t *testing.T) {
		llm := &fakeLLM{replies: []string{"I think you should study a lot."}}
		res, err := newTestTutor(llm).CreateSchedule(ctx, []string{"Algebra", " ", "Geometry", "Calculus"}, 2, 2)
		require.NoError(t, err)
		require.Len(t, res.Schedule, 6)
		for _, e := range res.Schedule {
			assert.Equal(t, 40, e.Duration)
		}
		assert.Equal(t, 2, res.Schedule[5].Day)
		assert.Equal(t, "Calculus", res.Schedule[5].Topic)
		assert.Equal(t, "Core concepts and practice for Calculus", res.Schedule[5].FocusArea)
		assert.Equal(t, 4.0, res.TotalHours)
		assert.Len(t, res.Tips, 5)
		assert.Contains(t, lastUserPrompt(llm), "Algebra, Geometry, Calculus")
	})

	t.Run("invalid", func(t *testing.T) {
		tt := newTestTutor(&fakeLLM{})
		_, err := tt.CreateSchedule(ctx, []string{" "}, 2, 2)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = tt.CreateSchedule(ctx, []string{"a"}, 0, 2)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = tt.CreateSchedule(ctx, []string{"a"}, 2, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestChat(t *testing.T) {
	ctx := context.Background()
	llm := &fakeLLM{replies: []string{" Derivatives measure change. "}}
	history := make([]ChatTurn, 12)
	for i := range history {
		history[i] = ChatTurn{Message: "m", Response: "r"}
	}

	res, err := newTestTutor(llm).Chat(ctx, ChatRequest{Message: "What is a derivative?", Subject: "math", History: history})
	require.NoError(t, err)
	assert.Equal(t, "Derivatives measure change.", res.Response)
	assert.Equal(t, FollowUpQuestions, res.FollowUpQuestions)

	sent := llm.messages[0]
	// system + 10 turns * 2 + user
	require.Len(t, sent, 22)
	assert.Equal(t, "system", sent[0].Role)
	assert.Equal(t, "Subject: math\nDifficulty: intermediate\n\nWhat is a derivative?", sent[21].Content)

	_, err = newTestTutor(llm).Chat(ctx, ChatRequest{Message: " "})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGenerateStudyPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("JSON reply", func(t *testing.T) {
		reply := `{"overview":"Learn Go","weekly_schedule":[{"week":1,"topics":["syntax"],"hours":5},{"week":2,"topics":["concurrency"]}],"milestones":["Write a CLI"]}`
		plan, err := newTestTutor(&fakeLLM{replies: []string{reply}}).GenerateStudyPlan(ctx, StudyPlanRequest{Subject: "programming", Goal: "learn Go", HoursPerWeek: 6, DurationWeeks: 2})
		require.NoError(t, err)
		assert.Equal(t, "Learn Go", plan.Overview)
		require.Len(t, plan.WeeklySchedule, 2)
		assert.Equal(t, 6.0, plan.WeeklySchedule[1].Hours)
		assert.Equal(t, []string{"Write a CLI"}, plan.Milestones)
	})

	t.Run("fallback", func(t *testing.T) {
		plan, err := newTestTutor(&fakeLLM{replies: []string{"Study hard every week."}}).GenerateStudyPlan(ctx, StudyPlanRequest{Subject: "history", Goal: "pass exam", HoursPerWeek: 4, DurationWeeks: 6})
		require.NoError(t, err)
		assert.Equal(t, "Study hard every week.", plan.Overview)
		require.Len(t, plan.WeeklySchedule, 6)
		assert.Equal(t, 4.0, plan.WeeklySchedule[0].Hours)
		assert.Equal(t, []string{"Week 2: Milestone 1", "Week 4: Milestone 2", "Week 6: Milestone 3"}, plan.Milestones)
	})

	t.Run("short plan milestones", func(t *testing.T) {
		assert.Equal(t, []string{"Week 1: Milestone 1", "Week 1: Milestone 2", "Week 2: Milestone 3"}, defaultMilestones(2))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := newTestTutor(&fakeLLM{}).GenerateStudyPlan(ctx, StudyPlanRequest{Subject: "x", Goal: "y", HoursPerWeek: 5, DurationWeeks: 0})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2", formatHours(2))
	assert.Equal(t, "1.5", formatHours(1.5))
	assert.Equal(t, "0.25", formatHours(0.25))
	assert.Equal(t, "10", formatHours(10))
	assert.True(t, strings.HasPrefix(schedulePrompt([]string{"a"}, 1.5, 2), "Create a 2-day study schedule"))
}
