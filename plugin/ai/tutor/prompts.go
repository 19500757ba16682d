package tutor

import (
	"fmt"
	"strconv"
	"strings"
)

const tutorSystemPrompt = `You are StudyBuddy, an expert AI tutor and study assistant.

Your role is to:
1. Explain complex concepts in clear, understandable ways
2. Adapt explanations to the student's difficulty level (beginner, intermediate, advanced)
3. Provide relevant examples and analogies
4. Break down problems step-by-step
5. Encourage learning with positive reinforcement
6. Suggest study strategies and techniques

Guidelines:
- Always be patient and encouraging
- Use simple language for beginners, more technical terms for advanced students
- Provide concrete examples to illustrate abstract concepts
- If the student seems confused, offer to explain differently
- Focus on understanding, not just memorization
- Suggest related topics to explore

Format your responses in a clear, structured way using markdown when helpful.`

const jsonOnlySystemPrompt = "You generate study material. Return ONLY valid JSON, no markdown formatting, no other text."

func explainPrompt(topic, depth string) string {
	return fmt.Sprintf(`You are an expert tutor. Explain the topic %q at a %s level.

Provide:
1. A clear explanation (2-3 paragraphs)
2. 3-5 key points
3. 2-3 practical examples

Format your response as JSON:
{
  "topic": %q,
  "explanation": "...",
  "key_points": ["...", "..."],
  "examples": ["...", "..."]
}`, topic, depth, topic)
}

func flashcardsPrompt(topic string, count int) string {
	return fmt.Sprintf(`Generate %d flashcards about %q.
Questions should test understanding, not just memorization. Answers should be brief (1-2 sentences).

Format as JSON:
{
  "topic": %q,
  "flashcards": [
    {"question": "...", "answer": "..."}
  ]
}`, count, topic, topic)
}

func quizPrompt(req QuizRequest) string {
	return fmt.Sprintf(`Generate a %s difficulty quiz with %d multiple choice questions about %q in %s.

Each question must have exactly 4 distinct options with one correct answer. The other three options must be plausible but incorrect.
"correct_answer" must repeat the text of the correct option exactly.

Format as JSON:
{
  "topic": %q,
  "questions": [
    {
      "question": "...",
      "options": ["...", "...", "...", "..."],
      "correct_answer": "...",
      "explanation": "..."
    }
  ]
}`, req.Difficulty, req.Count, req.Topic, req.Subject, req.Topic)
}

func schedulePrompt(topics []string, hoursPerDay float64, days int) string {
	return fmt.Sprintf(`Create a %d-day study schedule for these topics: %s.
Student can study %s hours per day. Duration is in minutes. Distribute topics across all %d days.

Format as JSON:
{
  "schedule": [
    {"day": 1, "topic": "...", "duration": 60, "focus_area": "..."}
  ],
  "total_hours": %s,
  "tips": ["...", "..."]
}`, days, strings.Join(topics, ", "), formatHours(hoursPerDay), days, formatHours(hoursPerDay*float64(days)))
}

func chatPrompt(req ChatRequest) string {
	return fmt.Sprintf("Subject: %s\nDifficulty: %s\n\n%s", req.Subject, req.Difficulty, req.Message)
}

func studyPlanPrompt(req StudyPlanRequest) string {
	return fmt.Sprintf(`Create a detailed study plan for:
- Subject: %s
- Goal: %s
- Available time: %s hours/week
- Duration: %d weeks

Provide a structured plan with weekly breakdown and milestones.

Format as JSON:
{
  "overview": "...",
  "weekly_schedule": [
    {"week": 1, "topics": ["...", "..."], "hours": %s}
  ],
  "milestones": ["...", "..."]
}`, req.Subject, req.Goal, formatHours(req.HoursPerWeek), req.DurationWeeks, formatHours(req.HoursPerWeek))
}

// formatHours prints 2 as "2" and 1.5 as "1.5".
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
