package tutor

// Explanation is the result of ExplainTopic.
type Explanation struct {
	Topic       string   `json:"topic"`
	Depth       string   `json:"depth"`
	Explanation string   `json:"explanation"`
	KeyPoints   []string `json:"key_points"`
	Examples    []string `json:"examples"`
	Timestamp   string   `json:"timestamp"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FlashcardSet is the result of GenerateFlashcards.
type FlashcardSet struct {
	Topic      string       `json:"topic"`
	Flashcards []*Flashcard `json:"flashcards"`
	Timestamp  string       `json:"timestamp"`
}

// QuizQuestion has exactly four distinct options; CorrectIndex points at CorrectAnswer.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	CorrectIndex  int      `json:"correct_index"`
	Explanation   string   `json:"explanation"`
}

// Quiz is the result of GenerateQuiz.
type Quiz struct {
	Subject    string          `json:"subject"`
	Topic      string          `json:"topic"`
	Difficulty string          `json:"difficulty"`
	Questions  []*QuizQuestion `json:"questions"`
	Timestamp  string          `json:"timestamp"`
}

// QuizRequest describes the quiz to generate.
type QuizRequest struct {
	Subject    string
	Topic      string
	Difficulty string
	Count      int
}

type ScheduleEntry struct {
	Day       int    `json:"day"`
	Topic     string `json:"topic"`
	Duration  int    `json:"duration"` // minutes
	FocusArea string `json:"focus_area"`
}

// Schedule is the result of CreateSchedule.
type Schedule struct {
	Schedule   []*ScheduleEntry `json:"schedule"`
	TotalHours float64          `json:"total_hours"`
	Tips       []string         `json:"tips"`
	Timestamp  string           `json:"timestamp"`
}

// ChatRequest is one user turn plus the prior conversation.
type ChatRequest struct {
	Message    string
	Subject    string
	Difficulty string
	History    []ChatTurn
}

// ChatTurn is an earlier exchange.
type ChatTurn struct {
	Message  string
	Response string
}

// ChatResponse is the result of Chat.
type ChatResponse struct {
	Response          string   `json:"response"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

type WeekPlan struct {
	Week   int      `json:"week"`
	Topics []string `json:"topics"`
	Hours  float64  `json:"hours"`
}

// StudyPlan is the result of GenerateStudyPlan.
type StudyPlan struct {
	Subject        string      `json:"subject"`
	Goal           string      `json:"goal"`
	Overview       string      `json:"overview"`
	WeeklySchedule []*WeekPlan `json:"weekly_schedule"`
	Milestones     []string    `json:"milestones"`
	Timestamp      string      `json:"timestamp"`
}

// StudyPlanRequest describes the plan to generate.
type StudyPlanRequest struct {
	Subject       string
	Goal          string
	HoursPerWeek  float64
	DurationWeeks int
}
