package tutor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/cache"
)

const (
	maxScheduleDays  = 90
	maxHoursPerDay   = 24
	maxScheduleTopic = 20
)

// DefaultStudyTips accompany every fallback schedule and fill in when a reply has none.
var DefaultStudyTips = []string{
	"Take regular breaks every 45-60 minutes",
	"Review previous day's material before starting new topics",
	"Practice active recall and self-testing",
	"Create summary notes at the end of each session",
	"Stay hydrated and get enough sleep",
}

// CreateSchedule plans days of study across topics. total_hours is always hoursPerDay*days.
// When the reply cannot be used, every topic is scheduled on every day with an equal share of the time.
func (t *Tutor) CreateSchedule(ctx context.Context, topics []string, hoursPerDay float64, days int) (*Schedule, error) {
	topics = nonEmpty(topics)
	if len(topics) == 0 {
		return nil, invalidArgument("at least one topic is required")
	}
	if len(topics) > maxScheduleTopic {
		return nil, invalidArgument("at most %d topics are supported", maxScheduleTopic)
	}
	if hoursPerDay <= 0 || hoursPerDay > maxHoursPerDay {
		return nil, invalidArgument("hours per day must be in (0, %d]", maxHoursPerDay)
	}
	if days <= 0 || days > maxScheduleDays {
		return nil, invalidArgument("days must be between 1 and %d", maxScheduleDays)
	}

	key := cache.GenerateKey("schedule", strings.Join(topics, ","), formatHours(hoursPerDay), strconv.Itoa(days))
	return cached(ctx, t, key, func() (*Schedule, error) {
		reply, err := t.complete(ctx, "schedule",
			[]ai.Message{ai.SystemPrompt(jsonOnlySystemPrompt), ai.UserMessage(schedulePrompt(topics, hoursPerDay, days))}, scheduleMaxTokens)
		if err != nil {
			return nil, err
		}

		schedule := parseSchedule(reply, days)
		if schedule == nil {
			schedule = fallbackSchedule(topics, hoursPerDay, days)
		}
		schedule.TotalHours = hoursPerDay * float64(days)
		schedule.Timestamp = t.timestamp()
		return schedule, nil
	})
}

func parseSchedule(reply string, days int) *Schedule {
	var parsed struct {
		Schedule []*ScheduleEntry `json:"schedule"`
		Tips     []string         `json:"tips"`
	}
	if err := ai.DecodeJSON(reply, &parsed); err != nil {
		return nil
	}

	entries := make([]*ScheduleEntry, 0, len(parsed.Schedule))
	for _, e := range parsed.Schedule {
		if e == nil || e.Day < 1 || e.Day > days || e.Duration <= 0 {
			continue
		}
		e.Topic = strings.TrimSpace(e.Topic)
		e.FocusArea = strings.TrimSpace(e.FocusArea)
		if e.Topic == "" {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil
	}

	tips := nonEmpty(parsed.Tips)
	if len(tips) == 0 {
		tips = append([]string(nil), DefaultStudyTips...)
	}
	return &Schedule{Schedule: entries, Tips: tips}
}

func fallbackSchedule(topics []string, hoursPerDay float64, days int) *Schedule {
	minutes := int(hoursPerDay*60) / len(topics)
	entries := make([]*ScheduleEntry, 0, days*len(topics))
	for day := 1; day <= days; day++ {
		for _, topic := range topics {
			entries = append(entries, &ScheduleEntry{
				Day:       day,
				Topic:     topic,
				Duration:  minutes,
				FocusArea: fmt.Sprintf("Core concepts and practice for %s", topic),
			})
		}
	}
	return &Schedule{
		Schedule: entries,
		Tips:     append([]string(nil), DefaultStudyTips...),
	}
}
