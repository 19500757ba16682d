package tutor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/cache"
)

const maxPlanWeeks = 52

// GenerateStudyPlan builds a week-by-week plan toward goal.
// A reply without usable JSON becomes the overview and the weeks and milestones are laid out evenly.
func (t *Tutor) GenerateStudyPlan(ctx context.Context, req StudyPlanRequest) (*StudyPlan, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Goal = strings.TrimSpace(req.Goal)
	if req.Subject == "" {
		return nil, invalidArgument("subject is required")
	}
	if req.Goal == "" {
		return nil, invalidArgument("goal is required")
	}
	if req.HoursPerWeek <= 0 || req.HoursPerWeek > 7*maxHoursPerDay {
		return nil, invalidArgument("hours per week must be in (0, %d]", 7*maxHoursPerDay)
	}
	if req.DurationWeeks <= 0 || req.DurationWeeks > maxPlanWeeks {
		return nil, invalidArgument("duration must be between 1 and %d weeks", maxPlanWeeks)
	}

	key := cache.GenerateKey("plan", req.Subject, req.Goal, formatHours(req.HoursPerWeek), strconv.Itoa(req.DurationWeeks))
	return cached(ctx, t, key, func() (*StudyPlan, error) {
		reply, err := t.complete(ctx, "study plan",
			ai.FormatMessages(tutorSystemPrompt, studyPlanPrompt(req), nil), studyPlanMaxTokens)
		if err != nil {
			return nil, err
		}
		plan := parseStudyPlan(reply, req)
		plan.Subject = req.Subject
		plan.Goal = req.Goal
		plan.Timestamp = t.timestamp()
		return plan, nil
	})
}

func parseStudyPlan(reply string, req StudyPlanRequest) *StudyPlan {
	var parsed StudyPlan
	if err := ai.DecodeJSON(reply, &parsed); err == nil && len(parsed.WeeklySchedule) > 0 {
		weeks := make([]*WeekPlan, 0, len(parsed.WeeklySchedule))
		for _, w := range parsed.WeeklySchedule {
			if w == nil || w.Week < 1 || w.Week > req.DurationWeeks {
				continue
			}
			w.Topics = nonEmpty(w.Topics)
			if w.Hours <= 0 {
				w.Hours = req.HoursPerWeek
			}
			weeks = append(weeks, w)
		}
		if len(weeks) > 0 {
			milestones := nonEmpty(parsed.Milestones)
			if len(milestones) == 0 {
				milestones = defaultMilestones(req.DurationWeeks)
			}
			return &StudyPlan{
				Overview:       strings.TrimSpace(parsed.Overview),
				WeeklySchedule: weeks,
				Milestones:     milestones,
			}
		}
	}

	weeks := make([]*WeekPlan, req.DurationWeeks)
	for i := range weeks {
		weeks[i] = &WeekPlan{
			Week:   i + 1,
			Topics: []string{fmt.Sprintf("%s: part %d", req.Subject, i+1)},
			Hours:  req.HoursPerWeek,
		}
	}
	return &StudyPlan{
		Overview:       strings.TrimSpace(reply),
		WeeklySchedule: weeks,
		Milestones:     defaultMilestones(req.DurationWeeks),
	}
}

// defaultMilestones places three checkpoints at n/3, 2n/3 and n weeks (never before week 1).
func defaultMilestones(weeks int) []string {
	milestones := make([]string, 0, 3)
	for i := 1; i <= 3; i++ {
		week := max(weeks*i/3, 1)
		milestones = append(milestones, fmt.Sprintf("Week %d: Milestone %d", week, i))
	}
	return milestones
}
