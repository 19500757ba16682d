package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/studybuddy/store"
)

const studyPlanColumns = `id, uid, creator_id, created_ts, updated_ts, subject, goal, duration_weeks, hours_per_week, plan_data, progress, status`

func (d *DB) CreateStudyPlan(ctx context.Context, create *store.StudyPlan) (*store.StudyPlan, error) {
	if create.Status == "" {
		create.Status = store.PlanActive
	}
	fields := []string{"uid", "creator_id", "subject", "goal", "duration_weeks", "hours_per_week", "plan_data", "progress", "status"}
	args := []any{create.UID, create.CreatorID, create.Subject, create.Goal, create.DurationWeeks, create.HoursPerWeek, create.PlanData, create.Progress, create.Status}
	if create.CreatedTs != 0 {
		fields, args = append(fields, "created_ts"), append(args, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields, args = append(fields, "updated_ts"), append(args, create.UpdatedTs)
	}

	stmt := `INSERT INTO study_plan (` + strings.Join(fields, ", ") + `) VALUES (` + placeholders(len(args)) + `) RETURNING id, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create study plan: %w", err)
	}
	return create, nil
}

func (d *DB) ListStudyPlans(ctx context.Context, find *store.FindStudyPlan) ([]*store.StudyPlan, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT ` + studyPlanColumns + ` FROM study_plan WHERE ` + strings.Join(where, " AND ") + ` ` + orderByCreatedTs(find.OrderByCreatedTsDesc)
	query = withLimit(query, find.Limit, nil)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query study plans: %w", err)
	}
	defer rows.Close()

	list := make([]*store.StudyPlan, 0)
	for rows.Next() {
		plan, err := scanStudyPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study plan: %w", err)
		}
		list = append(list, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate study plans: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateStudyPlan(ctx context.Context, update *store.UpdateStudyPlan) (*store.StudyPlan, error) {
	set, args := []string{}, []any{}
	if v := update.Progress; v != nil {
		set, args = append(set, "progress = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, updatedTs(update.UpdatedTs))

	args = append(args, update.ID)
	query := `UPDATE study_plan SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + studyPlanColumns
	plan, err := scanStudyPlan(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update study plan: %w", err)
	}
	return plan, nil
}

func (d *DB) DeleteStudyPlan(ctx context.Context, delete *store.DeleteStudyPlan) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM study_plan WHERE id = `+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete study plan: %w", err)
	}
	return nil
}

func scanStudyPlan(row rowScanner) (*store.StudyPlan, error) {
	var plan store.StudyPlan
	if err := row.Scan(
		&plan.ID,
		&plan.UID,
		&plan.CreatorID,
		&plan.CreatedTs,
		&plan.UpdatedTs,
		&plan.Subject,
		&plan.Goal,
		&plan.DurationWeeks,
		&plan.HoursPerWeek,
		&plan.PlanData,
		&plan.Progress,
		&plan.Status,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}
