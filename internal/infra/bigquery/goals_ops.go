package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// InsertGoal creates a goal via DML rather than the streaming inserter:
// rows still in the streaming buffer cannot be touched by the UPDATE in
// UpdateGoal, and contributions often follow creation within minutes.
func (r *Repository) InsertGoal(ctx context.Context, goal *finance.Goal) error {
	err := r.runDML(ctx, `
		INSERT INTO `+r.table(goalsTable)+`
			(goal_id, user_id, name, type, target_amount, current_amount, target_date, created_ts, updated_ts)
		VALUES
			(@goal_id, @user_id, @name, @type, @target_amount, @current_amount, @target_date, @created_ts, @updated_ts)
	`, []bigquery.QueryParameter{
		{Name: "goal_id", Value: goal.ID},
		{Name: "user_id", Value: goal.UserID},
		{Name: "name", Value: goal.Name},
		{Name: "type", Value: string(goal.Type)},
		{Name: "target_amount", Value: goal.TargetAmount.Rat()},
		{Name: "current_amount", Value: goal.CurrentAmount.Rat()},
		{Name: "target_date", Value: goal.TargetDate},
		{Name: "created_ts", Value: goal.CreatedAt},
		{Name: "updated_ts", Value: goal.UpdatedAt},
	})
	if err != nil {
		return fmt.Errorf("InsertGoal: %w", err)
	}
	return nil
}

// ListGoals returns every goal for one identity ordered by creation time.
func (r *Repository) ListGoals(ctx context.Context, userID string) ([]*finance.Goal, error) {
	q := r.client.Query(`
		SELECT
			goal_id,
			user_id,
			name,
			type,
			target_amount,
			current_amount,
			target_date,
			created_ts,
			updated_ts
		FROM ` + r.table(goalsTable) + `
		WHERE user_id = @user_id
		ORDER BY created_ts
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListGoals: query read: %w", err)
	}

	var out []*finance.Goal
	for {
		var row GoalRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListGoals: iter next: %w", err)
		}
		out = append(out, row.toDomain())
	}

	return out, nil
}

// UpdateGoal overwrites the mutable fields of an existing goal.
func (r *Repository) UpdateGoal(ctx context.Context, goal *finance.Goal) error {
	err := r.runDML(ctx, `
		UPDATE `+r.table(goalsTable)+`
		SET name = @name,
		    target_amount = @target_amount,
		    current_amount = @current_amount,
		    target_date = @target_date,
		    updated_ts = @updated_ts
		WHERE user_id = @user_id
		  AND goal_id = @goal_id
	`, []bigquery.QueryParameter{
		{Name: "name", Value: goal.Name},
		{Name: "target_amount", Value: goal.TargetAmount.Rat()},
		{Name: "current_amount", Value: goal.CurrentAmount.Rat()},
		{Name: "target_date", Value: goal.TargetDate},
		{Name: "updated_ts", Value: goal.UpdatedAt},
		{Name: "user_id", Value: goal.UserID},
		{Name: "goal_id", Value: goal.ID},
	})
	if err != nil {
		return fmt.Errorf("UpdateGoal: %w", err)
	}
	return nil
}

// DeleteGoal removes one goal. Deleting a missing goal is a no-op.
func (r *Repository) DeleteGoal(ctx context.Context, userID, goalID string) error {
	err := r.runDML(ctx, `
		DELETE FROM `+r.table(goalsTable)+`
		WHERE user_id = @user_id
		  AND goal_id = @goal_id
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "goal_id", Value: goalID},
	})
	if err != nil {
		return fmt.Errorf("DeleteGoal: %w", err)
	}
	return nil
}
