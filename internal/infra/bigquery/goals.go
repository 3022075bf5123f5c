package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"

	"github.com/rosanasant/financas-backend/internal/finance"
)

type GoalRow struct {
	GoalID string `bigquery:"goal_id"` // REQUIRED
	UserID string `bigquery:"user_id"` // REQUIRED

	Name string `bigquery:"name"` // REQUIRED
	Type string `bigquery:"type"` // REQUIRED, save|invest

	TargetAmount  *big.Rat `bigquery:"target_amount"`  // REQUIRED NUMERIC
	CurrentAmount *big.Rat `bigquery:"current_amount"` // REQUIRED NUMERIC

	TargetDate civil.Date `bigquery:"target_date"` // REQUIRED
	CreatedTS  time.Time  `bigquery:"created_ts"`  // REQUIRED
	UpdatedTS  time.Time  `bigquery:"updated_ts"`  // REQUIRED
}

func (r *GoalRow) toDomain() *finance.Goal {
	return &finance.Goal{
		ID:            r.GoalID,
		UserID:        r.UserID,
		Name:          r.Name,
		Type:          finance.GoalType(r.Type),
		TargetAmount:  ratToDecimal(r.TargetAmount),
		CurrentAmount: ratToDecimal(r.CurrentAmount),
		TargetDate:    r.TargetDate,
		CreatedAt:     r.CreatedTS,
		UpdatedAt:     r.UpdatedTS,
	}
}
