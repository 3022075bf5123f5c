package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DailyGoalCommitment returns the amount that must be set aside per day to
// hit every active goal on schedule. A goal contributes
// remaining / ceil(days until target); goals already met or past their
// target date contribute nothing.
func DailyGoalCommitment(goals []*Goal, now time.Time) decimal.Decimal {
	total := decimal.Zero

	for _, g := range goals {
		target := g.TargetDate.In(time.UTC)
		if !target.After(now) {
			continue
		}

		remaining := g.TargetAmount.Sub(g.CurrentAmount)
		days := int64(math.Ceil(target.Sub(now).Hours() / 24))
		if !remaining.IsPositive() || days <= 0 {
			continue
		}

		total = total.Add(remaining.Div(decimal.NewFromInt(days)))
	}

	return total
}
