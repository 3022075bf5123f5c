package finance

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ProjectionDay is one point of the forward balance walk.
type ProjectionDay struct {
	Date     civil.Date
	Balance  decimal.Decimal
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Projection is the derived forecast returned to the client. It is
// recomputed in full on every request and never persisted.
type Projection struct {
	CurrentBalance    decimal.Decimal
	RecurringIncome   decimal.Decimal
	RecurringExpenses decimal.Decimal
	GoalSavings       decimal.Decimal
	Days              []ProjectionDay
}

// Balance sums every ledger entry: +amount for income, -amount for
// expense.
func Balance(entries []*Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		if e.Type == TransactionIncome {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance
}

// Project walks the balance forward one calendar day at a time. Day 0 is
// start (today) and already carries one day's delta; each following point
// adds dailyIncome - dailyExpenses - dailyGoalSavings to the previous
// balance. The per-day expense component includes the goal savings share.
func Project(balance, monthlyIncome, monthlyExpenses, dailyGoalSavings decimal.Decimal, start civil.Date, horizonDays int) []ProjectionDay {
	divisor := decimal.NewFromInt(int64(horizonDays))
	dailyIncome := monthlyIncome.Div(divisor)
	dailyExpenses := monthlyExpenses.Div(divisor)
	outflow := dailyExpenses.Add(dailyGoalSavings)

	days := make([]ProjectionDay, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		balance = balance.Add(dailyIncome).Sub(outflow)
		days = append(days, ProjectionDay{
			Date:     start.AddDays(i),
			Balance:  balance,
			Income:   dailyIncome,
			Expenses: outflow,
		})
	}

	return days
}

// ComputeProjection derives the full forecast from an identity's complete
// ledger and goals. The balance uses every entry ever recorded; the
// recurring estimate only looks at the configured window.
func ComputeProjection(entries []*Transaction, goals []*Goal, now time.Time, params RecurringParams) *Projection {
	today := civil.DateOf(now)
	windowStart := today.AddDays(-params.WindowDays)

	var window []*Transaction
	for _, e := range entries {
		if !e.Date.Before(windowStart) {
			window = append(window, e)
		}
	}

	income, expenses := EstimateRecurring(window, params)
	daily := DailyGoalCommitment(goals, now)
	balance := Balance(entries)

	return &Projection{
		CurrentBalance:    balance,
		RecurringIncome:   income,
		RecurringExpenses: expenses,
		GoalSavings:       daily.Mul(decimal.NewFromInt(int64(params.HorizonDays))),
		Days:              Project(balance, income, expenses, daily, today, params.HorizonDays),
	}
}
