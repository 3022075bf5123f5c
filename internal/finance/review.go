package finance

import "github.com/shopspring/decimal"

var (
	// overspendFactor is how far above the category mean an expense must
	// land before a purchase review is suggested.
	overspendFactor = decimal.NewFromFloat(1.3)

	// savingsFactor is the share of the overshoot suggested as savings.
	savingsFactor = decimal.NewFromFloat(0.2)
)

// PurchaseReview is the advisory attached to a response after an
// above-average expense. GoalName is empty when the user has no goals.
type PurchaseReview struct {
	Category         string
	SuggestedSavings decimal.Decimal
	GoalName         string
}

// ReviewPurchase compares a just-recorded expense against the mean of the
// identity's recent same-category expenses. recent is the 30-day window
// and may include the new entry itself; the baseline excludes it by ID.
// Returns nil when there is no baseline (fewer than two entries in the
// window counting the new one) or the expense is within 1.3x the mean.
func ReviewPurchase(entry *Transaction, recent []*Transaction, latestGoalName string) *PurchaseReview {
	var baseline []decimal.Decimal
	for _, t := range recent {
		if t.ID == entry.ID {
			continue
		}
		baseline = append(baseline, t.Amount)
	}
	if len(baseline) == 0 {
		return nil
	}

	mean := decimal.Sum(baseline[0], baseline[1:]...).
		Div(decimal.NewFromInt(int64(len(baseline))))

	if entry.Amount.LessThanOrEqual(mean.Mul(overspendFactor)) {
		return nil
	}

	return &PurchaseReview{
		Category:         entry.Category,
		SuggestedSavings: entry.Amount.Sub(mean).Mul(savingsFactor),
		GoalName:         latestGoalName,
	}
}
