package finance

import "github.com/shopspring/decimal"

// RecurringParams tunes the recurring-pattern heuristic. The defaults
// mirror the product behavior: a 60-day lookback, at least 2 entries per
// (type, category) pair to count as recurring, and a 30-day month.
type RecurringParams struct {
	// WindowDays is the lookback window for pattern detection.
	WindowDays int

	// MinOccurrences is the minimum number of entries a (type, category)
	// pair needs before it is treated as recurring. Pairs below the
	// threshold are excluded entirely, regardless of amount.
	MinOccurrences int

	// HorizonDays is the projection horizon and the "month" the window
	// mean is scaled to.
	HorizonDays int
}

// DefaultRecurringParams are the production defaults.
var DefaultRecurringParams = RecurringParams{
	WindowDays:     60,
	MinOccurrences: 2,
	HorizonDays:    30,
}

// EstimateRecurring partitions the entries by (type, category), takes the
// arithmetic mean of each partition with at least MinOccurrences members,
// scales it to a monthly figure by HorizonDays/WindowDays, and sums the
// results per type. Amounts stay at full precision; rounding happens only
// when a response is serialized.
func EstimateRecurring(entries []*Transaction, params RecurringParams) (income, expenses decimal.Decimal) {
	type partition struct {
		txType   TransactionType
		category string
	}

	groups := make(map[partition][]decimal.Decimal)
	for _, e := range entries {
		k := partition{txType: e.Type, category: e.Category}
		groups[k] = append(groups[k], e.Amount)
	}

	scale := decimal.NewFromInt(int64(params.HorizonDays)).
		Div(decimal.NewFromInt(int64(params.WindowDays)))

	for k, amounts := range groups {
		if len(amounts) < params.MinOccurrences {
			continue
		}

		sum := decimal.Sum(amounts[0], amounts[1:]...)
		mean := sum.Div(decimal.NewFromInt(int64(len(amounts))))
		monthly := mean.Mul(scale)

		if k.txType == TransactionIncome {
			income = income.Add(monthly)
		} else {
			expenses = expenses.Add(monthly)
		}
	}

	return income, expenses
}
