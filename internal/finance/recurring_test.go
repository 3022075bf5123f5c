package finance

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func entry(txType TransactionType, category string, amount float64) *Transaction {
	return &Transaction{
		Type:     txType,
		Category: category,
		Amount:   decimal.NewFromFloat(amount),
		Date:     civil.Date{Year: 2025, Month: 6, Day: 15},
	}
}

func TestEstimateRecurring(t *testing.T) {
	params := DefaultRecurringParams

	tests := []struct {
		name         string
		entries      []*Transaction
		wantIncome   string
		wantExpenses string
	}{
		{
			name:         "no entries",
			entries:      nil,
			wantIncome:   "0",
			wantExpenses: "0",
		},
		{
			name: "single entry excluded regardless of magnitude",
			entries: []*Transaction{
				entry(TransactionExpense, "Aluguel", 1000000),
			},
			wantIncome:   "0",
			wantExpenses: "0",
		},
		{
			name: "two entries form a recurring partition",
			entries: []*Transaction{
				entry(TransactionExpense, "Mercado", 100),
				entry(TransactionExpense, "Mercado", 200),
			},
			// mean 150 scaled by 30/60
			wantIncome:   "0",
			wantExpenses: "75",
		},
		{
			name: "income and expense partitions summed separately",
			entries: []*Transaction{
				entry(TransactionIncome, "Salário", 3000),
				entry(TransactionIncome, "Salário", 3000),
				entry(TransactionExpense, "Mercado", 400),
				entry(TransactionExpense, "Mercado", 600),
				entry(TransactionExpense, "Transporte", 50), // excluded: 1 entry
			},
			wantIncome:   "1500",
			wantExpenses: "250",
		},
		{
			name: "same category name under different types is two partitions",
			entries: []*Transaction{
				entry(TransactionIncome, "Freelance", 500),
				entry(TransactionExpense, "Freelance", 500),
			},
			wantIncome:   "0",
			wantExpenses: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income, expenses := EstimateRecurring(tt.entries, params)
			if !income.Equal(decimal.RequireFromString(tt.wantIncome)) {
				t.Errorf("income = %s, want %s", income, tt.wantIncome)
			}
			if !expenses.Equal(decimal.RequireFromString(tt.wantExpenses)) {
				t.Errorf("expenses = %s, want %s", expenses, tt.wantExpenses)
			}
		})
	}
}

func TestEstimateRecurringThresholdIsConfigurable(t *testing.T) {
	entries := []*Transaction{
		entry(TransactionExpense, "Mercado", 100),
	}

	params := RecurringParams{WindowDays: 60, MinOccurrences: 1, HorizonDays: 30}
	_, expenses := EstimateRecurring(entries, params)
	if !expenses.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expenses with MinOccurrences=1 = %s, want 50", expenses)
	}
}
