package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// numericPrecision matches the scale of BigQuery NUMERIC columns.
const numericPrecision = 9

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // REQUIRED

	Amount   *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC
	Type     string   `bigquery:"type"`   // REQUIRED, income|expense
	Category string   `bigquery:"category"`

	Description string `bigquery:"description"` // NULLABLE

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED
	CreatedTS       time.Time  `bigquery:"created_ts"`       // REQUIRED
}

func transactionToRow(tx *finance.Transaction) *TransactionRow {
	return &TransactionRow{
		TransactionID:   tx.ID,
		UserID:          tx.UserID,
		Amount:          tx.Amount.Rat(),
		Type:            string(tx.Type),
		Category:        tx.Category,
		Description:     tx.Description,
		TransactionDate: tx.Date,
		CreatedTS:       tx.CreatedAt,
	}
}

func (r *TransactionRow) toDomain() *finance.Transaction {
	return &finance.Transaction{
		ID:          r.TransactionID,
		UserID:      r.UserID,
		Amount:      ratToDecimal(r.Amount),
		Type:        finance.TransactionType(r.Type),
		Category:    r.Category,
		Description: r.Description,
		Date:        r.TransactionDate,
		CreatedAt:   r.CreatedTS,
	}
}

func ratToDecimal(rat *big.Rat) decimal.Decimal {
	if rat == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(rat, numericPrecision)
}
