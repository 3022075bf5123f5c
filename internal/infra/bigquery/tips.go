package bigquery

import (
	"time"

	"github.com/rosanasant/financas-backend/internal/finance"
)

type IgnoredTipRow struct {
	TipID    string `bigquery:"tip_id"`   // REQUIRED
	UserID   string `bigquery:"user_id"`  // REQUIRED
	Category string `bigquery:"category"` // REQUIRED

	IgnoredUntil time.Time `bigquery:"ignored_until"` // REQUIRED
	CreatedTS    time.Time `bigquery:"created_ts"`    // REQUIRED
}

func ignoredTipToRow(tip *finance.IgnoredTip) *IgnoredTipRow {
	return &IgnoredTipRow{
		TipID:        tip.ID,
		UserID:       tip.UserID,
		Category:     tip.Category,
		IgnoredUntil: tip.IgnoredUntil,
		CreatedTS:    tip.CreatedAt,
	}
}
