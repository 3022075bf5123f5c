package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// InsertIgnoredTip appends a suppression row. Expired rows are never
// deleted, so the table stays append-only and streaming-insert friendly.
func (r *Repository) InsertIgnoredTip(ctx context.Context, tip *finance.IgnoredTip) error {
	inserter := r.inserter(ignoredTipsTable)
	if err := inserter.Put(ctx, []*IgnoredTipRow{ignoredTipToRow(tip)}); err != nil {
		return fmt.Errorf("InsertIgnoredTip: inserting row: %w", err)
	}
	return nil
}

// HasActiveTip reports whether the category has a suppression whose
// expiry is at or after now.
func (r *Repository) HasActiveTip(ctx context.Context, userID, category string, now time.Time) (bool, error) {
	q := r.client.Query(`
		SELECT COUNT(*) AS active
		FROM ` + r.table(ignoredTipsTable) + `
		WHERE user_id = @user_id
		  AND LOWER(category) = LOWER(@category)
		  AND ignored_until >= @now
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "category", Value: category},
		{Name: "now", Value: now},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("HasActiveTip: query read: %w", err)
	}

	var row struct {
		Active int64 `bigquery:"active"`
	}
	if err := it.Next(&row); err != nil && err != iterator.Done {
		return false, fmt.Errorf("HasActiveTip: iter next: %w", err)
	}

	return row.Active > 0, nil
}
