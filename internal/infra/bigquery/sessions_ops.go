package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// LookupSession resolves a bearer token to a user ID. Expired or unknown
// tokens return finance.ErrNotFound.
func (r *Repository) LookupSession(ctx context.Context, token string, now time.Time) (string, error) {
	q := r.client.Query(`
		SELECT user_id
		FROM ` + r.table(sessionsTable) + `
		WHERE token = @token
		  AND expires_ts > @now
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "token", Value: token},
		{Name: "now", Value: now},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("LookupSession: query read: %w", err)
	}

	var row struct {
		UserID string `bigquery:"user_id"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return "", finance.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("LookupSession: iter next: %w", err)
	}

	return row.UserID, nil
}
