package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// GetProfile returns the identity's profile, or finance.ErrNotFound.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*finance.Profile, error) {
	q := r.client.Query(`
		SELECT user_id, full_name, updated_ts
		FROM ` + r.table(profilesTable) + `
		WHERE user_id = @user_id
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: query read: %w", err)
	}

	var row ProfileRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, finance.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetProfile: iter next: %w", err)
	}

	return row.toDomain(), nil
}

// UpsertProfile creates or replaces the identity's profile row.
func (r *Repository) UpsertProfile(ctx context.Context, profile *finance.Profile) error {
	err := r.runDML(ctx, `
		MERGE `+r.table(profilesTable)+` p
		USING (SELECT @user_id AS user_id) src
		ON p.user_id = src.user_id
		WHEN MATCHED THEN
			UPDATE SET full_name = @full_name, updated_ts = @updated_ts
		WHEN NOT MATCHED THEN
			INSERT (user_id, full_name, updated_ts)
			VALUES (@user_id, @full_name, @updated_ts)
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: profile.UserID},
		{Name: "full_name", Value: profile.FullName},
		{Name: "updated_ts", Value: profile.UpdatedAt},
	})
	if err != nil {
		return fmt.Errorf("UpsertProfile: %w", err)
	}
	return nil
}
