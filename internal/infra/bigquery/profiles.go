package bigquery

import (
	"time"

	"github.com/rosanasant/financas-backend/internal/finance"
)

type ProfileRow struct {
	UserID    string    `bigquery:"user_id"`    // REQUIRED
	FullName  string    `bigquery:"full_name"`  // NULLABLE
	UpdatedTS time.Time `bigquery:"updated_ts"` // REQUIRED
}

func (r *ProfileRow) toDomain() *finance.Profile {
	return &finance.Profile{
		UserID:    r.UserID,
		FullName:  r.FullName,
		UpdatedAt: r.UpdatedTS,
	}
}
