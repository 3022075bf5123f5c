package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// InsertTransaction appends one ledger entry via the streaming inserter.
func (r *Repository) InsertTransaction(ctx context.Context, tx *finance.Transaction) error {
	inserter := r.inserter(transactionsTable)
	if err := inserter.Put(ctx, []*TransactionRow{transactionToRow(tx)}); err != nil {
		return fmt.Errorf("InsertTransaction: inserting row: %w", err)
	}
	return nil
}

// ListTransactions returns every ledger entry for one identity, ordered
// by transaction date then creation time.
func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]*finance.Transaction, error) {
	q := r.client.Query(`
		SELECT
			transaction_id,
			user_id,
			amount,
			type,
			category,
			description,
			transaction_date,
			created_ts
		FROM ` + r.table(transactionsTable) + `
		WHERE user_id = @user_id
		ORDER BY transaction_date, created_ts
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	rows, err := readTransactionRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}
	return rows, nil
}

// ListCategoryExpensesSince returns the identity's expense entries for
// one category dated on or after since.
func (r *Repository) ListCategoryExpensesSince(ctx context.Context, userID, category string, since civil.Date) ([]*finance.Transaction, error) {
	q := r.client.Query(`
		SELECT
			transaction_id,
			user_id,
			amount,
			type,
			category,
			description,
			transaction_date,
			created_ts
		FROM ` + r.table(transactionsTable) + `
		WHERE user_id = @user_id
		  AND type = 'expense'
		  AND LOWER(category) = LOWER(@category)
		  AND transaction_date >= @since
		ORDER BY created_ts
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "category", Value: category},
		{Name: "since", Value: since.String()},
	}

	rows, err := readTransactionRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListCategoryExpensesSince: %w", err)
	}
	return rows, nil
}

// DeleteTransaction removes one entry. Deleting a missing entry is a
// no-op.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	err := r.runDML(ctx, `
		DELETE FROM `+r.table(transactionsTable)+`
		WHERE user_id = @user_id
		  AND transaction_id = @transaction_id
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "transaction_id", Value: transactionID},
	})
	if err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}
	return nil
}

func readTransactionRows(ctx context.Context, q *bigquery.Query) ([]*finance.Transaction, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("query read: %w", err)
	}

	var out []*finance.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iter next: %w", err)
		}
		out = append(out, row.toDomain())
	}

	return out, nil
}
