// Package bigquery implements the finance store on a BigQuery dataset.
//
// Append-only tables (transactions, ignored_tips) use the streaming
// inserter; goals and profiles are mutable and use DML so rows stay
// updatable. All statements are parameterized and scoped by user_id.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/rosanasant/financas-backend/internal/finance"
)

const (
	transactionsTable = "transactions"
	goalsTable        = "goals"
	ignoredTipsTable  = "ignored_tips"
	profilesTable     = "profiles"
	sessionsTable     = "sessions"
)

// Repository implements finance.Store against one BigQuery dataset. It
// holds a shared client to avoid creating a new connection per
// operation.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

var _ finance.Store = (*Repository)(nil)

// NewRepository creates a Repository with its own BigQuery client.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// table returns the fully qualified `project.dataset.table` name for DML
// and SELECT statements.
func (r *Repository) table(name string) string {
	return "`" + r.projectID + "." + r.datasetID + "." + name + "`"
}

// inserter returns the streaming inserter for a table, fully qualified
// to avoid project ID ambiguity.
func (r *Repository) inserter(name string) *bigquery.Inserter {
	return r.client.DatasetInProject(r.projectID, r.datasetID).Table(name).Inserter()
}

// runDML executes a parameterized DML statement and waits for the job.
func (r *Repository) runDML(ctx context.Context, query string, params []bigquery.QueryParameter) error {
	q := r.client.Query(query)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}
