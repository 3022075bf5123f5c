// Package export writes a full snapshot of one identity's data to Cloud
// Storage and hands back a short-lived download link.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// linkTTL is how long the signed download URL stays valid.
const linkTTL = 15 * time.Minute

// Exporter snapshots a user's ledger, goals and profile into a JSON
// object in a GCS bucket.
type Exporter struct {
	store  Store
	bucket string
	log    zerolog.Logger
	now    func() time.Time
}

// Store is the read surface the exporter needs.
type Store interface {
	finance.TransactionRepository
	finance.GoalRepository
	finance.ProfileRepository
}

// NewExporter creates an Exporter targeting one bucket.
func NewExporter(store Store, bucket string, log zerolog.Logger) *Exporter {
	return &Exporter{
		store:  store,
		bucket: bucket,
		log:    log,
		now:    time.Now,
	}
}

type snapshot struct {
	ExportedAt   string                `json:"exportedAt"`
	Profile      *snapshotProfile      `json:"profile,omitempty"`
	Transactions []snapshotTransaction `json:"transactions"`
	Goals        []snapshotGoal        `json:"goals"`
}

type snapshotProfile struct {
	FullName string `json:"fullName"`
}

type snapshotTransaction struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
}

type snapshotGoal struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	TargetDate    string `json:"targetDate"`
	CreatedAt     string `json:"createdAt"`
}

// Export assembles the snapshot, uploads it, and returns a signed URL
// valid for 15 minutes.
func (e *Exporter) Export(ctx context.Context, userID string) (string, error) {
	snap, err := e.buildSnapshot(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("Export: %w", err)
	}

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Export: marshal snapshot: %w", err)
	}

	objectName := fmt.Sprintf("exports/%s/%s.json", e.now().Format("2006/01/02"), uuid.NewString())

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("Export: create storage client: %w", err)
	}
	defer client.Close()

	wc := client.Bucket(e.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = "application/json"
	if _, err := bytes.NewReader(payload).WriteTo(wc); err != nil {
		return "", fmt.Errorf("Export: write to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Export: close GCS writer: %w", err)
	}

	url, err := client.Bucket(e.bucket).SignedURL(objectName, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: e.now().Add(linkTTL),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("Export: generate signed URL: %w", err)
	}

	e.log.Info().
		Str("object", objectName).
		Int("bytes", len(payload)).
		Msg("Export uploaded")

	return url, nil
}

func (e *Exporter) buildSnapshot(ctx context.Context, userID string) (*snapshot, error) {
	transactions, err := e.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	goals, err := e.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	snap := &snapshot{
		ExportedAt:   e.now().UTC().Format(time.RFC3339),
		Transactions: make([]snapshotTransaction, 0, len(transactions)),
		Goals:        make([]snapshotGoal, 0, len(goals)),
	}
	for _, tx := range transactions {
		snap.Transactions = append(snap.Transactions, snapshotTransaction{
			ID:          tx.ID,
			Amount:      tx.Amount.StringFixed(2),
			Type:        string(tx.Type),
			Category:    tx.Category,
			Description: tx.Description,
			Date:        tx.Date.String(),
			CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, g := range goals {
		snap.Goals = append(snap.Goals, snapshotGoal{
			ID:            g.ID,
			Name:          g.Name,
			Type:          string(g.Type),
			TargetAmount:  g.TargetAmount.StringFixed(2),
			CurrentAmount: g.CurrentAmount.StringFixed(2),
			TargetDate:    g.TargetDate.String(),
			CreatedAt:     g.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	profile, err := e.store.GetProfile(ctx, userID)
	switch {
	case err == nil:
		snap.Profile = &snapshotProfile{FullName: profile.FullName}
	case errors.Is(err, finance.ErrNotFound):
		// No profile yet; leave it out.
	default:
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return snap, nil
}
