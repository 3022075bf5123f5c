package export

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rosanasant/financas-backend/internal/finance"
	"github.com/rosanasant/financas-backend/internal/infra/memory"
)

func TestBuildSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	if err := store.InsertTransaction(ctx, &finance.Transaction{
		ID: "t1", UserID: "u1",
		Amount: decimal.NewFromFloat(12.345), Type: finance.TransactionExpense,
		Category: "Transporte", Date: civil.Date{Year: 2026, Month: 3, Day: 10},
	}); err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}
	if err := store.InsertGoal(ctx, &finance.Goal{
		ID: "g1", UserID: "u1", Name: "Viagem",
		TargetAmount: decimal.NewFromInt(5000), CurrentAmount: decimal.NewFromInt(500),
		TargetDate: civil.Date{Year: 2026, Month: 12, Day: 31},
	}); err != nil {
		t.Fatalf("InsertGoal: %v", err)
	}
	if err := store.UpsertProfile(ctx, &finance.Profile{UserID: "u1", FullName: "Rosana"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	e := NewExporter(store, "bucket", zerolog.Nop())
	e.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	snap, err := e.buildSnapshot(ctx, "u1")
	if err != nil {
		t.Fatalf("buildSnapshot: %v", err)
	}

	if snap.Profile == nil || snap.Profile.FullName != "Rosana" {
		t.Errorf("profile = %+v", snap.Profile)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].Amount != "12.35" {
		t.Errorf("transactions = %+v", snap.Transactions)
	}
	if len(snap.Goals) != 1 || snap.Goals[0].CurrentAmount != "500.00" {
		t.Errorf("goals = %+v", snap.Goals)
	}
}

func TestBuildSnapshotNoProfile(t *testing.T) {
	store := memory.NewStore()
	e := NewExporter(store, "bucket", zerolog.Nop())

	snap, err := e.buildSnapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("buildSnapshot: %v", err)
	}
	if snap.Profile != nil {
		t.Errorf("profile = %+v, want nil", snap.Profile)
	}
	if snap.Transactions == nil || snap.Goals == nil {
		t.Error("empty collections should marshal as [], not null")
	}
}
