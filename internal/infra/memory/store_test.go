package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/rosanasant/financas-backend/internal/finance"
)

func TestTransactionOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []*finance.Transaction{
		{ID: "b", UserID: "u1", Date: civil.Date{Year: 2026, Month: 3, Day: 2}, CreatedAt: base},
		{ID: "a", UserID: "u1", Date: civil.Date{Year: 2026, Month: 3, Day: 1}, CreatedAt: base.Add(time.Hour)},
		{ID: "c", UserID: "u1", Date: civil.Date{Year: 2026, Month: 3, Day: 1}, CreatedAt: base},
		{ID: "x", UserID: "other", Date: civil.Date{Year: 2026, Month: 3, Day: 1}, CreatedAt: base},
	}
	for _, e := range entries {
		if err := s.InsertTransaction(ctx, e); err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	got, err := s.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	for i, wantID := range []string{"c", "a", "b"} {
		if got[i].ID != wantID {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, wantID)
		}
	}
}

func TestCategoryExpensesFiltering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	mk := func(id string, txType finance.TransactionType, category string, day int) *finance.Transaction {
		return &finance.Transaction{
			ID:       id,
			UserID:   "u1",
			Type:     txType,
			Category: category,
			Date:     civil.Date{Year: 2026, Month: 3, Day: day},
		}
	}
	for _, tx := range []*finance.Transaction{
		mk("in-window", finance.TransactionExpense, "Alimentação", 15),
		mk("wrong-case", finance.TransactionExpense, "alimentação", 16),
		mk("too-old", finance.TransactionExpense, "Alimentação", 1),
		mk("income", finance.TransactionIncome, "Alimentação", 15),
		mk("other-cat", finance.TransactionExpense, "Transporte", 15),
	} {
		if err := s.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	got, err := s.ListCategoryExpensesSince(ctx, "u1", "Alimentação", civil.Date{Year: 2026, Month: 3, Day: 10})
	if err != nil {
		t.Fatalf("ListCategoryExpensesSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
}

func TestDeleteTransactionScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx := &finance.Transaction{ID: "t1", UserID: "u1"}
	if err := s.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}

	// Another identity must not be able to delete it.
	if err := s.DeleteTransaction(ctx, "intruder", "t1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	got, _ := s.ListTransactions(ctx, "u1")
	if len(got) != 1 {
		t.Fatal("transaction deleted by wrong identity")
	}

	if err := s.DeleteTransaction(ctx, "u1", "t1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	got, _ = s.ListTransactions(ctx, "u1")
	if len(got) != 0 {
		t.Fatal("transaction not deleted by owner")
	}

	// Idempotent.
	if err := s.DeleteTransaction(ctx, "u1", "t1"); err != nil {
		t.Fatalf("DeleteTransaction (missing): %v", err)
	}
}

func TestGoalUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	goal := &finance.Goal{
		ID:           "g1",
		UserID:       "u1",
		Name:         "Viagem",
		TargetAmount: decimal.NewFromInt(5000),
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.InsertGoal(ctx, goal); err != nil {
		t.Fatalf("InsertGoal: %v", err)
	}

	goal.CurrentAmount = decimal.NewFromInt(500)
	if err := s.UpdateGoal(ctx, goal); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}

	goals, _ := s.ListGoals(ctx, "u1")
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}
	if !goals[0].CurrentAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("CurrentAmount = %s, want 500", goals[0].CurrentAmount)
	}

	missing := &finance.Goal{ID: "nope", UserID: "u1"}
	if err := s.UpdateGoal(ctx, missing); !errors.Is(err, finance.ErrNotFound) {
		t.Errorf("UpdateGoal(missing) = %v, want ErrNotFound", err)
	}
}

func TestActiveTipExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	if err := s.InsertIgnoredTip(ctx, &finance.IgnoredTip{
		ID:           "tip1",
		UserID:       "u1",
		Category:     "Alimentação",
		IgnoredUntil: now.Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("InsertIgnoredTip: %v", err)
	}

	active, err := s.HasActiveTip(ctx, "u1", "alimentação", now)
	if err != nil {
		t.Fatalf("HasActiveTip: %v", err)
	}
	if !active {
		t.Error("tip not reported active before expiry")
	}

	active, _ = s.HasActiveTip(ctx, "u1", "Alimentação", now.Add(48*time.Hour))
	if active {
		t.Error("tip reported active after expiry")
	}

	active, _ = s.HasActiveTip(ctx, "u1", "Transporte", now)
	if active {
		t.Error("tip reported active for another category")
	}
}

func TestProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.GetProfile(ctx, "u1"); !errors.Is(err, finance.ErrNotFound) {
		t.Fatalf("GetProfile(missing) = %v, want ErrNotFound", err)
	}

	if err := s.UpsertProfile(ctx, &finance.Profile{UserID: "u1", FullName: "Rosana"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err := s.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.FullName != "Rosana" {
		t.Errorf("FullName = %q, want Rosana", p.FullName)
	}
}

func TestSessionLookup(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s.AddSession(&finance.Session{Token: "tok", UserID: "u1", ExpiresAt: now.Add(time.Hour)})

	userID, err := s.LookupSession(ctx, "tok", now)
	if err != nil {
		t.Fatalf("LookupSession: %v", err)
	}
	if userID != "u1" {
		t.Errorf("userID = %q, want u1", userID)
	}

	if _, err := s.LookupSession(ctx, "tok", now.Add(2*time.Hour)); !errors.Is(err, finance.ErrNotFound) {
		t.Errorf("expired session = %v, want ErrNotFound", err)
	}
	if _, err := s.LookupSession(ctx, "unknown", now); !errors.Is(err, finance.ErrNotFound) {
		t.Errorf("unknown token = %v, want ErrNotFound", err)
	}
}
