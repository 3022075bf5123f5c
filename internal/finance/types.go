package finance

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("finance: record not found")

// TransactionType tags a ledger entry as money in or money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// DefaultCategory is used when the assistant extracts no category.
const DefaultCategory = "Outros"

// Transaction is a single recorded income or expense. Entries are
// append-only; they are removed only by an explicit delete from the
// ledger view.
type Transaction struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Description string
	Date        civil.Date
	CreatedAt   time.Time
}

// GoalType tags a goal as a savings or an investment target.
type GoalType string

const (
	GoalSave   GoalType = "save"
	GoalInvest GoalType = "invest"
)

// Goal is a savings or investment target. CurrentAmount may exceed
// TargetAmount; overshoot shows as >=100% progress.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	Type          GoalType
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    civil.Date
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IgnoredTip suppresses purchase-review suggestions for one category
// until IgnoredUntil. Expired rows are ignored, never deleted.
type IgnoredTip struct {
	ID           string
	UserID       string
	Category     string
	IgnoredUntil time.Time
	CreatedAt    time.Time
}

// Profile holds per-identity display data.
type Profile struct {
	UserID    string
	FullName  string
	UpdatedAt time.Time
}

// Session maps a bearer token to an identity until ExpiresAt.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// TransactionRepository provides ledger-entry persistence.
type TransactionRepository interface {
	// InsertTransaction appends a single ledger entry.
	InsertTransaction(ctx context.Context, tx *Transaction) error

	// ListTransactions returns every entry for one identity, ordered by
	// transaction date then creation time, both ascending.
	ListTransactions(ctx context.Context, userID string) ([]*Transaction, error)

	// ListCategoryExpensesSince returns the identity's expense entries for
	// one category dated on or after since, ordered by creation time.
	ListCategoryExpensesSince(ctx context.Context, userID, category string, since civil.Date) ([]*Transaction, error)

	// DeleteTransaction removes one entry. Deleting an entry that does not
	// exist is not an error.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// GoalRepository provides goal persistence.
type GoalRepository interface {
	InsertGoal(ctx context.Context, goal *Goal) error

	// ListGoals returns every goal for one identity ordered by creation
	// time ascending.
	ListGoals(ctx context.Context, userID string) ([]*Goal, error)

	// UpdateGoal overwrites the mutable fields (name, target amount,
	// current amount, target date) of an existing goal.
	UpdateGoal(ctx context.Context, goal *Goal) error

	DeleteGoal(ctx context.Context, userID, goalID string) error
}

// TipRepository provides purchase-review suppression persistence.
type TipRepository interface {
	InsertIgnoredTip(ctx context.Context, tip *IgnoredTip) error

	// HasActiveTip reports whether the category has a suppression whose
	// expiry is at or after now.
	HasActiveTip(ctx context.Context, userID, category string, now time.Time) (bool, error)
}

// ProfileRepository provides profile persistence.
type ProfileRepository interface {
	// GetProfile returns ErrNotFound when the identity has no profile row.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
}

// SessionRepository resolves bearer tokens to identities.
type SessionRepository interface {
	// LookupSession returns the user ID for an unexpired token, or
	// ErrNotFound.
	LookupSession(ctx context.Context, token string, now time.Time) (string, error)
}

// Store aggregates every repository the API server needs.
type Store interface {
	TransactionRepository
	GoalRepository
	TipRepository
	ProfileRepository
	SessionRepository
}
