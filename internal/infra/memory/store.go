// Package memory is an in-process implementation of the finance store.
// It backs tests and local development (USE_MEMORY_STORE=true) where a
// BigQuery dataset is not available.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// Store keeps all records in maps guarded by one mutex. Safe for
// concurrent use.
type Store struct {
	mu           sync.Mutex
	transactions map[string]*finance.Transaction
	goals        map[string]*finance.Goal
	tips         []*finance.IgnoredTip
	profiles     map[string]*finance.Profile
	sessions     map[string]*finance.Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]*finance.Transaction),
		goals:        make(map[string]*finance.Goal),
		profiles:     make(map[string]*finance.Profile),
		sessions:     make(map[string]*finance.Session),
	}
}

var _ finance.Store = (*Store)(nil)

func (s *Store) InsertTransaction(_ context.Context, tx *finance.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tx
	s.transactions[tx.ID] = &cp
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]*finance.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*finance.Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) ListCategoryExpensesSince(_ context.Context, userID, category string, since civil.Date) ([]*finance.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*finance.Transaction
	for _, tx := range s.transactions {
		if tx.UserID != userID || tx.Type != finance.TransactionExpense {
			continue
		}
		if !strings.EqualFold(tx.Category, category) || tx.Date.Before(since) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx, ok := s.transactions[transactionID]; ok && tx.UserID == userID {
		delete(s.transactions, transactionID)
	}
	return nil
}

func (s *Store) InsertGoal(_ context.Context, goal *finance.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *goal
	s.goals[goal.ID] = &cp
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]*finance.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*finance.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, goal *finance.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return finance.ErrNotFound
	}
	cp := *goal
	cp.CreatedAt = existing.CreatedAt
	s.goals[goal.ID] = &cp
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.goals[goalID]; ok && g.UserID == userID {
		delete(s.goals, goalID)
	}
	return nil
}

func (s *Store) InsertIgnoredTip(_ context.Context, tip *finance.IgnoredTip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tip
	s.tips = append(s.tips, &cp)
	return nil
}

func (s *Store) HasActiveTip(_ context.Context, userID, category string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tips {
		if t.UserID == userID && strings.EqualFold(t.Category, category) && !t.IgnoredUntil.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetProfile(_ context.Context, userID string) (*finance.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, finance.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) UpsertProfile(_ context.Context, profile *finance.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *profile
	s.profiles[profile.UserID] = &cp
	return nil
}

func (s *Store) LookupSession(_ context.Context, token string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || !sess.ExpiresAt.After(now) {
		return "", finance.ErrNotFound
	}
	return sess.UserID, nil
}

// AddSession registers a bearer token. Used by tests and local setups.
func (s *Store) AddSession(sess *finance.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	s.sessions[sess.Token] = &cp
}
