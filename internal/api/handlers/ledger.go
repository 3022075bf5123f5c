package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rosanasant/financas-backend/internal/api/middleware"
	"github.com/rosanasant/financas-backend/internal/finance"
)

// tipIgnoreDuration is how long a dismissed purchase-review tip stays
// suppressed for its category.
const tipIgnoreDuration = 7 * 24 * time.Hour

// TransactionsHandler serves the ledger view.
type TransactionsHandler struct {
	repo finance.TransactionRepository
	log  zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo finance.TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{repo: repo, log: log}
}

type transactionDTO struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
}

func toTransactionDTO(tx *finance.Transaction) transactionDTO {
	return transactionDTO{
		ID:          tx.ID,
		Amount:      tx.Amount.Round(2).InexactFloat64(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.String(),
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	entries, err := h.repo.ListTransactions(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	// Return array directly for frontend compatibility
	out := make([]transactionDTO, 0, len(entries))
	for _, tx := range entries {
		out = append(out, toTransactionDTO(tx))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, transactionID string) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	if err := h.repo.DeleteTransaction(ctx, userID, transactionID); err != nil {
		h.log.Error().Err(err).Str("transaction_id", transactionID).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GoalsHandler serves the goals view.
type GoalsHandler struct {
	repo finance.GoalRepository
	log  zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(repo finance.GoalRepository, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{repo: repo, log: log}
}

type goalDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	TargetDate    string  `json:"targetDate"`
	CreatedAt     string  `json:"createdAt"`
}

func toGoalDTO(g *finance.Goal) goalDTO {
	return goalDTO{
		ID:            g.ID,
		Name:          g.Name,
		Type:          string(g.Type),
		TargetAmount:  g.TargetAmount.Round(2).InexactFloat64(),
		CurrentAmount: g.CurrentAmount.Round(2).InexactFloat64(),
		TargetDate:    g.TargetDate.String(),
		CreatedAt:     g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListGoals handles GET /api/goals
func (h *GoalsHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	goals, err := h.repo.ListGoals(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goals")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	out := make([]goalDTO, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalDTO(g))
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// DeleteGoal handles DELETE /api/goals/{id}
func (h *GoalsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request, goalID string) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	if err := h.repo.DeleteGoal(ctx, userID, goalID); err != nil {
		h.log.Error().Err(err).Str("goal_id", goalID).Msg("Failed to delete goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// TipsHandler records purchase-review dismissals.
type TipsHandler struct {
	repo finance.TipRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewTipsHandler creates a new tips handler.
func NewTipsHandler(repo finance.TipRepository, log zerolog.Logger) *TipsHandler {
	return &TipsHandler{repo: repo, log: log, now: time.Now}
}

// IgnoreTip handles POST /api/tips/ignore
func (h *TipsHandler) IgnoreTip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" {
		middleware.WriteError(w, http.StatusBadRequest, "category is required")
		return
	}

	now := h.now()
	tip := &finance.IgnoredTip{
		ID:           uuid.NewString(),
		UserID:       userID,
		Category:     req.Category,
		IgnoredUntil: now.Add(tipIgnoreDuration),
		CreatedAt:    now,
	}

	if err := h.repo.InsertIgnoredTip(ctx, tip); err != nil {
		h.log.Error().Err(err).Str("category", req.Category).Msg("Failed to record ignored tip")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to ignore tip")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status":       "ignored",
		"ignoredUntil": tip.IgnoredUntil.UTC().Format(time.RFC3339),
	})
}

// ProfileHandler serves profile reads and updates.
type ProfileHandler struct {
	repo finance.ProfileRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(repo finance.ProfileRepository, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{repo: repo, log: log, now: time.Now}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	profile, err := h.repo.GetProfile(ctx, userID)
	if errors.Is(err, finance.ErrNotFound) {
		// A missing profile is an empty one, not an error.
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"fullName": ""})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"fullName": profile.FullName})
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	var req struct {
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := &finance.Profile{
		UserID:    userID,
		FullName:  req.FullName,
		UpdatedAt: h.now(),
	}
	if err := h.repo.UpsertProfile(ctx, profile); err != nil {
		h.log.Error().Err(err).Msg("Failed to update profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"fullName": profile.FullName})
}
