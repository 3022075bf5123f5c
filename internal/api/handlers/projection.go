package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rosanasant/financas-backend/internal/api/middleware"
	"github.com/rosanasant/financas-backend/internal/finance"
)

// ProjectionHandler serves the 30-day balance forecast.
type ProjectionHandler struct {
	transactions finance.TransactionRepository
	goals        finance.GoalRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewProjectionHandler creates a new projection handler.
func NewProjectionHandler(transactions finance.TransactionRepository, goals finance.GoalRepository, log zerolog.Logger) *ProjectionHandler {
	return &ProjectionHandler{
		transactions: transactions,
		goals:        goals,
		log:          log,
		now:          time.Now,
	}
}

type projectionDayDTO struct {
	Date     string  `json:"date"`
	Balance  float64 `json:"balance"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type projectionDTO struct {
	CurrentBalance    float64            `json:"currentBalance"`
	RecurringIncome   float64            `json:"recurringIncome"`
	RecurringExpenses float64            `json:"recurringExpenses"`
	GoalSavings       float64            `json:"goalSavings"`
	Projection        []projectionDayDTO `json:"projection"`
}

// GetProjection handles GET /api/projection
func (h *ProjectionHandler) GetProjection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	entries, err := h.transactions.ListTransactions(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute projection")
		return
	}

	goals, err := h.goals.ListGoals(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goals")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute projection")
		return
	}

	proj := finance.ComputeProjection(entries, goals, h.now(), finance.DefaultRecurringParams)

	middleware.WriteJSON(w, http.StatusOK, toProjectionDTO(proj))
}

func toProjectionDTO(proj *finance.Projection) *projectionDTO {
	days := make([]projectionDayDTO, 0, len(proj.Days))
	for _, d := range proj.Days {
		days = append(days, projectionDayDTO{
			Date:     d.Date.String(),
			Balance:  d.Balance.Round(2).InexactFloat64(),
			Income:   d.Income.Round(2).InexactFloat64(),
			Expenses: d.Expenses.Round(2).InexactFloat64(),
		})
	}

	return &projectionDTO{
		CurrentBalance:    proj.CurrentBalance.Round(2).InexactFloat64(),
		RecurringIncome:   proj.RecurringIncome.Round(2).InexactFloat64(),
		RecurringExpenses: proj.RecurringExpenses.Round(2).InexactFloat64(),
		GoalSavings:       proj.GoalSavings.Round(2).InexactFloat64(),
		Projection:        days,
	}
}
