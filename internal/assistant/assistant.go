package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rosanasant/financas-backend/internal/finance"
)

// User-facing replies, kept in Portuguese like the rest of the product.
const (
	MsgGenericFailure  = "Desculpe, tive um problema ao processar sua mensagem. Pode tentar de novo?"
	msgInvalidTxType   = "Desculpe, tive um problema ao processar o tipo da transação. Pode tentar novamente?"
	msgTxSaveFailed    = "Desculpe, não consegui salvar a transação. Pode tentar de novo?"
	msgGoalMissingInfo = "Ops! Parece que faltam algumas informações para criar a meta. Pode tentar novamente?"
	msgGoalSaveFailed  = "Desculpe, não consegui criar a meta. Pode tentar de novo?"
	msgGoalUpdateFail  = "Desculpe, não consegui atualizar a meta. Tente novamente."
	msgNothingToUpdate = "Não encontrei nenhuma informação para atualizar na meta. Pode repetir o que você quer mudar?"
	msgWhichGoal       = "Qual meta você gostaria de alterar?"
	msgGoalFallback    = "Meta atualizada com sucesso!"
)

const (
	// reviewWindowDays is the lookback for the purchase-review baseline.
	reviewWindowDays = 30

	dateLayout = "2006-01-02"
)

// Store is the persistence surface the processor needs.
type Store interface {
	finance.TransactionRepository
	finance.GoalRepository
	finance.TipRepository
}

// ProcessError carries the Portuguese apology shown to the user alongside
// the underlying failure. It marks transport/store errors (HTTP 500);
// semantic problems with the oracle's payload answer with 200 instead.
type ProcessError struct {
	UserMessage string
	Err         error
}

func (e *ProcessError) Error() string { return e.Err.Error() }
func (e *ProcessError) Unwrap() error { return e.Err }

// PurchaseReviewResult is the advisory payload attached to a chat
// response. SuggestedSavings is rounded at this boundary.
type PurchaseReviewResult struct {
	Category         string  `json:"category"`
	SuggestedSavings float64 `json:"suggestedSavings"`
	GoalName         *string `json:"goalName"`
}

// Result is the response envelope of the intent endpoint.
type Result struct {
	Response           string                `json:"response"`
	TransactionCreated bool                  `json:"transactionCreated"`
	GoalCreated        bool                  `json:"goalCreated"`
	GoalUpdated        bool                  `json:"goalUpdated"`
	PurchaseReview     *PurchaseReviewResult `json:"purchaseReview"`
}

// Processor turns a conversation into an oracle call plus at most one
// store mutation. It holds no per-request state.
type Processor struct {
	store       Store
	interpreter Interpreter
	log         zerolog.Logger
	now         func() time.Time
}

// NewProcessor creates a Processor.
func NewProcessor(store Store, interpreter Interpreter, log zerolog.Logger) *Processor {
	return &Processor{
		store:       store,
		interpreter: interpreter,
		log:         log,
		now:         time.Now,
	}
}

// ProcessMessage runs one chat turn: interpret the conversation, apply
// the extracted action, and assemble the reply. Semantic problems with
// the extracted action produce a clarifying Result and a nil error;
// oracle or store failures return a *ProcessError.
func (p *Processor) ProcessMessage(ctx context.Context, userID string, conversation []Message) (*Result, error) {
	interp, err := p.interpreter.Interpret(ctx, conversation)
	if err != nil {
		return nil, &ProcessError{UserMessage: MsgGenericFailure, Err: err}
	}

	res := &Result{Response: interp.Reply}

	switch a := interp.Action.(type) {
	case TransactionAction:
		err = p.handleTransaction(ctx, userID, a, res)
	case CreateGoalAction:
		err = p.handleCreateGoal(ctx, userID, a, res)
	case ContributeToGoalAction:
		err = p.handleContribute(ctx, userID, a, res)
	case EditGoalAction:
		err = p.handleEdit(ctx, userID, a, res)
	case ChatAction:
		// Plain chat: relay the reply verbatim.
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (p *Processor) handleTransaction(ctx context.Context, userID string, a TransactionAction, res *Result) error {
	txType := finance.TransactionType(strings.ToLower(strings.TrimSpace(a.Type)))
	if txType != finance.TransactionIncome && txType != finance.TransactionExpense {
		p.log.Warn().Str("type", a.Type).Msg("Rejected transaction with invalid type")
		res.Response = msgInvalidTxType
		return nil
	}

	category := strings.TrimSpace(a.Category)
	if category == "" {
		category = finance.DefaultCategory
	}

	now := p.now()
	tx := &finance.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      a.Amount,
		Type:        txType,
		Category:    category,
		Description: strings.TrimSpace(a.Description),
		Date:        p.resolveTransactionDate(a.Date, now),
		CreatedAt:   now,
	}

	if err := p.store.InsertTransaction(ctx, tx); err != nil {
		return &ProcessError{UserMessage: msgTxSaveFailed, Err: fmt.Errorf("insert transaction: %w", err)}
	}
	res.TransactionCreated = true

	if txType == finance.TransactionExpense {
		p.reviewExpense(ctx, userID, tx, res)
	}

	return nil
}

// resolveTransactionDate maps "hoje" (and anything unparseable) to today;
// everything else is taken as a literal ISO date.
func (p *Processor) resolveTransactionDate(raw string, now time.Time) civil.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "hoje") {
		return civil.DateOf(now)
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		p.log.Warn().Str("date", raw).Msg("Unparseable transaction date, falling back to today")
		return civil.DateOf(now)
	}
	return d
}

// reviewExpense runs the purchase-review advisory after an expense
// insert. The advisory is best effort: read failures are logged and the
// already-committed transaction response goes out without it.
func (p *Processor) reviewExpense(ctx context.Context, userID string, tx *finance.Transaction, res *Result) {
	now := p.now()

	suppressed, err := p.store.HasActiveTip(ctx, userID, tx.Category, now)
	if err != nil {
		p.log.Warn().Err(err).Str("category", tx.Category).Msg("Purchase review: suppression check failed")
		return
	}
	if suppressed {
		return
	}

	since := civil.DateOf(now).AddDays(-reviewWindowDays)
	recent, err := p.store.ListCategoryExpensesSince(ctx, userID, tx.Category, since)
	if err != nil {
		p.log.Warn().Err(err).Str("category", tx.Category).Msg("Purchase review: window query failed")
		return
	}

	review := finance.ReviewPurchase(tx, recent, p.latestGoalName(ctx, userID))
	if review == nil {
		return
	}

	goalMention := " suas metas"
	var goalName *string
	if review.GoalName != "" {
		goalMention = fmt.Sprintf(" sua meta '%s'", review.GoalName)
		name := review.GoalName
		goalName = &name
	}

	savings := review.SuggestedSavings.Round(2)
	res.Response = fmt.Sprintf(
		"%s\n\n💡 Vi que este gasto foi um pouco maior que o habitual. Se você pudesse reduzir 20%% disso na próxima vez, estaria R$ %s mais perto de%s.",
		res.Response, savings.StringFixed(2), goalMention,
	)
	res.PurchaseReview = &PurchaseReviewResult{
		Category:         review.Category,
		SuggestedSavings: savings.InexactFloat64(),
		GoalName:         goalName,
	}

	p.log.Info().
		Str("category", review.Category).
		Str("suggested_savings", savings.String()).
		Msg("Purchase review triggered")
}

// latestGoalName returns the most recently created goal's name, or "".
func (p *Processor) latestGoalName(ctx context.Context, userID string) string {
	goals, err := p.store.ListGoals(ctx, userID)
	if err != nil {
		p.log.Warn().Err(err).Msg("Purchase review: goal lookup failed")
		return ""
	}
	if len(goals) == 0 {
		return ""
	}
	return goals[len(goals)-1].Name
}

func (p *Processor) handleCreateGoal(ctx context.Context, userID string, a CreateGoalAction, res *Result) error {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Type) == "" ||
		!a.TargetAmount.IsPositive() || strings.TrimSpace(a.TargetDate) == "" {
		p.log.Warn().Msg("Rejected goal creation with missing fields")
		res.Response = msgGoalMissingInfo
		return nil
	}

	goalType := finance.GoalSave
	if strings.TrimSpace(a.Type) == string(finance.GoalInvest) {
		goalType = finance.GoalInvest
	}

	now := p.now()
	goal := &finance.Goal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          strings.TrimSpace(a.Name),
		Type:          goalType,
		TargetAmount:  a.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    p.resolveTargetDate(a.TargetDate, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := p.store.InsertGoal(ctx, goal); err != nil {
		return &ProcessError{UserMessage: msgGoalSaveFailed, Err: fmt.Errorf("insert goal: %w", err)}
	}
	res.GoalCreated = true

	return nil
}

// resolveTargetDate parses an ISO target date. A value the oracle could
// not normalize ("dezembro") falls back to three months from now.
func (p *Processor) resolveTargetDate(raw string, now time.Time) civil.Date {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "-") {
		if d, err := civil.ParseDate(raw); err == nil {
			return d
		}
	}
	return civil.DateOf(now.AddDate(0, 3, 0))
}

func (p *Processor) handleContribute(ctx context.Context, userID string, a ContributeToGoalAction, res *Result) error {
	if strings.TrimSpace(a.GoalName) == "" {
		// The oracle is still asking which goal; relay its question.
		if res.Response == "" {
			res.Response = msgWhichGoal
		}
		return nil
	}

	goal, ok := p.findGoal(ctx, userID, a.GoalName, res)
	if !ok {
		return nil
	}

	newTotal := goal.CurrentAmount.Add(a.Amount)
	goal.CurrentAmount = newTotal
	goal.UpdatedAt = p.now()

	if err := p.store.UpdateGoal(ctx, goal); err != nil {
		return &ProcessError{UserMessage: msgGoalUpdateFail, Err: fmt.Errorf("update goal: %w", err)}
	}
	res.GoalUpdated = true

	progress := "0"
	if goal.TargetAmount.IsPositive() {
		progress = newTotal.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).String()
	}

	base := res.Response
	if base == "" {
		base = msgGoalFallback
	}
	res.Response = fmt.Sprintf("%s Agora você já tem R$ %s (%s%% da meta)! 🎯",
		base, newTotal.StringFixed(2), progress)

	return nil
}

func (p *Processor) handleEdit(ctx context.Context, userID string, a EditGoalAction, res *Result) error {
	if strings.TrimSpace(a.GoalName) == "" {
		if res.Response == "" {
			res.Response = msgWhichGoal
		}
		return nil
	}

	goal, ok := p.findGoal(ctx, userID, a.GoalName, res)
	if !ok {
		return nil
	}

	var changes strings.Builder

	if a.NewTargetAmount.IsPositive() {
		goal.TargetAmount = a.NewTargetAmount
		fmt.Fprintf(&changes, " O novo valor-alvo da meta foi ajustado para R$ %s.", a.NewTargetAmount.StringFixed(2))
	}
	if raw := strings.TrimSpace(a.NewTargetDate); raw != "" {
		if d, err := civil.ParseDate(raw); err == nil {
			goal.TargetDate = d
			fmt.Fprintf(&changes, " A data alvo da meta foi atualizada para %s.", d)
		} else {
			p.log.Warn().Str("date", raw).Msg("Ignoring unparseable goal target date")
		}
	}
	if name := strings.TrimSpace(a.NewName); name != "" {
		goal.Name = name
		fmt.Fprintf(&changes, " O nome da meta agora é %q.", name)
	}

	if changes.Len() == 0 {
		res.Response = msgNothingToUpdate
		return nil
	}

	goal.UpdatedAt = p.now()
	if err := p.store.UpdateGoal(ctx, goal); err != nil {
		return &ProcessError{UserMessage: msgGoalUpdateFail, Err: fmt.Errorf("update goal: %w", err)}
	}
	res.GoalUpdated = true

	base := res.Response
	if base == "" {
		base = msgGoalFallback
	}
	res.Response = base + changes.String()

	return nil
}

// findGoal resolves a goal-name hint for the identity. On lookup failure
// or no match it fills the "not found" reply and returns ok=false.
func (p *Processor) findGoal(ctx context.Context, userID, hint string, res *Result) (*finance.Goal, bool) {
	goals, err := p.store.ListGoals(ctx, userID)
	if err != nil {
		p.log.Error().Err(err).Msg("Goal lookup failed")
		goals = nil
	}

	if goal := matchGoalByName(goals, hint); goal != nil {
		return goal, true
	}

	res.Response = fmt.Sprintf("Hmm, não encontrei uma meta com o nome %q. Pode verificar o nome e tentar novamente?", hint)
	return nil, false
}

// matchGoalByName finds the first goal (creation order) whose name
// contains the hint, case-insensitively.
func matchGoalByName(goals []*finance.Goal, hint string) *finance.Goal {
	needle := strings.ToLower(strings.TrimSpace(hint))
	if needle == "" {
		return nil
	}
	for _, g := range goals {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			return g
		}
	}
	return nil
}
