package assistant

import (
	"context"

	"github.com/shopspring/decimal"
)

// Role tags a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of the chat history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Action is the structured intent the oracle extracted from the
// conversation. Each concrete action carries only the fields its handler
// needs; semantic validation (type tags, required fields) happens in the
// Processor so it can answer with a user-facing message.
type Action interface {
	isAction()
}

// ChatAction carries no side effect; the oracle's reply is relayed as-is.
type ChatAction struct{}

// TransactionAction records an income or expense.
type TransactionAction struct {
	Amount      decimal.Decimal
	Type        string // raw tag from the oracle, must normalize to income/expense
	Category    string
	Description string
	Date        string // "hoje", an ISO date, or free text
}

// CreateGoalAction creates a goal. All four fields must be populated; the
// Processor answers with a clarifying message otherwise.
type CreateGoalAction struct {
	Name         string
	Type         string // "save" unless exactly "invest"
	TargetAmount decimal.Decimal
	TargetDate   string
}

// ContributeToGoalAction adds an amount to an existing goal's progress.
// GoalName may be empty while the oracle is still asking which goal.
type ContributeToGoalAction struct {
	GoalName string
	Amount   decimal.Decimal
}

// EditGoalAction overwrites any combination of a goal's target amount,
// target date and name. Zero values mean "leave unchanged".
type EditGoalAction struct {
	GoalName        string
	NewTargetAmount decimal.Decimal
	NewTargetDate   string
	NewName         string
}

func (ChatAction) isAction()             {}
func (TransactionAction) isAction()      {}
func (CreateGoalAction) isAction()       {}
func (ContributeToGoalAction) isAction() {}
func (EditGoalAction) isAction()         {}

// Interpretation is the oracle's reply: the text shown to the user plus
// the decoded action.
type Interpretation struct {
	Reply  string
	Action Action
}

// Interpreter is the capability boundary to the language model. It can be
// replaced with a deterministic fake in tests.
type Interpreter interface {
	Interpret(ctx context.Context, conversation []Message) (*Interpretation, error)
}
