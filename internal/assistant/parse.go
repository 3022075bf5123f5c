package assistant

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// oracleReply is the wire shape the system prompt demands.
type oracleReply struct {
	Response string          `json:"response"`
	Action   string          `json:"action"`
	Data     json.RawMessage `json:"data"`
}

// flexNumber decodes a JSON number that the model may emit as a number,
// a numeric string, or null.
type flexNumber struct {
	decimal.Decimal
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		f.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		f.Decimal = decimal.Zero
		return nil
	}
	f.Decimal = d
	return nil
}

// decodeReply turns the oracle's raw text into an Interpretation. A reply
// that is not the expected JSON object is downgraded to a plain chat
// message carrying the raw text; that downgrade is not an error.
func decodeReply(raw string) *Interpretation {
	clean := stripCodeFence(raw)

	var rep oracleReply
	if err := json.Unmarshal([]byte(clean), &rep); err != nil || rep.Response == "" {
		return &Interpretation{Reply: strings.TrimSpace(raw), Action: ChatAction{}}
	}

	return &Interpretation{Reply: rep.Response, Action: decodeAction(rep.Action, rep.Data)}
}

func decodeAction(tag string, data json.RawMessage) Action {
	if len(data) == 0 || string(data) == "null" {
		return ChatAction{}
	}

	switch tag {
	case "transaction":
		var d struct {
			Amount      flexNumber `json:"amount"`
			Type        string     `json:"type"`
			Category    string     `json:"category"`
			Description string     `json:"description"`
			Date        string     `json:"date"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return ChatAction{}
		}
		return TransactionAction{
			Amount:      d.Amount.Decimal,
			Type:        d.Type,
			Category:    d.Category,
			Description: d.Description,
			Date:        d.Date,
		}

	case "create_goal":
		var d struct {
			Name         string     `json:"name"`
			Type         string     `json:"type"`
			TargetAmount flexNumber `json:"targetAmount"`
			TargetDate   string     `json:"targetDate"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return ChatAction{}
		}
		return CreateGoalAction{
			Name:         d.Name,
			Type:         d.Type,
			TargetAmount: d.TargetAmount.Decimal,
			TargetDate:   d.TargetDate,
		}

	case "update_goal":
		var d struct {
			Amount          flexNumber `json:"amount"`
			GoalName        string     `json:"goalName"`
			NewTargetAmount flexNumber `json:"newTargetAmount"`
			NewTargetDate   string     `json:"newTargetDate"`
			NewName         string     `json:"newName"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return ChatAction{}
		}
		// A populated contribution amount wins over edit fields; the two
		// intents are mutually exclusive per call.
		if d.Amount.Decimal.IsPositive() {
			return ContributeToGoalAction{GoalName: d.GoalName, Amount: d.Amount.Decimal}
		}
		return EditGoalAction{
			GoalName:        d.GoalName,
			NewTargetAmount: d.NewTargetAmount.Decimal,
			NewTargetDate:   d.NewTargetDate,
			NewName:         d.NewName,
		}
	}

	return ChatAction{}
}

// stripCodeFence removes an optional ```json / ``` wrapper and keeps only
// the outermost JSON object when the model wrapped it in extra prose.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
