package domain

import "time"

// ConditionOp is a schedule or rule condition operator.
type ConditionOp string

const (
	OpIs       ConditionOp = "is"
	OpIsApprox ConditionOp = "isapprox"
)

// Recurrence describes a recurring date condition.
type Recurrence struct {
	Frequency string `json:"frequency"`
	Start     string `json:"start"`
	EndMode   string `json:"endMode"`
}

// Condition is one clause of a schedule. Exactly one of the value fields is set,
// depending on Field.
type Condition struct {
	Op         ConditionOp `json:"op"`
	Field      string      `json:"field"`
	Value      string      `json:"value,omitempty"`
	Amount     int64       `json:"amount,omitempty"`
	Recurrence *Recurrence `json:"recurrence,omitempty"`
}

// AccountIs matches the account a scheduled transaction posts to.
func AccountIs(accountID string) Condition {
	return Condition{Op: OpIs, Field: "account", Value: accountID}
}

// MonthlyFrom recurs every month starting at start, never ending.
func MonthlyFrom(start time.Time) Condition {
	return Condition{
		Op:    OpIs,
		Field: "date",
		Recurrence: &Recurrence{
			Frequency: "monthly",
			Start:     FormatDate(start),
			EndMode:   "never",
		},
	}
}

// AmountApprox matches amounts close to amount.
func AmountApprox(amount int64) Condition {
	return Condition{Op: OpIsApprox, Field: "amount", Amount: amount}
}

// Schedule is a recurring expected transaction owned by the ledger.
type Schedule struct {
	ID         string      `json:"id,omitempty"`
	Name       string      `json:"name"`
	RuleID     string      `json:"rule,omitempty"`
	Conditions []Condition `json:"conditions"`
}

// ActionOp tags the variant of a RuleAction.
type ActionOp string

const (
	ActionSet          ActionOp = "set"
	ActionLinkSchedule ActionOp = "link-schedule"
)

// RuleAction is either set(field, value) or link-schedule(value).
type RuleAction struct {
	Op    ActionOp `json:"op"`
	Field string   `json:"field,omitempty"`
	Value string   `json:"value"`
}

// Set assigns value to field on matching transactions.
func Set(field, value string) RuleAction {
	return RuleAction{Op: ActionSet, Field: field, Value: value}
}

// LinkSchedule ties matching transactions to a schedule.
func LinkSchedule(scheduleID string) RuleAction {
	return RuleAction{Op: ActionLinkSchedule, Value: scheduleID}
}

// Rule is a ledger rule with ordered actions.
type Rule struct {
	ID         string       `json:"id"`
	Stage      string       `json:"stage,omitempty"`
	Conditions []Condition  `json:"conditions,omitempty"`
	Actions    []RuleAction `json:"actions"`
}

// MergeActions keeps the first link-schedule action of existing and replaces
// everything else with sets, in order.
func MergeActions(existing []RuleAction, sets ...RuleAction) []RuleAction {
	merged := make([]RuleAction, 0, len(sets)+1)
	for _, a := range existing {
		if a.Op == ActionLinkSchedule {
			merged = append(merged, a)
			break
		}
	}
	for _, a := range sets {
		if a.Op == ActionSet {
			merged = append(merged, a)
		}
	}
	return merged
}
