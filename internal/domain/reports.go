package domain

import "time"

// OutcomeStatus is the result of processing one account in a job.
type OutcomeStatus string

const (
	StatusUpdated OutcomeStatus = "updated"
	StatusSkipped OutcomeStatus = "skipped"
	StatusFailed  OutcomeStatus = "failed"
)

// StatementPeriod is the inferred billing window preceding a payment.
type StatementPeriod struct {
	OpenDate      time.Time     `json:"open_date"`
	CloseDate     time.Time     `json:"close_date"`
	AccruedAmount int64         `json:"accrued_amount"`
	PrevBalance   int64         `json:"prev_balance"`
	NewBalance    int64         `json:"new_balance"`
	Payment       PaymentRecord `json:"payment"`
}

// PaymentRecord is the payment that closed a statement period.
type PaymentRecord struct {
	Date   time.Time `json:"date"`
	Amount int64     `json:"amount"`
}

// Prediction is the next statement due date and amount for a credit account.
type Prediction struct {
	DueDate    time.Time         `json:"due_date"`
	DueBalance int64             `json:"due_balance"`
	ScheduleID string            `json:"schedule_id"`
	Statements []StatementPeriod `json:"statements,omitempty"`
}

// AccountOutcome records what a job did with one account.
type AccountOutcome struct {
	AccountID   string        `json:"account_id"`
	AccountName string        `json:"account_name"`
	Status      OutcomeStatus `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	Balance     *int64        `json:"balance,omitempty"`
	Adjustment  *int64        `json:"adjustment,omitempty"`
	Prediction  *Prediction   `json:"prediction,omitempty"`
}

// RunReport is the top-level record of one job invocation.
type RunReport struct {
	ID         string           `json:"id"`
	Job        string           `json:"job"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Accounts   []AccountOutcome `json:"accounts"`
}

// Add appends an outcome to the report.
func (r *RunReport) Add(o AccountOutcome) {
	r.Accounts = append(r.Accounts, o)
}

// Merge appends the outcomes of other to r.
func (r *RunReport) Merge(other *RunReport) {
	if other == nil {
		return
	}
	r.Accounts = append(r.Accounts, other.Accounts...)
}

// Count returns how many outcomes have the given status.
func (r *RunReport) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Accounts {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Skipped builds a skipped outcome.
func Skipped(a Account, reason string) AccountOutcome {
	return AccountOutcome{AccountID: a.ID, AccountName: a.Name, Status: StatusSkipped, Reason: reason}
}

// Failed builds a failed outcome from err.
func Failed(a Account, err error) AccountOutcome {
	return AccountOutcome{AccountID: a.ID, AccountName: a.Name, Status: StatusFailed, Reason: err.Error()}
}

// Updated builds an updated outcome.
func Updated(a Account) AccountOutcome {
	return AccountOutcome{AccountID: a.ID, AccountName: a.Name, Status: StatusUpdated}
}
