package domain

import "time"

// Transaction is a single ledger entry. Amount is in minor currency units.
type Transaction struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account"`
	Date       time.Time `json:"date"`
	Amount     int64     `json:"amount"`
	CategoryID string    `json:"category,omitempty"`
	PayeeID    string    `json:"payee,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Cleared    bool      `json:"cleared"`
}

// Account is a ledger account. Its configuration lives in the account note.
type Account struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OffBudget     bool   `json:"offbudget"`
	Closed        bool   `json:"closed"`
	SyncSource    string `json:"account_sync_source,omitempty"`
	SyncAccountID string `json:"account_id,omitempty"`
}

// SyncSourceSimpleFIN marks accounts linked to the SimpleFIN bridge.
const SyncSourceSimpleFIN = "simpleFin"

// NoteID returns the id the account note is stored under.
func (a Account) NoteID() string {
	return "account-" + a.ID
}

// TransactionFilter narrows ledger transaction queries.
// From and To are inclusive calendar days; a zero value leaves that side unbounded.
type TransactionFilter struct {
	AccountID         string
	CategoryID        string
	ExcludeCategoryID string
	From              time.Time
	To                time.Time
	NotesContains     string
	Limit             int
	Descending        bool
}

// Matches reports whether tx satisfies the filter, ignoring Limit and ordering.
func (f TransactionFilter) Matches(tx Transaction) bool {
	if f.AccountID != "" && tx.AccountID != f.AccountID {
		return false
	}
	if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
		return false
	}
	if f.ExcludeCategoryID != "" && tx.CategoryID == f.ExcludeCategoryID {
		return false
	}
	day := Day(tx.Date)
	if !f.From.IsZero() && day.Before(Day(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(Day(f.To)) {
		return false
	}
	if f.NotesContains != "" && !containsFold(tx.Notes, f.NotesContains) {
		return false
	}
	return true
}

// NewTransaction carries the fields of a transaction to be imported.
type NewTransaction struct {
	Date       time.Time
	Amount     int64
	PayeeID    string
	CategoryID string
	Notes      string
	Cleared    bool
	// ImportedID deduplicates repeated imports of the same external row.
	ImportedID string
}

// ImportRow is one row of a transaction export. Category is a category name.
type ImportRow struct {
	ID       string
	Date     time.Time
	Amount   int64
	Category string
	Notes    string
}

// TransactionUpdate is a partial update of an existing transaction.
type TransactionUpdate struct {
	Amount *int64
	Notes  *string
}
