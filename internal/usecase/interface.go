package usecase

import (
	"context"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/notes"

	"github.com/shopspring/decimal"
)

// Ledger is the budgeting ledger the jobs reconcile against.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_interface.go -source=interface.go
type Ledger interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
	// Balance sums the amounts of every transaction matching filter.
	Balance(ctx context.Context, filter domain.TransactionFilter) (int64, error)
	Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	EnsurePayee(ctx context.Context, name string) (string, error)
	EnsureCategoryGroup(ctx context.Context, name string) (string, error)
	EnsureCategory(ctx context.Context, name, groupID string, income bool) (string, error)

	SchedulesByName(ctx context.Context, name string) ([]domain.Schedule, error)
	Schedule(ctx context.Context, id string) (domain.Schedule, error)
	CreateSchedule(ctx context.Context, s domain.Schedule) (string, error)
	UpdateSchedule(ctx context.Context, s domain.Schedule) (string, error)
	Rules(ctx context.Context) ([]domain.Rule, error)
	UpdateRule(ctx context.Context, r domain.Rule) error

	ImportTransaction(ctx context.Context, accountID string, tx domain.NewTransaction) (string, error)
	UpdateTransaction(ctx context.Context, id string, upd domain.TransactionUpdate) error
	RunBankSync(ctx context.Context) error
}

// NoteStore reads and writes free-text notes by id.
type NoteStore interface {
	Note(ctx context.Context, id string) (string, error)
	SetNote(ctx context.Context, id, note string) error
}

// BankBalances fetches externally reported account balances.
type BankBalances interface {
	Account(ctx context.Context, id string) (domain.ExternalBalance, error)
}

// VehiclePricer values a vehicle in whole dollars.
type VehiclePricer interface {
	Price(ctx context.Context, cfg notes.VehicleConfig) (int64, error)
}

// ValidatorBalances returns finalized balances in gwei keyed by validator index.
type ValidatorBalances interface {
	ValidatorBalances(ctx context.Context, indices []string) (map[string]decimal.Decimal, error)
}

// WalletBalances returns an address balance in wei.
type WalletBalances interface {
	WalletBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// PriceSource returns the USD price of one unit of symbol.
type PriceSource interface {
	USDPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
