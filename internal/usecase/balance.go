package usecase

import (
	"context"
	"fmt"

	"budget-reconciler/internal/domain"

	"github.com/shopspring/decimal"
)

// HelperTag marks transactions written by these jobs.
const HelperTag = "#helper-script"

// CategoryRef names a category to ensure before posting an adjustment.
type CategoryRef struct {
	Name   string
	Group  string
	Income bool
}

// BalanceUpdate asks for an account to be brought to NewBalance (major units).
type BalanceUpdate struct {
	Account    domain.Account
	NewBalance decimal.Decimal
	Payee      string
	Category   *CategoryRef
	// Note overrides the default "Update balance to X" text.
	Note string
}

// BalanceUseCase writes adjusting transactions so the ledger matches an
// externally observed balance.
type BalanceUseCase struct {
	base
	ledger Ledger
}

// NewBalanceUseCase creates a new instance of the usecase.
func NewBalanceUseCase(ledger Ledger, options ...Option) *BalanceUseCase {
	return &BalanceUseCase{base: newBase(options), ledger: ledger}
}

// UpdateAccountBalance posts the difference between the requested and recorded
// balance. A helper transaction already posted today is amended instead of
// adding a second one. It returns the posted difference in minor units.
func (uc *BalanceUseCase) UpdateAccountBalance(ctx context.Context, upd BalanceUpdate) (int64, error) {
	current, err := uc.ledger.Balance(ctx, domain.TransactionFilter{AccountID: upd.Account.ID})
	if err != nil {
		return 0, fmt.Errorf("could not get balance: %w", err)
	}
	diff := domain.ToMinorUnits(upd.NewBalance) - current
	if diff == 0 {
		return 0, nil
	}

	note := upd.Note
	if note == "" {
		note = "Update balance to " + upd.NewBalance.String()
	}
	note += " " + HelperTag

	today := uc.today()
	last, err := uc.ledger.Transactions(ctx, domain.TransactionFilter{
		AccountID:     upd.Account.ID,
		To:            today,
		NotesContains: HelperTag,
		Limit:         1,
		Descending:    true,
	})
	if err != nil {
		return 0, fmt.Errorf("could not get last helper transaction: %w", err)
	}

	if len(last) > 0 && domain.Day(last[0].Date).Equal(today) {
		amount := last[0].Amount + diff
		if err := uc.ledger.UpdateTransaction(ctx, last[0].ID, domain.TransactionUpdate{Amount: &amount, Notes: &note}); err != nil {
			return 0, fmt.Errorf("could not update transaction %s: %w", last[0].ID, err)
		}
		return diff, nil
	}

	payeeID, err := uc.ledger.EnsurePayee(ctx, upd.Payee)
	if err != nil {
		return 0, fmt.Errorf("could not ensure payee %q: %w", upd.Payee, err)
	}
	var categoryID string
	if upd.Category != nil {
		groupID, err := uc.ledger.EnsureCategoryGroup(ctx, upd.Category.Group)
		if err != nil {
			return 0, fmt.Errorf("could not ensure category group %q: %w", upd.Category.Group, err)
		}
		categoryID, err = uc.ledger.EnsureCategory(ctx, upd.Category.Name, groupID, upd.Category.Income)
		if err != nil {
			return 0, fmt.Errorf("could not ensure category %q: %w", upd.Category.Name, err)
		}
	}

	_, err = uc.ledger.ImportTransaction(ctx, upd.Account.ID, domain.NewTransaction{
		Date:       today,
		Amount:     diff,
		PayeeID:    payeeID,
		CategoryID: categoryID,
		Notes:      note,
		Cleared:    true,
	})
	if err != nil {
		return 0, fmt.Errorf("could not import adjustment: %w", err)
	}
	return diff, nil
}
