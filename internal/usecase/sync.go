package usecase

import (
	"context"
	"fmt"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/notes"

	"github.com/google/uuid"
)

// SyncUseCase copies bank-reported balances into the ledger.
type SyncUseCase struct {
	base
	ledger   Ledger
	notes    NoteStore
	bank     BankBalances
	balances *BalanceUseCase
}

// NewSyncUseCase creates a new instance of the usecase.
func NewSyncUseCase(ledger Ledger, store NoteStore, bank BankBalances, balances *BalanceUseCase, options ...Option) *SyncUseCase {
	return &SyncUseCase{base: newBase(options), ledger: ledger, notes: store, bank: bank, balances: balances}
}

// RunBankSync asks the ledger to pull from its linked banks. Failures are
// logged and swallowed; the balance sync still runs on whatever is recorded.
func (uc *SyncUseCase) RunBankSync(ctx context.Context) {
	if err := uc.ledger.RunBankSync(ctx); err != nil {
		uc.log.WithError(err).Warn("bank sync failed")
	}
}

// SyncBalances adjusts every open account tagged sync:<kind> to its SimpleFIN balance.
func (uc *SyncUseCase) SyncBalances(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error) {
	report := &domain.RunReport{ID: uuid.NewString(), Job: "syncBalance", StartedAt: uc.now().UTC()}
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome := uc.syncAccount(ctx, account)
		if outcome.Status == domain.StatusFailed {
			uc.accountLog(account).WithField("error", outcome.Reason).Error("balance sync failed")
		}
		report.Add(outcome)
	}
	report.FinishedAt = uc.now().UTC()
	return report, nil
}

func (uc *SyncUseCase) syncAccount(ctx context.Context, account domain.Account) domain.AccountOutcome {
	if account.Closed {
		return domain.Skipped(account, "closed")
	}
	note, err := uc.notes.Note(ctx, account.NoteID())
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get account note: %w", err))
	}
	cfg, ok := notes.ParseSyncConfig(note)
	if !ok {
		return domain.Skipped(account, "no sync tag")
	}
	if account.SyncSource != domain.SyncSourceSimpleFIN || account.SyncAccountID == "" {
		return domain.Skipped(account, "not linked to simplefin")
	}

	remote, err := uc.bank.Account(ctx, account.SyncAccountID)
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not fetch simplefin account: %w", err))
	}
	if domain.Day(remote.BalanceDate).Before(uc.today()) {
		return domain.Skipped(account, "bank balance not updated today")
	}

	uc.accountLog(account).WithField("kind", cfg.Kind).Info("syncing balance")
	diff, err := uc.balances.UpdateAccountBalance(ctx, BalanceUpdate{
		Account:    account,
		NewBalance: remote.Balance,
		Payee:      "Balance Adjustment",
	})
	if err != nil {
		return domain.Failed(account, err)
	}
	outcome := domain.Updated(account)
	outcome.Adjustment = &diff
	return outcome
}
