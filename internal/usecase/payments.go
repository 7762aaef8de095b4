package usecase

import (
	"context"
	"fmt"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/notes"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PaymentOptions configures statement cycle inference.
type PaymentOptions struct {
	CategoryName      string
	CategoryGroup     string
	LinkedAccountID   string
	LookbackDays      int
	StaleDays         int
	PaymentHistory    int
	ApproximateWindow int
}

// DefaultPaymentOptions mirrors the ledger layout the jobs were written for.
func DefaultPaymentOptions() PaymentOptions {
	return PaymentOptions{
		CategoryName:   "💳 Credit Card Payment",
		CategoryGroup:  "Transfers",
		LookbackDays:   90,
		StaleDays:      DefaultStaleDays,
		PaymentHistory: 6,
	}
}

// PaymentUseCase predicts the next credit-card statement due date and amount,
// and keeps a schedule and rule per card in sync with that prediction.
type PaymentUseCase struct {
	base
	ledger Ledger
	notes  NoteStore
	opts   PaymentOptions
}

// NewPaymentUseCase creates a new instance of the usecase.
func NewPaymentUseCase(ledger Ledger, store NoteStore, opts PaymentOptions, options ...Option) *PaymentUseCase {
	return &PaymentUseCase{base: newBase(options), ledger: ledger, notes: store, opts: opts}
}

// ScheduleName is the deterministic schedule name for an account.
func ScheduleName(accountName string) string {
	return "CC Statement Due for " + accountName
}

// PayeeName is the payee assigned to statement payments of an account.
func PayeeName(accountName string) string {
	return "CC Payment for " + accountName
}

// CalcPayments processes accounts one at a time. A failing account is recorded
// in the report and does not stop the others.
func (uc *PaymentUseCase) CalcPayments(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error) {
	report := &domain.RunReport{ID: uuid.NewString(), Job: "calcPayments", StartedAt: uc.now().UTC()}

	categoryID, err := uc.paymentCategory(ctx)
	if err != nil {
		report.FinishedAt = uc.now().UTC()
		return report, err
	}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome := uc.calcAccount(ctx, account, categoryID)
		if outcome.Status == domain.StatusFailed {
			uc.accountLog(account).WithField("error", outcome.Reason).Error("payment prediction failed")
		}
		report.Add(outcome)
	}

	report.FinishedAt = uc.now().UTC()
	return report, nil
}

func (uc *PaymentUseCase) paymentCategory(ctx context.Context) (string, error) {
	groupID, err := uc.ledger.EnsureCategoryGroup(ctx, uc.opts.CategoryGroup)
	if err != nil {
		return "", fmt.Errorf("could not ensure category group %q: %w", uc.opts.CategoryGroup, err)
	}
	categoryID, err := uc.ledger.EnsureCategory(ctx, uc.opts.CategoryName, groupID, false)
	if err != nil {
		return "", fmt.Errorf("could not ensure category %q: %w", uc.opts.CategoryName, err)
	}
	return categoryID, nil
}

func (uc *PaymentUseCase) calcAccount(ctx context.Context, account domain.Account, categoryID string) domain.AccountOutcome {
	log := uc.accountLog(account)

	if account.OffBudget {
		return domain.Skipped(account, "off budget")
	}
	balance, err := uc.ledger.Balance(ctx, domain.TransactionFilter{AccountID: account.ID})
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get balance: %w", err))
	}
	if balance >= 0 {
		return domain.Skipped(account, "no outstanding balance")
	}

	payments, err := uc.ledger.Transactions(ctx, domain.TransactionFilter{
		AccountID:  account.ID,
		CategoryID: categoryID,
		Limit:      uc.opts.PaymentHistory,
		Descending: true,
	})
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get payments: %w", err))
	}
	if len(payments) == 0 {
		return domain.Skipped(account, "no last payment")
	}
	if len(payments) < 2 {
		return domain.Skipped(account, "insufficient history")
	}

	note, err := uc.notes.Note(ctx, account.NoteID())
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get account note: %w", err))
	}
	stmtCfg, err := notes.ParseStatementConfig(note)
	if err != nil {
		return domain.Failed(account, err)
	}

	last := payments[0]
	lastDate := domain.Day(last.Date)
	today := uc.today()
	windowStart := lastDate.AddDate(0, 0, -uc.opts.LookbackDays)

	historyStart := windowStart
	oldestClose := domain.Day(payments[len(payments)-2].Date).AddDate(0, 0, -stmtCfg.CloseOffsetDays)
	if oldestOpen := domain.AddMonths(oldestClose, -1); oldestOpen.Before(historyStart) {
		historyStart = oldestOpen
	}
	history, err := uc.ledger.Transactions(ctx, domain.TransactionFilter{
		AccountID: account.ID,
		From:      historyStart,
		To:        today,
	})
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get transactions: %w", err))
	}
	history = Chronological(history)
	statements := BuildStatementPeriods(payments, history, stmtCfg.CloseOffsetDays)

	window := make([]domain.Transaction, 0, len(history))
	for _, tx := range history {
		if !domain.Day(tx.Date).Before(windowStart) {
			window = append(window, tx)
		}
	}

	target := -last.Amount
	seq, ok := FindConsecutiveSequence(window, target, categoryID, lastDate, uc.opts.StaleDays)
	if !ok {
		uc.logClosest(log, window, target, categoryID)
		return domain.Skipped(account, "no exact match")
	}

	dueStart := domain.Day(window[seq.End].Date)
	dueDate := NextDueDate(lastDate, today)
	dueBalance, err := uc.ledger.Balance(ctx, domain.TransactionFilter{
		AccountID:         account.ID,
		ExcludeCategoryID: categoryID,
		From:              dueStart.AddDate(0, 0, 1),
		To:                dueDate.AddDate(0, 0, -1),
	})
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get due balance: %w", err))
	}

	log.WithFields(logrus.Fields{
		"balance_due": domain.FromMinorUnits(dueBalance).StringFixed(2),
		"due_date":    domain.FormatDate(dueDate),
	}).Info("statement due")

	scheduleID, err := uc.ensureSchedule(ctx, account, dueDate, dueBalance)
	if err != nil {
		return domain.Failed(account, err)
	}
	if err := uc.fixScheduleRule(ctx, account, scheduleID, categoryID); err != nil {
		return domain.Failed(account, err)
	}

	outcome := domain.Updated(account)
	outcome.Balance = &balance
	outcome.Prediction = &domain.Prediction{
		DueDate:    dueDate,
		DueBalance: dueBalance,
		ScheduleID: scheduleID,
		Statements: statements,
	}
	return outcome
}

func (uc *PaymentUseCase) logClosest(log logrus.FieldLogger, window []domain.Transaction, target int64, categoryID string) {
	if uc.opts.ApproximateWindow <= 0 {
		return
	}
	charges := make([]domain.Transaction, 0, len(window))
	for _, tx := range window {
		if tx.CategoryID != categoryID {
			charges = append(charges, tx)
		}
	}
	best, ok := ClosestSubset(charges, target, uc.opts.ApproximateWindow)
	if !ok {
		return
	}
	log.WithFields(logrus.Fields{
		"closest":      domain.FromMinorUnits(best.Sum).StringFixed(2),
		"target":       domain.FromMinorUnits(target).StringFixed(2),
		"transactions": len(best.Indices),
	}).Info("no exact statement match, closest combination")
}
