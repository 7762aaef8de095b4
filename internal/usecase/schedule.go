package usecase

import (
	"context"
	"fmt"
	"time"

	"budget-reconciler/internal/domain"
)

// ensureSchedule updates the schedule named after the account, or creates it
// when none exists, and returns its id.
func (uc *PaymentUseCase) ensureSchedule(ctx context.Context, account domain.Account, dueDate time.Time, dueBalance int64) (string, error) {
	name := ScheduleName(account.Name)
	existing, err := uc.ledger.SchedulesByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("could not look up schedule %q: %w", name, err)
	}

	schedule := domain.Schedule{
		Name: name,
		Conditions: []domain.Condition{
			domain.AccountIs(uc.opts.LinkedAccountID),
			domain.MonthlyFrom(dueDate),
			domain.AmountApprox(dueBalance),
		},
	}

	if len(existing) > 0 {
		schedule.ID = existing[0].ID
		schedule.RuleID = existing[0].RuleID
		id, err := uc.ledger.UpdateSchedule(ctx, schedule)
		if err != nil {
			return "", fmt.Errorf("could not update schedule %q: %w", name, err)
		}
		return id, nil
	}

	id, err := uc.ledger.CreateSchedule(ctx, schedule)
	if err != nil {
		return "", fmt.Errorf("could not create schedule %q: %w", name, err)
	}
	return id, nil
}

// fixScheduleRule rewrites the actions of the rule linked to scheduleID so the
// payment lands in the payment category with the account's payee.
func (uc *PaymentUseCase) fixScheduleRule(ctx context.Context, account domain.Account, scheduleID, categoryID string) error {
	schedule, err := uc.ledger.Schedule(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("could not get schedule %s: %w", scheduleID, err)
	}
	rules, err := uc.ledger.Rules(ctx)
	if err != nil {
		return fmt.Errorf("could not get rules: %w", err)
	}

	var rule *domain.Rule
	for i := range rules {
		if rules[i].ID == schedule.RuleID {
			rule = &rules[i]
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("schedule %s rule %q: %w", scheduleID, schedule.RuleID, ErrRuleNotFound)
	}

	payeeID, err := uc.ledger.EnsurePayee(ctx, PayeeName(account.Name))
	if err != nil {
		return fmt.Errorf("could not ensure payee: %w", err)
	}

	rule.Actions = domain.MergeActions(rule.Actions,
		domain.Set("category", categoryID),
		domain.Set("payee", payeeID),
	)
	if err := uc.ledger.UpdateRule(ctx, *rule); err != nil {
		return fmt.Errorf("could not update rule %s: %w", rule.ID, err)
	}
	return nil
}
