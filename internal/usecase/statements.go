package usecase

import (
	"budget-reconciler/internal/domain"
)

// BuildStatementPeriods derives one statement period per payment that has an
// older payment after it in payments (most recent first). Each period closes
// offsetDays before its payment and opens one month before that; its accrued
// amount sums every transaction of txs dated inside [open, close].
func BuildStatementPeriods(payments, txs []domain.Transaction, offsetDays int) []domain.StatementPeriod {
	if len(payments) < 2 {
		return nil
	}

	periods := make([]domain.StatementPeriod, 0, len(payments)-1)
	for i := 0; i < len(payments)-1; i++ {
		payment, prev := payments[i], payments[i+1]

		paymentDate := domain.Day(payment.Date)
		closeDate := paymentDate.AddDate(0, 0, -offsetDays)
		openDate := domain.AddMonths(closeDate, -1)

		var charges, credits int64
		for _, tx := range txs {
			if tx.AccountID != "" && payment.AccountID != "" && tx.AccountID != payment.AccountID {
				continue
			}
			day := domain.Day(tx.Date)
			if day.Before(openDate) || day.After(closeDate) {
				continue
			}
			if tx.Amount < 0 {
				charges += tx.Amount
			} else {
				credits += tx.Amount
			}
		}

		accrued := charges + credits
		newBalance := -payment.Amount
		periods = append(periods, domain.StatementPeriod{
			OpenDate:      openDate,
			CloseDate:     closeDate,
			AccruedAmount: accrued,
			NewBalance:    newBalance,
			PrevBalance:   newBalance + (-prev.Amount) + accrued,
			Payment: domain.PaymentRecord{
				Date:   paymentDate,
				Amount: payment.Amount,
			},
		})
	}
	return periods
}
