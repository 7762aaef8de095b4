package usecase

import (
	"time"

	"budget-reconciler/internal/domain"
)

// NextDueDate returns the earliest lastPayment + k months (k >= 1) that is not
// before today. Months are added to the original date so end-of-month payments
// do not drift.
func NextDueDate(lastPayment, today time.Time) time.Time {
	today = domain.Day(today)
	for k := 1; ; k++ {
		due := domain.AddMonths(lastPayment, k)
		if !due.Before(today) {
			return due
		}
	}
}
