package usecase

import (
	"sort"
	"time"

	"budget-reconciler/internal/domain"
)

// DefaultStaleDays bounds how far a boundary payment inside a matched range may
// sit from the reference payment.
const DefaultStaleDays = 30

// Sequence is an inclusive index range into a transaction slice.
type Sequence struct {
	Start int
	End   int
}

// Chronological returns a copy of txs stably sorted by date, oldest first.
func Chronological(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return domain.Day(out[i].Date).Before(domain.Day(out[j].Date))
	})
	return out
}

// FindConsecutiveSequence returns the first contiguous range of txs, scanning by
// ascending start then ascending end, whose amounts sum exactly to target.
//
// One transaction in paymentCategory may sit inside a range without counting
// towards the sum; it marks the previous cycle's payoff. A second one stops the
// scan for that start. A range holding such a payment only matches when the
// payment is within staleDays of ref; otherwise the scan moves to the next start.
func FindConsecutiveSequence(txs []domain.Transaction, target int64, paymentCategory string, ref time.Time, staleDays int) (Sequence, bool) {
	for start := 0; start < len(txs); start++ {
		var (
			sum         int64
			seenPayment bool
			paymentDate time.Time
		)
		for end := start; end < len(txs); end++ {
			tx := txs[end]
			if paymentCategory != "" && tx.CategoryID == paymentCategory {
				if seenPayment {
					break
				}
				seenPayment, paymentDate = true, tx.Date
				continue
			}

			sum += tx.Amount
			if sum != target {
				continue
			}
			if !seenPayment || withinDays(paymentDate, ref, staleDays) {
				return Sequence{Start: start, End: end}, true
			}
			break
		}
	}
	return Sequence{}, false
}

func withinDays(a, b time.Time, days int) bool {
	d := domain.DaysBetween(a, b)
	if d < 0 {
		d = -d
	}
	return d <= days
}
