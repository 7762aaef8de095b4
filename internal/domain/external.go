package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalBalance is an account balance reported by a bank bridge.
type ExternalBalance struct {
	ID          string
	Name        string
	Currency    string
	Balance     decimal.Decimal
	BalanceDate time.Time
}

// ToMinorUnits converts a major-unit amount (dollars) to cents, rounding half away from zero.
func ToMinorUnits(major decimal.Decimal) int64 {
	return major.Shift(2).Round(0).IntPart()
}

// FromMinorUnits converts cents to a major-unit decimal.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
