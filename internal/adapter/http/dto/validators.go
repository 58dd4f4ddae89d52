package dto

import (
	"time"

	"scholarpay/pkg/apperror"

	"github.com/shopspring/decimal"
)

// maxAmountScale bounds decimal places on money amounts. Two places covers
// every currency the configured gateways serve.
const maxAmountScale = 2

// ParseAmount parses a decimal money amount from its wire representation.
// Rejects non-numeric input, non-positive values, and excess precision.
func ParseAmount(s string) (decimal.Decimal, *apperror.AppError) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperror.ErrValidation("amount must be a decimal number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperror.ErrValidation("amount must be positive")
	}
	if amount.Exponent() < -maxAmountScale {
		return decimal.Zero, apperror.ErrValidation("amount has too many decimal places")
	}
	return amount, nil
}

// ParseTimeOrNow parses an optional RFC 3339 timestamp, defaulting to the
// current time in UTC.
func ParseTimeOrNow(s string) (time.Time, *apperror.AppError) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperror.ErrValidation("at must be an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}
