package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardMoves(t *testing.T) {
	tests := []struct {
		name string
		from TransactionStatus
		to   TransactionStatus
		want bool
	}{
		{"attempted to succeeded", StatusAttempted, StatusSucceeded, true},
		{"attempted to failed", StatusAttempted, StatusFailed, true},
		{"attempted to pending", StatusAttempted, StatusPending, true},
		{"pending to succeeded", StatusPending, StatusSucceeded, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"succeeded to captured", StatusSucceeded, StatusCaptured, true},
		{"succeeded to refunded", StatusSucceeded, StatusRefunded, true},
		{"succeeded to partially refunded", StatusSucceeded, StatusPartiallyRefunded, true},
		{"captured to refunded", StatusCaptured, StatusRefunded, true},
		{"partially refunded to refunded", StatusPartiallyRefunded, StatusRefunded, true},

		// Backward or sideways moves are never legal.
		{"succeeded to attempted", StatusSucceeded, StatusAttempted, false},
		{"succeeded to pending", StatusSucceeded, StatusPending, false},
		{"captured to succeeded", StatusCaptured, StatusSucceeded, false},
		{"failed to succeeded", StatusFailed, StatusSucceeded, false},
		{"refunded to captured", StatusRefunded, StatusCaptured, false},
		{"pending to captured", StatusPending, StatusCaptured, false},
		{"same state", StatusSucceeded, StatusSucceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_DisputePath(t *testing.T) {
	tests := []struct {
		name string
		from TransactionStatus
		want bool
	}{
		{"succeeded", StatusSucceeded, true},
		{"captured", StatusCaptured, true},
		{"partially refunded", StatusPartiallyRefunded, true},
		{"refunded", StatusRefunded, true},
		{"attempted", StatusAttempted, false},
		{"pending", StatusPending, false},
		{"failed", StatusFailed, false},
		{"disputed", StatusDisputed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, StatusDisputed))
		})
	}
}

func TestTransaction_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status TransactionStatus
		want   bool
	}{
		{"attempted", StatusAttempted, false},
		{"pending", StatusPending, false},
		{"succeeded", StatusSucceeded, false},
		{"captured", StatusCaptured, false},
		{"failed", StatusFailed, true},
		{"refunded", StatusRefunded, true},
		{"disputed", StatusDisputed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Status: tt.status}
			assert.Equal(t, tt.want, tx.IsTerminal())
		})
	}
}

func TestTransaction_IsRefundable(t *testing.T) {
	tests := []struct {
		name   string
		status TransactionStatus
		want   bool
	}{
		{"succeeded", StatusSucceeded, true},
		{"captured", StatusCaptured, true},
		{"partially refunded", StatusPartiallyRefunded, true},
		{"pending", StatusPending, false},
		{"failed", StatusFailed, false},
		{"refunded", StatusRefunded, false},
		{"disputed", StatusDisputed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Status: tt.status}
			assert.Equal(t, tt.want, tx.IsRefundable())
		})
	}
}

func TestCapability_Supports(t *testing.T) {
	cap := Capability{
		Currencies: []string{"USD", "EUR"},
		Methods:    []string{"card", "bank_transfer"},
		MinAmount:  decimal.NewFromInt(1),
		MaxAmount:  decimal.NewFromInt(10000),
	}

	assert.True(t, cap.SupportsCurrency("USD"))
	assert.False(t, cap.SupportsCurrency("GBP"))
	assert.True(t, cap.SupportsMethod("card"))
	assert.False(t, cap.SupportsMethod("crypto"))
	assert.True(t, cap.SupportsAmount(decimal.NewFromInt(100)))
	assert.False(t, cap.SupportsAmount(decimal.NewFromFloat(0.5)))
	assert.False(t, cap.SupportsAmount(decimal.NewFromInt(20000)))
}

func TestCapability_NoUpperBound(t *testing.T) {
	cap := Capability{Currencies: []string{"USD"}, Methods: []string{"card"}}
	assert.True(t, cap.SupportsAmount(decimal.NewFromInt(1_000_000)))
}
