package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus represents the lifecycle state of a refund.
type RefundStatus string

const (
	RefundAttempted RefundStatus = "attempted"
	RefundSucceeded RefundStatus = "succeeded"
	RefundFailed    RefundStatus = "failed"
)

// Refund is a request to return funds against a prior successful transaction.
// Refunds always go back through the gateway that processed the original
// charge. The sum of succeeded refund amounts never exceeds the captured
// amount of the original transaction.
type Refund struct {
	ID               uuid.UUID       `json:"id"`
	TransactionID    uuid.UUID       `json:"original_transaction_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           RefundStatus    `json:"status"`
	ProviderRefundID *string         `json:"provider_refund_id,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
