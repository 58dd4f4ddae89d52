package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CanonicalEventType is the shared, provider-independent vocabulary for
// payment lifecycle notifications. Each adapter translates its gateway's
// taxonomy into one of these.
type CanonicalEventType string

const (
	EventAuthorized CanonicalEventType = "authorized"
	EventCaptured   CanonicalEventType = "captured"
	EventRefunded   CanonicalEventType = "refunded"
	EventDisputed   CanonicalEventType = "disputed"
	EventCancelled  CanonicalEventType = "cancelled"
	EventFailed     CanonicalEventType = "failed"
)

// CanonicalEvent is a gateway notification translated into the shared
// vocabulary. Amount is set only on refund events and carries the gateway's
// cumulative refunded total for the charge, not the size of one refund, so a
// run of partial refunds classifies correctly from the final event alone.
type CanonicalEvent struct {
	Type                  CanonicalEventType
	EventID               string
	ProviderTransactionID string
	Amount                *decimal.Decimal
	Reason                string
}

// WebhookEvent is the deduplication and audit record for an inbound provider
// notification. The pair (Provider, EventID) is unique: a second delivery of
// the same event is a no-op, not an error.
type WebhookEvent struct {
	ID            uuid.UUID          `json:"id"`
	Provider      string             `json:"provider"`
	EventID       string             `json:"event_id"`
	EventType     string             `json:"event_type"`
	AppliedStatus *TransactionStatus `json:"applied_status,omitempty"`
	TransactionID *uuid.UUID         `json:"transaction_id,omitempty"`
	Flagged       bool               `json:"flagged"`
	ReceivedAt    time.Time          `json:"received_at"`
}
