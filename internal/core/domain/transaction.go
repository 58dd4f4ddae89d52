package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a payment transaction.
type TransactionStatus string

const (
	StatusAttempted         TransactionStatus = "attempted"
	StatusPending           TransactionStatus = "pending"
	StatusSucceeded         TransactionStatus = "succeeded"
	StatusFailed            TransactionStatus = "failed"
	StatusCaptured          TransactionStatus = "captured"
	StatusRefunded          TransactionStatus = "refunded"
	StatusPartiallyRefunded TransactionStatus = "partially_refunded"
	StatusDisputed          TransactionStatus = "disputed"
)

// FraudRiskLevel classifies a fraud score.
type FraudRiskLevel string

const (
	RiskLow    FraudRiskLevel = "low"
	RiskMedium FraudRiskLevel = "medium"
	RiskHigh   FraudRiskLevel = "high"
)

// AttemptResult is the recorded outcome of one provider submission.
type AttemptResult string

const (
	AttemptSuccess          AttemptResult = "success"
	AttemptDeclined         AttemptResult = "declined"
	AttemptTransientFailure AttemptResult = "transient_failure"
	AttemptPermanentFailure AttemptResult = "permanent_failure"
	AttemptFraudBlocked     AttemptResult = "fraud_blocked"
)

// Attempt records one outcome in a transaction's provider attempt chain.
// Fraud-blocked attempts carry an empty Provider: no gateway was contacted.
type Attempt struct {
	Provider string        `json:"provider"`
	Result   AttemptResult `json:"result"`
	Reason   string        `json:"reason,omitempty"`
	At       time.Time     `json:"at"`
}

// Transaction represents one payment attempt chain for a single logical charge.
// The ID is generated once at submission and never changes across attempts.
type Transaction struct {
	ID                    uuid.UUID         `json:"id"`
	TenantID              string            `json:"tenant_id"`
	Amount                decimal.Decimal   `json:"amount"`
	Currency              string            `json:"currency"`
	Method                string            `json:"payment_method"`
	Status                TransactionStatus `json:"status"`
	Provider              *string           `json:"provider,omitempty"`
	ProviderTransactionID *string           `json:"provider_transaction_id,omitempty"`
	FraudScore            int               `json:"fraud_score"`
	FraudRiskLevel        FraudRiskLevel    `json:"fraud_risk_level"`
	Attempts              []Attempt         `json:"attempts"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// IsTerminal returns true if no ordinary forward transition remains.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusFailed ||
		t.Status == StatusRefunded ||
		t.Status == StatusDisputed
}

// IsRefundable returns true if this transaction can accept a refund request.
func (t *Transaction) IsRefundable() bool {
	return t.Status == StatusSucceeded ||
		t.Status == StatusCaptured ||
		t.Status == StatusPartiallyRefunded
}

// forwardTransitions encodes the ordinary (non-dispute) state machine.
var forwardTransitions = map[TransactionStatus][]TransactionStatus{
	StatusAttempted:         {StatusSucceeded, StatusFailed, StatusPending},
	StatusPending:           {StatusSucceeded, StatusFailed},
	StatusSucceeded:         {StatusCaptured, StatusRefunded, StatusPartiallyRefunded},
	StatusCaptured:          {StatusRefunded, StatusPartiallyRefunded},
	StatusPartiallyRefunded: {StatusRefunded},
}

// disputable lists the states the explicit dispute path may leave from.
var disputable = map[TransactionStatus]bool{
	StatusSucceeded:         true,
	StatusCaptured:          true,
	StatusPartiallyRefunded: true,
	StatusRefunded:          true,
}

// CanTransition reports whether moving a transaction from one status to
// another is a legal forward move. The only permitted non-forward move is
// the explicit dispute path out of a settled state.
func CanTransition(from, to TransactionStatus) bool {
	if to == StatusDisputed {
		return disputable[from]
	}
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
