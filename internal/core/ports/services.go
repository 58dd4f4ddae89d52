package ports

import (
	"context"
	"time"

	"scholarpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// PaymentOrchestrator coordinates fraud screening, provider failover, and
// ledger writes for payments and refunds.
type PaymentOrchestrator interface {
	SubmitPayment(ctx context.Context, req PaymentRequest) (*domain.Transaction, error)
	SubmitRefund(ctx context.Context, req RefundRequest) (*domain.Refund, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	ListRefunds(ctx context.Context, transactionID uuid.UUID) ([]domain.Refund, error)
	// RefreshStatus queries the resolving gateway for a pending transaction
	// and applies any forward status move it reports.
	RefreshStatus(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
}

// PaymentRequest holds validated input for one logical charge.
// SettlementCurrency is the tenant's default currency, supplied by the
// surrounding tenant layer; Signals carry caller-flagged device/location
// suspicions (vpn, proxy, geo_mismatch).
type PaymentRequest struct {
	TenantID           string
	Amount             decimal.Decimal
	Currency           string
	Method             string
	SettlementCurrency string
	Signals            []string
	Metadata           map[string]string
}

// RefundRequest holds validated input for a refund against a prior charge.
type RefundRequest struct {
	TransactionID uuid.UUID
	Amount        decimal.Decimal
	Reason        string
}

// FraudAssessor computes a deterministic risk score for a payment request.
// Pure: identical input always yields an identical assessment.
type FraudAssessor interface {
	Assess(input FraudInput) domain.FraudAssessment
}

// FraudInput is the attribute set the fraud assessor scores over.
type FraudInput struct {
	Amount             decimal.Decimal
	Currency           string
	SettlementCurrency string
	At                 time.Time
	Signals            []string
}

// WebhookReconciler verifies, deduplicates, and applies inbound gateway
// notifications to the ledger.
type WebhookReconciler interface {
	Reconcile(ctx context.Context, provider string, payload []byte, signatureHeader string) (*ReconcileResult, error)
}

// ReconcileDisposition says what a delivery did to the ledger.
type ReconcileDisposition string

const (
	ReconcileApplied   ReconcileDisposition = "applied"
	ReconcileDuplicate ReconcileDisposition = "duplicate"
	ReconcileOrphan    ReconcileDisposition = "orphan"
	// ReconcileFlagged marks an event whose implied transition would move the
	// transaction backward: recorded for manual review, not applied.
	ReconcileFlagged ReconcileDisposition = "flagged"
)

// ReconcileResult reports the outcome of one webhook delivery.
type ReconcileResult struct {
	Disposition   ReconcileDisposition
	EventID       string
	TransactionID *uuid.UUID
	AppliedStatus *domain.TransactionStatus
}
