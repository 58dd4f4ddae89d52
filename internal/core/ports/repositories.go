package ports

import (
	"context"
	"time"

	"scholarpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines persistence operations for the transaction
// ledger. Transactions are never deleted; status only moves forward through
// the state machine, enforced here via compare-and-set updates.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	GetByProviderTxID(ctx context.Context, provider, providerTxID string) (*domain.Transaction, error)
	// UpdateStatusIf performs a conditional status update and reports whether
	// a row moved. A false return means the transaction was no longer in the
	// expected status.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.TransactionStatus) (bool, error)
	// SetResolution records the winning provider, its transaction id, and the
	// resolved status in one write.
	SetResolution(ctx context.Context, id uuid.UUID, provider, providerTxID string, status domain.TransactionStatus) error
	AppendAttempt(ctx context.Context, id uuid.UUID, attempt domain.Attempt) error
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// TransactionListParams holds filter and pagination for listing transactions.
type TransactionListParams struct {
	TenantID string
	Status   *domain.TransactionStatus
	Page     int
	PageSize int
}

// RefundRepository defines persistence operations for refunds.
// Methods accepting pgx.Tx run inside transaction blocks so the refundable
// balance check and the refund reservation commit atomically.
type RefundRepository interface {
	Create(ctx context.Context, tx pgx.Tx, r *domain.Refund) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RefundStatus, providerRefundID *string) error
	// SumReserved returns the sum of refund amounts in attempted or succeeded
	// status for a transaction. Attempted refunds count as reservations so
	// concurrent refunds cannot overshoot the captured amount.
	SumReserved(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) (decimal.Decimal, error)
	// SumSucceeded returns the sum of succeeded refund amounts only.
	SumSucceeded(ctx context.Context, transactionID uuid.UUID) (decimal.Decimal, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.Refund, error)
}

// WebhookEventRepository defines persistence for inbound notification records.
// (Provider, EventID) is unique; Create on a duplicate is a silent no-op.
type WebhookEventRepository interface {
	Create(ctx context.Context, e *domain.WebhookEvent) error
	Exists(ctx context.Context, provider, eventID string) (bool, error)
}

// EventDedupCache is a best-effort fast path in front of the database
// uniqueness check for webhook events. Cache errors fall through to the
// database; they never decide reconciliation on their own.
type EventDedupCache interface {
	Seen(ctx context.Context, provider, eventID string) (bool, error)
	MarkSeen(ctx context.Context, provider, eventID string, ttl time.Duration) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
