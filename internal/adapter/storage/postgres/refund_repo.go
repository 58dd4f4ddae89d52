package postgres

import (
	"context"
	"fmt"
	"time"

	"scholarpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RefundRepo implements ports.RefundRepository. Create and SumReserved run
// inside the caller's transaction block so the refundable-balance check and
// the refund reservation commit atomically.
type RefundRepo struct {
	pool Pool
}

// NewRefundRepo creates a new RefundRepo.
func NewRefundRepo(pool Pool) *RefundRepo {
	return &RefundRepo{pool: pool}
}

// Create inserts a refund within a database transaction.
func (r *RefundRepo) Create(ctx context.Context, tx pgx.Tx, rf *domain.Refund) error {
	query := `INSERT INTO refunds (id, transaction_id, amount, status, provider_refund_id, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		rf.ID, rf.TransactionID, rf.Amount.String(), rf.Status,
		rf.ProviderRefundID, rf.Reason, rf.CreatedAt, rf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// UpdateStatus moves a refund to its final status, recording the provider's
// refund id when one exists.
func (r *RefundRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RefundStatus, providerRefundID *string) error {
	query := `UPDATE refunds SET status = $1, provider_refund_id = $2, updated_at = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, status, providerRefundID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update refund status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refund not found: %s", id)
	}
	return nil
}

// SumReserved returns the total of attempted and succeeded refund amounts for
// a transaction. Attempted refunds count as reservations, so a concurrent
// refund holding the row lock sees in-flight siblings.
func (r *RefundRepo) SumReserved(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::text FROM refunds
		WHERE transaction_id = $1 AND status IN ('attempted', 'succeeded')`

	return r.sum(tx.QueryRow(ctx, query, transactionID))
}

// SumSucceeded returns the total of succeeded refund amounts only.
func (r *RefundRepo) SumSucceeded(ctx context.Context, transactionID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::text FROM refunds
		WHERE transaction_id = $1 AND status = 'succeeded'`

	return r.sum(r.pool.QueryRow(ctx, query, transactionID))
}

// ListByTransaction fetches all refunds against one transaction, oldest first.
func (r *RefundRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.Refund, error) {
	query := `SELECT id, transaction_id, amount::text, status, provider_refund_id, reason, created_at, updated_at
		FROM refunds WHERE transaction_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	var out []domain.Refund
	for rows.Next() {
		var (
			rf         domain.Refund
			amountText string
		)
		if err := rows.Scan(&rf.ID, &rf.TransactionID, &amountText, &rf.Status,
			&rf.ProviderRefundID, &rf.Reason, &rf.CreatedAt, &rf.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		rf.Amount, err = decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("parse refund amount %q: %w", amountText, err)
		}
		out = append(out, rf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refunds: %w", err)
	}
	return out, nil
}

func (r *RefundRepo) sum(row pgx.Row) (decimal.Decimal, error) {
	var text string
	if err := row.Scan(&text); err != nil {
		return decimal.Zero, fmt.Errorf("sum refunds: %w", err)
	}
	total, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse refund sum %q: %w", text, err)
	}
	return total, nil
}
