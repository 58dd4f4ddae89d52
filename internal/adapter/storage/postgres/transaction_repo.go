package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const txColumns = `id, tenant_id, amount::text, currency, method, status,
		provider, provider_transaction_id, fraud_score, fraud_risk_level, attempts, created_at, updated_at`

// TransactionRepo implements ports.TransactionRepository. Amounts travel as
// text on the wire and live as NUMERIC in the table, so no float ever touches
// a money value. Status updates are compare-and-set; rows are never deleted.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	attempts, err := json.Marshal(t.Attempts)
	if err != nil {
		return fmt.Errorf("marshal attempts: %w", err)
	}
	if t.Attempts == nil {
		attempts = []byte("[]")
	}

	query := `INSERT INTO transactions (id, tenant_id, amount, currency, method, status,
		provider, provider_transaction_id, fraud_score, fraud_risk_level, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.pool.Exec(ctx, query,
		t.ID, t.TenantID, t.Amount.String(), t.Currency, t.Method, t.Status,
		t.Provider, t.ProviderTransactionID, t.FraudScore, t.FraudRiskLevel,
		attempts, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID. Returns (nil, nil) when no row exists.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1`, txColumns)
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a transaction inside tx and locks the row until
// the transaction block ends.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1 FOR UPDATE`, txColumns)
	return scanTransaction(tx.QueryRow(ctx, query, id))
}

// GetByProviderTxID fetches the transaction a gateway resolved under its own
// transaction id. Returns (nil, nil) when no row exists.
func (r *TransactionRepo) GetByProviderTxID(ctx context.Context, provider, providerTxID string) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE provider = $1 AND provider_transaction_id = $2`, txColumns)
	return scanTransaction(r.pool.QueryRow(ctx, query, provider, providerTxID))
}

// UpdateStatusIf performs a conditional status update. A false return means
// the row was no longer in the expected status; the caller decides whether
// that is an error.
func (r *TransactionRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.TransactionStatus) (bool, error) {
	query := `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	tag, err := r.pool.Exec(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("update transaction status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetResolution records the winning provider, its transaction id, and the
// resolved status in one write.
func (r *TransactionRepo) SetResolution(ctx context.Context, id uuid.UUID, provider, providerTxID string, status domain.TransactionStatus) error {
	query := `UPDATE transactions SET provider = $1, provider_transaction_id = $2, status = $3, updated_at = $4
		WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query, provider, providerTxID, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set transaction resolution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// AppendAttempt appends one attempt record to the transaction's chain.
func (r *TransactionRepo) AppendAttempt(ctx context.Context, id uuid.UUID, attempt domain.Attempt) error {
	payload, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}

	query := `UPDATE transactions SET attempts = attempts || $1::jsonb, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, payload, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// List fetches transactions for a tenant with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", argIdx))
	args = append(args, params.TenantID)
	argIdx++

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		txColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		t, err := scanTransactionRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, total, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t, err := scanTransactionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var (
		t           domain.Transaction
		amountText  string
		attemptsRaw []byte
	)
	err := row.Scan(
		&t.ID, &t.TenantID, &amountText, &t.Currency, &t.Method, &t.Status,
		&t.Provider, &t.ProviderTransactionID, &t.FraudScore, &t.FraudRiskLevel,
		&attemptsRaw, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	t.Amount, err = decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("parse transaction amount %q: %w", amountText, err)
	}
	if len(attemptsRaw) > 0 {
		if err := json.Unmarshal(attemptsRaw, &t.Attempts); err != nil {
			return nil, fmt.Errorf("unmarshal attempts: %w", err)
		}
	}
	return &t, nil
}
