package postgres

import (
	"context"
	"testing"
	"time"

	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction() *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Transaction{
		ID:             uuid.New(),
		TenantID:       "tenant-1",
		Amount:         decimal.NewFromInt(150),
		Currency:       "USD",
		Method:         "card",
		Status:         domain.StatusAttempted,
		FraudScore:     10,
		FraudRiskLevel: domain.RiskLow,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func txTestColumns() []string {
	return []string{"id", "tenant_id", "amount", "currency", "method", "status",
		"provider", "provider_transaction_id", "fraud_score", "fraud_risk_level",
		"attempts", "created_at", "updated_at"}
}

func txRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(txTestColumns()).AddRow(
		t.ID, t.TenantID, t.Amount.String(), t.Currency, t.Method, t.Status,
		t.Provider, t.ProviderTransactionID, t.FraudScore, t.FraudRiskLevel,
		[]byte("[]"), t.CreatedAt, t.UpdatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.TenantID, txn.Amount.String(), txn.Currency, txn.Method, txn.Status,
			txn.Provider, txn.ProviderTransactionID, txn.FraudScore, txn.FraudRiskLevel,
			[]byte("[]"), txn.CreatedAt, txn.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), txn))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id =").
		WithArgs(txn.ID).
		WillReturnRows(txRow(txn))

	got, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, txn.ID, got.ID)
	assert.True(t, txn.Amount.Equal(got.Amount))
	assert.Equal(t, txn.Status, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id =").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(txTestColumns()))

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransactionRepo_GetByProviderTxID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()
	provider := "stripe"
	providerTxID := "pi_1"
	txn.Provider = &provider
	txn.ProviderTransactionID = &providerTxID

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE provider =").
		WithArgs("stripe", "pi_1").
		WillReturnRows(txRow(txn))

	got, err := repo.GetByProviderTxID(context.Background(), "stripe", "pi_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, txn.ID, got.ID)
}

func TestTransactionRepo_UpdateStatusIf(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE transactions SET status =").
		WithArgs(domain.StatusSucceeded, pgxmock.AnyArg(), id, domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	moved, err := repo.UpdateStatusIf(context.Background(), id, domain.StatusPending, domain.StatusSucceeded)
	require.NoError(t, err)
	assert.True(t, moved)
}

func TestTransactionRepo_UpdateStatusIf_NoRowMoved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE transactions SET status =").
		WithArgs(domain.StatusSucceeded, pgxmock.AnyArg(), id, domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	moved, err := repo.UpdateStatusIf(context.Background(), id, domain.StatusPending, domain.StatusSucceeded)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestTransactionRepo_SetResolution(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE transactions SET provider =").
		WithArgs("stripe", "pi_1", domain.StatusSucceeded, pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetResolution(context.Background(), id, "stripe", "pi_1", domain.StatusSucceeded))
}

func TestTransactionRepo_AppendAttempt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE transactions SET attempts =").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.AppendAttempt(context.Background(), id, domain.Attempt{
		Provider: "stripe",
		Result:   domain.AttemptDeclined,
		Reason:   "card_declined",
		At:       time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestTransactionRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()
	status := domain.StatusSucceeded

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("tenant-1", status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE tenant_id =").
		WithArgs("tenant-1", status, 20, 0).
		WillReturnRows(txRow(txn))

	items, total, err := repo.List(context.Background(), ports.TransactionListParams{
		TenantID: "tenant-1",
		Status:   &status,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, txn.ID, items[0].ID)
}
