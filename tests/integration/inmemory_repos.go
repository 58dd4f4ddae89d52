package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[t.ID] = *t
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *inMemoryTransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTransactionRepo) GetByProviderTxID(ctx context.Context, provider, providerTxID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.Provider != nil && *t.Provider == provider &&
			t.ProviderTransactionID != nil && *t.ProviderTransactionID == providerTxID {
			out := t
			return &out, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.TransactionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	t.UpdatedAt = time.Now().UTC()
	r.transactions[id] = t
	return true, nil
}

func (r *inMemoryTransactionRepo) SetResolution(ctx context.Context, id uuid.UUID, provider, providerTxID string, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.Provider = &provider
	t.ProviderTransactionID = &providerTxID
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	r.transactions[id] = t
	return nil
}

func (r *inMemoryTransactionRepo) AppendAttempt(ctx context.Context, id uuid.UUID, attempt domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.Attempts = append(t.Attempts, attempt)
	t.UpdatedAt = time.Now().UTC()
	r.transactions[id] = t
	return nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.TenantID != params.TenantID {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Refund Repo ---

type inMemoryRefundRepo struct {
	mu      sync.RWMutex
	refunds map[uuid.UUID]domain.Refund
}

func newInMemoryRefundRepo() *inMemoryRefundRepo {
	return &inMemoryRefundRepo{refunds: make(map[uuid.UUID]domain.Refund)}
}

func (r *inMemoryRefundRepo) Create(ctx context.Context, tx pgx.Tx, rf *domain.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refunds[rf.ID] = *rf
	return nil
}

func (r *inMemoryRefundRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RefundStatus, providerRefundID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rf, ok := r.refunds[id]
	if !ok {
		return pgx.ErrNoRows
	}
	rf.Status = status
	rf.ProviderRefundID = providerRefundID
	rf.UpdatedAt = time.Now().UTC()
	r.refunds[id] = rf
	return nil
}

func (r *inMemoryRefundRepo) SumReserved(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, rf := range r.refunds {
		if rf.TransactionID != transactionID {
			continue
		}
		if rf.Status == domain.RefundAttempted || rf.Status == domain.RefundSucceeded {
			sum = sum.Add(rf.Amount)
		}
	}
	return sum, nil
}

func (r *inMemoryRefundRepo) SumSucceeded(ctx context.Context, transactionID uuid.UUID) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, rf := range r.refunds {
		if rf.TransactionID == transactionID && rf.Status == domain.RefundSucceeded {
			sum = sum.Add(rf.Amount)
		}
	}
	return sum, nil
}

func (r *inMemoryRefundRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.Refund, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Refund
	for _, rf := range r.refunds {
		if rf.TransactionID == transactionID {
			result = append(result, rf)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// --- In-Memory Webhook Event Repo ---

type inMemoryWebhookEventRepo struct {
	mu     sync.RWMutex
	events map[string]domain.WebhookEvent
}

func newInMemoryWebhookEventRepo() *inMemoryWebhookEventRepo {
	return &inMemoryWebhookEventRepo{events: make(map[string]domain.WebhookEvent)}
}

func eventKey(provider, eventID string) string {
	return provider + "|" + eventID
}

func (r *inMemoryWebhookEventRepo) Create(ctx context.Context, e *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := eventKey(e.Provider, e.EventID)
	if _, ok := r.events[key]; ok {
		return nil
	}
	r.events[key] = *e
	return nil
}

func (r *inMemoryWebhookEventRepo) Exists(ctx context.Context, provider, eventID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.events[eventKey(provider, eventID)]
	return ok, nil
}

func (r *inMemoryWebhookEventRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transaction blocks with a single mutex, which
// stands in for the row lock the refund reservation check relies on.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &t.mu}, nil
}

// memTx is a pgx.Tx that releases the transactor's lock exactly once, on
// whichever of Commit or Rollback runs first.
type memTx struct {
	release *sync.Mutex
	once    sync.Once
}

func (t *memTx) unlock() {
	t.once.Do(t.release.Unlock)
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.unlock(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.unlock(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
