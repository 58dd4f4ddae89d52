package service

import (
	"context"
	"errors"
	"testing"

	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"
	"scholarpay/internal/core/ports/mocks"
	"scholarpay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reconcilerFixture struct {
	registry  *mocks.MockProviderRegistry
	adapter   *mocks.MockProviderAdapter
	txRepo    *mocks.MockTransactionRepository
	eventRepo *mocks.MockWebhookEventRepository
	dedup     *mocks.MockEventDedupCache
	svc       *Reconciler
}

func newReconcilerFixture(t *testing.T) *reconcilerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &reconcilerFixture{
		registry:  mocks.NewMockProviderRegistry(ctrl),
		adapter:   mocks.NewMockProviderAdapter(ctrl),
		txRepo:    mocks.NewMockTransactionRepository(ctrl),
		eventRepo: mocks.NewMockWebhookEventRepository(ctrl),
		dedup:     mocks.NewMockEventDedupCache(ctrl),
	}
	f.svc = NewReconciler(f.registry, f.txRepo, f.eventRepo, f.dedup, zerolog.Nop())
	return f
}

func (f *reconcilerFixture) expectVerified(event domain.CanonicalEvent) {
	f.registry.EXPECT().Get("stripe").Return(f.adapter)
	f.adapter.EXPECT().VerifySignature(gomock.Any(), gomock.Any()).Return(true)
	f.adapter.EXPECT().TranslateEvent(gomock.Any()).Return(event, nil)
}

func (f *reconcilerFixture) expectNotSeen(eventID string) {
	f.dedup.EXPECT().Seen(gomock.Any(), "stripe", eventID).Return(false, nil)
	f.eventRepo.EXPECT().Exists(gomock.Any(), "stripe", eventID).Return(false, nil)
}

func pendingTxn() *domain.Transaction {
	provider := "stripe"
	providerTxID := "pi_1"
	return &domain.Transaction{
		ID:                    uuid.New(),
		Amount:                decimal.NewFromInt(100),
		Status:                domain.StatusPending,
		Provider:              &provider,
		ProviderTransactionID: &providerTxID,
	}
}

func TestReconcile_AppliesAuthorizedEvent(t *testing.T) {
	f := newReconcilerFixture(t)
	txn := pendingTxn()
	event := domain.CanonicalEvent{
		Type:                  domain.EventAuthorized,
		EventID:               "evt_1",
		ProviderTransactionID: "pi_1",
	}

	f.expectVerified(event)
	f.expectNotSeen("evt_1")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.txRepo.EXPECT().UpdateStatusIf(gomock.Any(), txn.ID, domain.StatusPending, domain.StatusSucceeded).Return(true, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.WebhookEvent) error {
			require.NotNil(t, e.AppliedStatus)
			assert.Equal(t, domain.StatusSucceeded, *e.AppliedStatus)
			assert.False(t, e.Flagged)
			return nil
		})
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_1", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileApplied, res.Disposition)
	require.NotNil(t, res.AppliedStatus)
	assert.Equal(t, domain.StatusSucceeded, *res.AppliedStatus)
}

func TestReconcile_RejectsInvalidSignatureBeforeParsing(t *testing.T) {
	f := newReconcilerFixture(t)
	f.registry.EXPECT().Get("stripe").Return(f.adapter)
	f.adapter.EXPECT().VerifySignature(gomock.Any(), gomock.Any()).Return(false)

	_, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "bad")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WHK_002", appErr.Code)
}

func TestReconcile_UnknownProvider(t *testing.T) {
	f := newReconcilerFixture(t)
	f.registry.EXPECT().Get("nope").Return(nil)

	_, err := f.svc.Reconcile(context.Background(), "nope", []byte(`{}`), "sig")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WHK_001", appErr.Code)
}

func TestReconcile_TranslationFailure(t *testing.T) {
	f := newReconcilerFixture(t)
	f.registry.EXPECT().Get("stripe").Return(f.adapter)
	f.adapter.EXPECT().VerifySignature(gomock.Any(), gomock.Any()).Return(true)
	f.adapter.EXPECT().TranslateEvent(gomock.Any()).Return(domain.CanonicalEvent{}, errors.New("unknown event shape"))

	_, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{"weird":1}`), "sig")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WHK_003", appErr.Code)
}

func TestReconcile_DuplicateDeliveryIsNoOp(t *testing.T) {
	f := newReconcilerFixture(t)
	event := domain.CanonicalEvent{
		Type:                  domain.EventAuthorized,
		EventID:               "evt_dup",
		ProviderTransactionID: "pi_1",
	}

	f.expectVerified(event)
	f.dedup.EXPECT().Seen(gomock.Any(), "stripe", "evt_dup").Return(true, nil)

	// No ledger reads or writes: the delivery is recognized and dropped.
	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileDuplicate, res.Disposition)
}

func TestReconcile_CacheMissFallsThroughToDatabase(t *testing.T) {
	f := newReconcilerFixture(t)
	event := domain.CanonicalEvent{
		Type:                  domain.EventAuthorized,
		EventID:               "evt_db",
		ProviderTransactionID: "pi_1",
	}

	f.expectVerified(event)
	f.dedup.EXPECT().Seen(gomock.Any(), "stripe", "evt_db").Return(false, errors.New("redis down"))
	f.eventRepo.EXPECT().Exists(gomock.Any(), "stripe", "evt_db").Return(true, nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileDuplicate, res.Disposition)
}

func TestReconcile_OrphanEventIsRecorded(t *testing.T) {
	f := newReconcilerFixture(t)
	event := domain.CanonicalEvent{
		Type:                  domain.EventCaptured,
		EventID:               "evt_orphan",
		ProviderTransactionID: "pi_unknown",
	}

	f.expectVerified(event)
	f.expectNotSeen("evt_orphan")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_unknown").Return(nil, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.WebhookEvent) error {
			assert.Nil(t, e.TransactionID)
			assert.True(t, e.Flagged)
			return nil
		})
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_orphan", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileOrphan, res.Disposition)
}

func TestReconcile_FlagsBackwardTransition(t *testing.T) {
	f := newReconcilerFixture(t)
	txn := pendingTxn()
	txn.Status = domain.StatusRefunded
	event := domain.CanonicalEvent{
		Type:                  domain.EventAuthorized,
		EventID:               "evt_back",
		ProviderTransactionID: "pi_1",
	}

	f.expectVerified(event)
	f.expectNotSeen("evt_back")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.WebhookEvent) error {
			assert.True(t, e.Flagged)
			assert.Nil(t, e.AppliedStatus)
			return nil
		})
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_back", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileFlagged, res.Disposition)
}

func TestReconcile_PartialRefundEvent(t *testing.T) {
	f := newReconcilerFixture(t)
	txn := pendingTxn()
	txn.Status = domain.StatusCaptured
	part := decimal.NewFromInt(30)
	event := domain.CanonicalEvent{
		Type:                  domain.EventRefunded,
		EventID:               "evt_ref",
		ProviderTransactionID: "pi_1",
		Amount:                &part,
	}

	f.expectVerified(event)
	f.expectNotSeen("evt_ref")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.txRepo.EXPECT().UpdateStatusIf(gomock.Any(), txn.ID, domain.StatusCaptured, domain.StatusPartiallyRefunded).Return(true, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_ref", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileApplied, res.Disposition)
	assert.Equal(t, domain.StatusPartiallyRefunded, *res.AppliedStatus)
}

func TestReconcile_SequentialPartialRefundsReachRefunded(t *testing.T) {
	f := newReconcilerFixture(t)
	txn := pendingTxn()
	txn.Status = domain.StatusCaptured

	// First delivery: 40 of 100 refunded so far.
	first := decimal.NewFromInt(40)
	event := domain.CanonicalEvent{
		Type:                  domain.EventRefunded,
		EventID:               "evt_ref_1",
		ProviderTransactionID: "pi_1",
		Amount:                &first,
	}
	f.expectVerified(event)
	f.expectNotSeen("evt_ref_1")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.txRepo.EXPECT().UpdateStatusIf(gomock.Any(), txn.ID, domain.StatusCaptured, domain.StatusPartiallyRefunded).Return(true, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_ref_1", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyRefunded, *res.AppliedStatus)

	// Second delivery: the cumulative total now covers the full charge, so
	// the transaction moves from partially_refunded to refunded.
	txn.Status = domain.StatusPartiallyRefunded
	full := decimal.NewFromInt(100)
	event = domain.CanonicalEvent{
		Type:                  domain.EventRefunded,
		EventID:               "evt_ref_2",
		ProviderTransactionID: "pi_1",
		Amount:                &full,
	}
	f.expectVerified(event)
	f.expectNotSeen("evt_ref_2")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.txRepo.EXPECT().UpdateStatusIf(gomock.Any(), txn.ID, domain.StatusPartiallyRefunded, domain.StatusRefunded).Return(true, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.WebhookEvent) error {
			require.NotNil(t, e.AppliedStatus)
			assert.Equal(t, domain.StatusRefunded, *e.AppliedStatus)
			assert.False(t, e.Flagged)
			return nil
		})
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_ref_2", dedupTTL).Return(nil)

	res, err = f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileApplied, res.Disposition)
	assert.Equal(t, domain.StatusRefunded, *res.AppliedStatus)
}

func TestReconcile_CapturedBeforeAuthorizationResolves(t *testing.T) {
	f := newReconcilerFixture(t)
	txn := pendingTxn()
	event := domain.CanonicalEvent{
		Type:                  domain.EventCaptured,
		EventID:               "evt_cap",
		ProviderTransactionID: "pi_1",
	}

	f.expectVerified(event)
	f.expectNotSeen("evt_cap")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.txRepo.EXPECT().UpdateStatusIf(gomock.Any(), txn.ID, domain.StatusPending, domain.StatusSucceeded).Return(true, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_cap", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, *res.AppliedStatus)
}

func TestReconcile_DisputeFromRefunded(t *testing.T) {
	f := newReconcilerFixture(t)
	txn := pendingTxn()
	txn.Status = domain.StatusRefunded
	event := domain.CanonicalEvent{
		Type:                  domain.EventDisputed,
		EventID:               "evt_dsp",
		ProviderTransactionID: "pi_1",
	}

	f.expectVerified(event)
	f.expectNotSeen("evt_dsp")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.txRepo.EXPECT().UpdateStatusIf(gomock.Any(), txn.ID, domain.StatusRefunded, domain.StatusDisputed).Return(true, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_dsp", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileApplied, res.Disposition)
	assert.Equal(t, domain.StatusDisputed, *res.AppliedStatus)
}

func TestReconcile_SameStatusIsDuplicate(t *testing.T) {
	f := newReconcilerFixture(t)
	txn := pendingTxn()
	txn.Status = domain.StatusSucceeded
	event := domain.CanonicalEvent{
		Type:                  domain.EventAuthorized,
		EventID:               "evt_same",
		ProviderTransactionID: "pi_1",
	}

	f.expectVerified(event)
	f.expectNotSeen("evt_same")
	f.txRepo.EXPECT().GetByProviderTxID(gomock.Any(), "stripe", "pi_1").Return(txn, nil)
	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.eventRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.dedup.EXPECT().MarkSeen(gomock.Any(), "stripe", "evt_same", dedupTTL).Return(nil)

	res, err := f.svc.Reconcile(context.Background(), "stripe", []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ports.ReconcileDuplicate, res.Disposition)
}
