package service

import (
	"context"
	"time"

	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"
	"scholarpay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// dedupTTL bounds the fast-path cache entry; the database uniqueness
// constraint remains the durable guard after expiry.
const dedupTTL = 72 * time.Hour

// Reconciler implements ports.WebhookReconciler. It verifies each delivery
// against the provider's signature scheme, translates it into the canonical
// event vocabulary, deduplicates it, and applies the implied status move to
// the ledger under the state machine's forward-only rule.
type Reconciler struct {
	registry  ports.ProviderRegistry
	txRepo    ports.TransactionRepository
	eventRepo ports.WebhookEventRepository
	dedup     ports.EventDedupCache
	locks     *keyedMutex
	log       zerolog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(
	registry ports.ProviderRegistry,
	txRepo ports.TransactionRepository,
	eventRepo ports.WebhookEventRepository,
	dedup ports.EventDedupCache,
	log zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		registry:  registry,
		txRepo:    txRepo,
		eventRepo: eventRepo,
		dedup:     dedup,
		locks:     newKeyedMutex(),
		log:       log,
	}
}

// Reconcile processes one inbound delivery. Signature verification is the
// hard boundary: an unverifiable payload is rejected before any parsing.
func (s *Reconciler) Reconcile(ctx context.Context, provider string, payload []byte, signatureHeader string) (*ports.ReconcileResult, error) {
	adapter := s.registry.Get(provider)
	if adapter == nil {
		return nil, apperror.ErrUnknownProvider(provider)
	}

	if !adapter.VerifySignature(payload, signatureHeader) {
		s.log.Warn().Str("provider", provider).Msg("webhook signature verification failed")
		return nil, apperror.ErrInvalidSignature()
	}

	event, err := adapter.TranslateEvent(payload)
	if err != nil {
		s.log.Warn().Err(err).Str("provider", provider).Msg("unrecognized webhook payload")
		return nil, apperror.ErrEventTranslation(err)
	}

	if s.seen(ctx, provider, event.EventID) {
		return &ports.ReconcileResult{Disposition: ports.ReconcileDuplicate, EventID: event.EventID}, nil
	}

	txn, err := s.txRepo.GetByProviderTxID(ctx, provider, event.ProviderTransactionID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if txn == nil {
		// A delivery for a charge this ledger never issued. Recorded so the
		// gateway's view can be audited against ours.
		s.log.Warn().
			Str("provider", provider).
			Str("event_id", event.EventID).
			Str("provider_tx_id", event.ProviderTransactionID).
			Msg("webhook references unknown transaction")
		s.recordEvent(ctx, provider, event, nil, nil, true)
		return &ports.ReconcileResult{Disposition: ports.ReconcileOrphan, EventID: event.EventID}, nil
	}

	// Deliveries for the same transaction apply one at a time so that every
	// transition is checked against a current status.
	key := txn.ID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	current, err := s.txRepo.GetByID(ctx, txn.ID)
	if err != nil || current == nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	target := targetStatus(event, current)

	if target == current.Status {
		s.recordEvent(ctx, provider, event, &current.ID, nil, false)
		return &ports.ReconcileResult{
			Disposition:   ports.ReconcileDuplicate,
			EventID:       event.EventID,
			TransactionID: &current.ID,
		}, nil
	}

	if !domain.CanTransition(current.Status, target) {
		s.log.Warn().
			Str("provider", provider).
			Str("event_id", event.EventID).
			Str("tx_id", current.ID.String()).
			Str("ledger_status", string(current.Status)).
			Str("event_status", string(target)).
			Msg("webhook implies backward transition, flagged for review")
		s.recordEvent(ctx, provider, event, &current.ID, nil, true)
		return &ports.ReconcileResult{
			Disposition:   ports.ReconcileFlagged,
			EventID:       event.EventID,
			TransactionID: &current.ID,
		}, nil
	}

	moved, err := s.txRepo.UpdateStatusIf(ctx, current.ID, current.Status, target)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !moved {
		// The status changed under us despite the lock (direct DB write or
		// another instance). Safe to drop: the ledger is newer than the event.
		s.recordEvent(ctx, provider, event, &current.ID, nil, false)
		return &ports.ReconcileResult{
			Disposition:   ports.ReconcileDuplicate,
			EventID:       event.EventID,
			TransactionID: &current.ID,
		}, nil
	}

	s.recordEvent(ctx, provider, event, &current.ID, &target, false)
	s.log.Info().
		Str("provider", provider).
		Str("event_id", event.EventID).
		Str("tx_id", current.ID.String()).
		Str("from", string(current.Status)).
		Str("to", string(target)).
		Msg("webhook applied to ledger")

	return &ports.ReconcileResult{
		Disposition:   ports.ReconcileApplied,
		EventID:       event.EventID,
		TransactionID: &current.ID,
		AppliedStatus: &target,
	}, nil
}

// seen consults the cache fast path and then the durable event table. A cache
// error falls through to the database; it never decides on its own.
func (s *Reconciler) seen(ctx context.Context, provider, eventID string) bool {
	if hit, err := s.dedup.Seen(ctx, provider, eventID); err == nil && hit {
		return true
	} else if err != nil {
		s.log.Warn().Err(err).Msg("event dedup cache unavailable, falling back to database")
	}
	exists, err := s.eventRepo.Exists(ctx, provider, eventID)
	if err != nil {
		s.log.Error().Err(err).Str("event_id", eventID).Msg("event existence check failed")
		return false
	}
	return exists
}

// recordEvent persists the delivery record and primes the dedup cache. Both
// writes are best-effort relative to the reconciliation outcome already
// computed; the unique (provider, event_id) constraint absorbs races.
func (s *Reconciler) recordEvent(ctx context.Context, provider string, event domain.CanonicalEvent, txID *uuid.UUID, applied *domain.TransactionStatus, flagged bool) {
	rec := &domain.WebhookEvent{
		ID:            uuid.New(),
		Provider:      provider,
		EventID:       event.EventID,
		EventType:     string(event.Type),
		AppliedStatus: applied,
		TransactionID: txID,
		Flagged:       flagged,
		ReceivedAt:    time.Now().UTC(),
	}
	if err := s.eventRepo.Create(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("event_id", event.EventID).Msg("failed to persist webhook event record")
		return
	}
	if err := s.dedup.MarkSeen(ctx, provider, event.EventID, dedupTTL); err != nil {
		s.log.Warn().Err(err).Str("event_id", event.EventID).Msg("failed to prime event dedup cache")
	}
}

// targetStatus maps a canonical event onto the ledger state machine given the
// transaction's current status.
func targetStatus(event domain.CanonicalEvent, txn *domain.Transaction) domain.TransactionStatus {
	switch event.Type {
	case domain.EventAuthorized:
		return domain.StatusSucceeded
	case domain.EventCaptured:
		// A gateway may report capture before the authorization delivery
		// arrives; an unresolved transaction moves to succeeded first.
		if txn.Status == domain.StatusAttempted || txn.Status == domain.StatusPending {
			return domain.StatusSucceeded
		}
		return domain.StatusCaptured
	case domain.EventRefunded:
		// The event amount is the gateway's cumulative refunded total, so a
		// run of partial refunds resolves to refunded on the delivery whose
		// total reaches the charge amount.
		if event.Amount != nil && event.Amount.LessThan(txn.Amount) {
			return domain.StatusPartiallyRefunded
		}
		return domain.StatusRefunded
	case domain.EventDisputed:
		return domain.StatusDisputed
	case domain.EventCancelled, domain.EventFailed:
		return domain.StatusFailed
	default:
		return txn.Status
	}
}
