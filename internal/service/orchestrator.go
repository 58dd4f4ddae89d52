package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"
	"scholarpay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Orchestrator implements ports.PaymentOrchestrator: fraud gate, sequential
// provider failover, and ledger writes. Provider submission for one
// transaction is strictly sequential; submitting the same logical charge to
// two gateways at once risks double-charging the payer.
type Orchestrator struct {
	registry   ports.ProviderRegistry
	txRepo     ports.TransactionRepository
	refundRepo ports.RefundRepository
	fraud      ports.FraudAssessor
	transactor ports.DBTransactor
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	registry ports.ProviderRegistry,
	txRepo ports.TransactionRepository,
	refundRepo ports.RefundRepository,
	fraud ports.FraudAssessor,
	transactor ports.DBTransactor,
	retryDelay time.Duration,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		txRepo:     txRepo,
		refundRepo: refundRepo,
		fraud:      fraud,
		transactor: transactor,
		retryDelay: retryDelay,
		log:        log,
	}
}

// SubmitPayment runs one logical charge through fraud screening and the
// provider failover chain. The returned transaction carries every attempt
// made, successful or not.
func (s *Orchestrator) SubmitPayment(ctx context.Context, req ports.PaymentRequest) (*domain.Transaction, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	assessment := s.fraud.Assess(ports.FraudInput{
		Amount:             req.Amount,
		Currency:           req.Currency,
		SettlementCurrency: req.SettlementCurrency,
		At:                 now,
		Signals:            req.Signals,
	})

	txn := &domain.Transaction{
		ID:             uuid.New(),
		TenantID:       req.TenantID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Method:         req.Method,
		Status:         domain.StatusAttempted,
		FraudScore:     assessment.Score,
		FraudRiskLevel: assessment.Level,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.txRepo.Create(ctx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
	}

	// Every write after this point records an outcome the ledger must hold
	// even if the caller has already disconnected.
	ledgerCtx := context.WithoutCancel(ctx)

	if assessment.Level == domain.RiskHigh {
		// Policy rejection: no gateway is contacted, but the blocked attempt
		// and its score stay in the ledger for audit.
		s.recordAttempt(ledgerCtx, txn, domain.Attempt{
			Result: domain.AttemptFraudBlocked,
			Reason: strings.Join(assessment.Factors, ","),
			At:     time.Now().UTC(),
		})
		s.markFailed(ledgerCtx, txn)
		s.log.Warn().
			Str("tx_id", txn.ID.String()).
			Str("tenant_id", txn.TenantID).
			Int("fraud_score", assessment.Score).
			Strs("factors", assessment.Factors).
			Msg("payment blocked by fraud screen")
		return txn, apperror.ErrFraudBlocked(assessment.Score)
	}

	candidates := s.eligibleProviders(req)
	if len(candidates) == 0 {
		s.markFailed(ledgerCtx, txn)
		return txn, apperror.ErrNoEligibleProvider()
	}

	sreq := ports.SubmitRequest{
		TransactionID: txn.ID,
		TenantID:      req.TenantID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        req.Method,
		Metadata:      req.Metadata,
	}

	var reasons []string
providerLoop:
	for _, p := range candidates {
		for try := 0; try < 2; try++ {
			// A caller may abandon the request between provider calls, never
			// during one.
			if ctx.Err() != nil {
				reasons = append(reasons, p.Name()+": request cancelled before submission")
				break providerLoop
			}

			outcome := s.dispatchSubmit(ctx, p, sreq)
			s.recordAttempt(ledgerCtx, txn, attemptFromOutcome(p.Name(), outcome))

			switch outcome.Result {
			case ports.OutcomeSuccess:
				return s.finalize(ledgerCtx, txn, p.Name(), outcome)
			case ports.OutcomeTransientFailure:
				reasons = append(reasons, p.Name()+": "+outcome.Reason)
				if try == 0 {
					// Single bounded retry on the same provider.
					if !s.waitRetry(ctx) {
						break providerLoop
					}
					continue
				}
			default:
				reasons = append(reasons, p.Name()+": "+outcome.Reason)
			}
			continue providerLoop
		}
	}

	s.markFailed(ledgerCtx, txn)
	s.log.Error().
		Str("tx_id", txn.ID.String()).
		Strs("reasons", reasons).
		Msg("all providers exhausted")
	return txn, apperror.ErrAllProvidersFailed(reasons)
}

// SubmitRefund returns funds against a prior charge, always through the
// gateway that processed the original transaction. The refundable-balance
// check and the refund reservation commit atomically under a row lock, so
// concurrent refunds can never overshoot the captured amount.
func (s *Orchestrator) SubmitRefund(ctx context.Context, req ports.RefundRequest) (*domain.Refund, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrValidation("refund amount must be positive")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	orig, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, req.TransactionID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock original tx: %w", err))
	}
	if orig == nil {
		return nil, apperror.ErrTransactionNotFound()
	}

	now := time.Now().UTC()
	refund := &domain.Refund{
		ID:            uuid.New(),
		TransactionID: orig.ID,
		Amount:        req.Amount,
		Status:        domain.RefundAttempted,
		Reason:        req.Reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var rejection *apperror.AppError
	switch {
	case !orig.IsRefundable():
		rejection = apperror.ErrNotRefundable(string(orig.Status))
	case orig.Provider == nil || orig.ProviderTransactionID == nil:
		rejection = apperror.ErrNotRefundable(string(orig.Status))
	default:
		reserved, sumErr := s.refundRepo.SumReserved(ctx, dbTx, orig.ID)
		if sumErr != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("sum reserved refunds: %w", sumErr))
		}
		if req.Amount.GreaterThan(orig.Amount.Sub(reserved)) {
			rejection = apperror.ErrRefundExceedsBalance()
		}
	}

	if rejection != nil {
		// Rejected before any provider call; the failed refund is still
		// recorded for audit.
		refund.Status = domain.RefundFailed
	}

	if err := s.refundRepo.Create(ctx, dbTx, refund); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create refund: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit refund reservation: %w", err))
	}
	if rejection != nil {
		return refund, rejection
	}

	// The reservation is committed; from here the refund's outcome must land
	// in the ledger even if the caller has already disconnected.
	ledgerCtx := context.WithoutCancel(ctx)

	adapter := s.registry.Get(*orig.Provider)
	if adapter == nil {
		s.failRefund(ledgerCtx, refund)
		return refund, apperror.ErrUnknownProvider(*orig.Provider)
	}

	outcome := s.dispatchRefund(ctx, adapter, *orig.ProviderTransactionID, req.Amount)
	if outcome.Result == ports.OutcomeTransientFailure && s.waitRetry(ctx) {
		outcome = s.dispatchRefund(ctx, adapter, *orig.ProviderTransactionID, req.Amount)
	}

	if outcome.Result != ports.OutcomeSuccess {
		s.failRefund(ledgerCtx, refund)
		return refund, apperror.ErrRefundFailed(outcome.Reason)
	}

	refund.Status = domain.RefundSucceeded
	refund.ProviderRefundID = &outcome.ProviderTransactionID
	if err := s.refundRepo.UpdateStatus(ledgerCtx, refund.ID, domain.RefundSucceeded, refund.ProviderRefundID); err != nil {
		// The provider already moved the money; the ledger write failure is
		// reported separately and never overrides the refund outcome.
		s.log.Error().Err(err).Str("refund_id", refund.ID.String()).Msg("refund succeeded but ledger write failed")
		return refund, apperror.ErrLedgerWrite(err)
	}

	s.advanceAfterRefund(ledgerCtx, orig)

	s.log.Info().
		Str("refund_id", refund.ID.String()).
		Str("tx_id", orig.ID.String()).
		Str("provider", *orig.Provider).
		Str("amount", req.Amount.String()).
		Msg("refund processed")
	return refund, nil
}

// GetTransaction fetches a transaction from the ledger.
func (s *Orchestrator) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return txn, nil
}

// ListTransactions returns a tenant-scoped page of ledger entries.
func (s *Orchestrator) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	items, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(err)
	}
	return items, total, nil
}

// ListRefunds returns all refunds recorded against a transaction.
func (s *Orchestrator) ListRefunds(ctx context.Context, transactionID uuid.UUID) ([]domain.Refund, error) {
	if _, err := s.GetTransaction(ctx, transactionID); err != nil {
		return nil, err
	}
	refunds, err := s.refundRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return refunds, nil
}

// RefreshStatus asks the resolving gateway for the current state of a
// transaction and applies any legal forward move it reports.
func (s *Orchestrator) RefreshStatus(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.Provider == nil || txn.ProviderTransactionID == nil {
		return txn, apperror.ErrStatusSyncUnavailable()
	}

	adapter := s.registry.Get(*txn.Provider)
	if adapter == nil {
		return txn, apperror.ErrUnknownProvider(*txn.Provider)
	}

	remote, err := adapter.FetchStatus(ctx, *txn.ProviderTransactionID)
	if err != nil {
		return txn, apperror.InternalError(fmt.Errorf("fetch status from %s: %w", *txn.Provider, err))
	}
	if remote == txn.Status {
		return txn, nil
	}
	if !domain.CanTransition(txn.Status, remote) {
		// The gateway's view lags the ledger; never move backward.
		s.log.Warn().
			Str("tx_id", txn.ID.String()).
			Str("ledger_status", string(txn.Status)).
			Str("gateway_status", string(remote)).
			Msg("gateway status would regress ledger, ignoring")
		return txn, nil
	}

	moved, err := s.txRepo.UpdateStatusIf(ctx, txn.ID, txn.Status, remote)
	if err != nil {
		return txn, apperror.ErrDatabaseError(err)
	}
	if moved {
		txn.Status = remote
	}
	return txn, nil
}

// --- internals ---

func validatePaymentRequest(req ports.PaymentRequest) *apperror.AppError {
	switch {
	case req.TenantID == "":
		return apperror.ErrValidation("tenant_id is required")
	case !req.Amount.IsPositive():
		return apperror.ErrValidation("amount must be positive")
	case !currencyPattern.MatchString(req.Currency):
		return apperror.ErrValidation("currency must be a 3-letter ISO-4217 code")
	case req.Method == "":
		return apperror.ErrValidation("payment_method is required")
	}
	return nil
}

// eligibleProviders filters the registry by static capability, preserving
// failover priority order.
func (s *Orchestrator) eligibleProviders(req ports.PaymentRequest) []ports.ProviderAdapter {
	var out []ports.ProviderAdapter
	for _, p := range s.registry.InOrder() {
		c := p.Capability()
		if c.SupportsCurrency(req.Currency) && c.SupportsMethod(req.Method) && c.SupportsAmount(req.Amount) {
			out = append(out, p)
		}
	}
	return out
}

// dispatchSubmit performs one gateway call. The call context is detached
// from the caller's: once a charge is in flight it runs to the adapter's
// own timeout, since interrupting it leaves the charge state unknown.
func (s *Orchestrator) dispatchSubmit(ctx context.Context, p ports.ProviderAdapter, req ports.SubmitRequest) ports.Outcome {
	return p.Submit(context.WithoutCancel(ctx), req)
}

func (s *Orchestrator) dispatchRefund(ctx context.Context, p ports.ProviderAdapter, providerTxID string, amount decimal.Decimal) ports.Outcome {
	return p.Refund(context.WithoutCancel(ctx), providerTxID, amount)
}

// waitRetry sleeps for the bounded retry delay. Returns false if the caller
// abandoned the request while waiting.
func (s *Orchestrator) waitRetry(ctx context.Context) bool {
	t := time.NewTimer(s.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func attemptFromOutcome(provider string, o ports.Outcome) domain.Attempt {
	result := domain.AttemptPermanentFailure
	switch o.Result {
	case ports.OutcomeSuccess:
		result = domain.AttemptSuccess
	case ports.OutcomeDeclined:
		result = domain.AttemptDeclined
	case ports.OutcomeTransientFailure:
		result = domain.AttemptTransientFailure
	}
	return domain.Attempt{
		Provider: provider,
		Result:   result,
		Reason:   o.Reason,
		At:       time.Now().UTC(),
	}
}

// recordAttempt appends to the in-memory chain and the durable ledger.
// A ledger write failure here is diagnostic-logged but never masks the
// payment outcome being computed.
func (s *Orchestrator) recordAttempt(ctx context.Context, txn *domain.Transaction, attempt domain.Attempt) {
	txn.Attempts = append(txn.Attempts, attempt)
	if err := s.txRepo.AppendAttempt(ctx, txn.ID, attempt); err != nil {
		s.log.Error().Err(err).
			Str("tx_id", txn.ID.String()).
			Str("provider", attempt.Provider).
			Msg("failed to persist attempt record")
	}
}

func (s *Orchestrator) markFailed(ctx context.Context, txn *domain.Transaction) {
	if _, err := s.txRepo.UpdateStatusIf(ctx, txn.ID, txn.Status, domain.StatusFailed); err != nil {
		s.log.Error().Err(err).Str("tx_id", txn.ID.String()).Msg("failed to mark transaction failed")
	}
	txn.Status = domain.StatusFailed
}

func (s *Orchestrator) finalize(ctx context.Context, txn *domain.Transaction, provider string, outcome ports.Outcome) (*domain.Transaction, error) {
	txn.Status = outcome.Status
	txn.Provider = &provider
	txn.ProviderTransactionID = &outcome.ProviderTransactionID

	if err := s.txRepo.SetResolution(ctx, txn.ID, provider, outcome.ProviderTransactionID, outcome.Status); err != nil {
		// The gateway accepted the charge; the ledger write failure is
		// reported separately and never overrides the payment outcome.
		s.log.Error().Err(err).Str("tx_id", txn.ID.String()).Msg("payment resolved but ledger write failed")
		return txn, apperror.ErrLedgerWrite(err)
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("tenant_id", txn.TenantID).
		Str("provider", provider).
		Str("status", string(outcome.Status)).
		Int("attempts", len(txn.Attempts)).
		Msg("payment resolved")
	return txn, nil
}

func (s *Orchestrator) failRefund(ctx context.Context, refund *domain.Refund) {
	refund.Status = domain.RefundFailed
	if err := s.refundRepo.UpdateStatus(ctx, refund.ID, domain.RefundFailed, nil); err != nil {
		s.log.Error().Err(err).Str("refund_id", refund.ID.String()).Msg("failed to release refund reservation")
	}
}

// advanceAfterRefund moves the original transaction to refunded or
// partially_refunded depending on the total refunded so far. A lost race
// against the reconciler is harmless: the ledger already reflects the
// newer state.
func (s *Orchestrator) advanceAfterRefund(ctx context.Context, orig *domain.Transaction) {
	refunded, err := s.refundRepo.SumSucceeded(ctx, orig.ID)
	if err != nil {
		s.log.Error().Err(err).Str("tx_id", orig.ID.String()).Msg("failed to sum refunds")
		return
	}

	target := domain.StatusPartiallyRefunded
	if refunded.GreaterThanOrEqual(orig.Amount) {
		target = domain.StatusRefunded
	}
	if target == orig.Status || !domain.CanTransition(orig.Status, target) {
		return
	}
	if _, err := s.txRepo.UpdateStatusIf(ctx, orig.ID, orig.Status, target); err != nil {
		s.log.Error().Err(err).Str("tx_id", orig.ID.String()).Msg("failed to advance transaction after refund")
	}
}
