package ports

import (
	"context"

	"scholarpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutcomeResult tags the result of a provider charge or refund call.
// The transient/permanent distinction is load-bearing: transient failures
// earn one bounded retry on the same provider, every other failure moves
// the orchestrator to the next candidate.
type OutcomeResult string

const (
	OutcomeSuccess          OutcomeResult = "success"
	OutcomeDeclined         OutcomeResult = "declined"
	OutcomeTransientFailure OutcomeResult = "transient_failure"
	OutcomePermanentFailure OutcomeResult = "permanent_failure"
)

// Outcome is the normalized result of one gateway call.
// Status is set only on success: StatusSucceeded, or StatusPending when the
// gateway confirms asynchronously.
type Outcome struct {
	Result                OutcomeResult
	ProviderTransactionID string
	Status                domain.TransactionStatus
	Reason                string
}

// SubmitRequest carries one charge to a gateway. TransactionID doubles as the
// idempotency reference sent to the provider.
type SubmitRequest struct {
	TransactionID uuid.UUID
	TenantID      string
	Amount        decimal.Decimal
	Currency      string
	Method        string
	Metadata      map[string]string
}

// ProviderRegistry exposes the configured adapters, immutable after startup.
// InOrder returns them in failover priority order.
type ProviderRegistry interface {
	Get(name string) ProviderAdapter
	InOrder() []ProviderAdapter
}

// ProviderAdapter normalizes one external gateway's charge, refund, status,
// and webhook APIs into a common contract. Submit, Refund, and FetchStatus
// perform outbound network calls; everything else is a pure function over
// its inputs.
type ProviderAdapter interface {
	// Name returns the configured provider name, unique within the registry.
	Name() string
	// Initialize performs one-time setup: credential check and connectivity
	// probe. Returns an error if the gateway cannot be reached.
	Initialize(ctx context.Context) error
	// Submit attempts exactly one charge.
	Submit(ctx context.Context, req SubmitRequest) Outcome
	// Refund returns funds against a prior charge on this gateway.
	Refund(ctx context.Context, providerTxID string, amount decimal.Decimal) Outcome
	// FetchStatus queries the gateway for the current normalized status.
	FetchStatus(ctx context.Context, providerTxID string) (domain.TransactionStatus, error)
	// VerifySignature checks an inbound notification against this gateway's
	// webhook secret. Pure; returns false on any malformed input, never panics.
	VerifySignature(payload []byte, signatureHeader string) bool
	// TranslateEvent maps the gateway's notification taxonomy into the shared
	// canonical vocabulary.
	TranslateEvent(payload []byte) (domain.CanonicalEvent, error)
	// Capability returns the static descriptor of what this gateway serves.
	Capability() domain.Capability
}
