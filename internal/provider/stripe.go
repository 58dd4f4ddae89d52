package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"scholarpay/config"
	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Stripe adapts a Stripe-dialect charges API to the ProviderAdapter contract:
// bearer-key auth, `t=...,v1=...` HMAC-SHA256 webhook signatures, and the
// dotted `payment_intent.*` / `charge.*` event taxonomy.
type Stripe struct {
	client        *gatewayClient
	webhookSecret string
	capability    domain.Capability
}

// NewStripe builds the adapter from its configuration block.
func NewStripe(cfg config.ProviderConfig) *Stripe {
	return &Stripe{
		client: newGatewayClient(cfg.BaseURL, cfg.Timeout, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
		webhookSecret: cfg.WebhookSecret,
		capability:    capabilityFromConfig(cfg),
	}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Capability() domain.Capability { return s.capability }

// Initialize probes the gateway's account endpoint to confirm credentials
// and connectivity.
func (s *Stripe) Initialize(ctx context.Context) error {
	status, _, err := s.client.do(ctx, http.MethodGet, "/v1/account", nil)
	if err != nil {
		return fmt.Errorf("stripe unavailable: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("stripe unavailable: probe returned HTTP %d", status)
	}
	return nil
}

type stripeChargeRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Source    string `json:"source"`
	Reference string `json:"reference"`
}

type stripeChargeResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	DeclineCode string `json:"decline_code"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Submit attempts exactly one charge.
func (s *Stripe) Submit(ctx context.Context, req ports.SubmitRequest) ports.Outcome {
	body := stripeChargeRequest{
		Amount:    req.Amount.String(),
		Currency:  strings.ToLower(req.Currency),
		Source:    req.Method,
		Reference: req.TransactionID.String(),
	}

	status, respBody, err := s.client.do(ctx, http.MethodPost, "/v1/charges", body)
	if err != nil {
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: err.Error()}
	}
	return s.parseChargeOutcome(status, respBody)
}

// Refund returns funds against a prior charge.
func (s *Stripe) Refund(ctx context.Context, providerTxID string, amount decimal.Decimal) ports.Outcome {
	body := map[string]string{
		"charge": providerTxID,
		"amount": amount.String(),
	}

	status, respBody, err := s.client.do(ctx, http.MethodPost, "/v1/refunds", body)
	if err != nil {
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: err.Error()}
	}
	return s.parseChargeOutcome(status, respBody)
}

// FetchStatus queries the gateway for the current charge state.
func (s *Stripe) FetchStatus(ctx context.Context, providerTxID string) (domain.TransactionStatus, error) {
	status, respBody, err := s.client.do(ctx, http.MethodGet, "/v1/charges/"+providerTxID, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("stripe status fetch returned HTTP %d", status)
	}

	var resp stripeChargeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse stripe status: %w", err)
	}
	mapped, ok := stripeStatusMap[resp.Status]
	if !ok {
		return "", fmt.Errorf("unknown stripe charge status %q", resp.Status)
	}
	return mapped, nil
}

var stripeStatusMap = map[string]domain.TransactionStatus{
	"succeeded":  domain.StatusSucceeded,
	"pending":    domain.StatusPending,
	"processing": domain.StatusPending,
	"captured":   domain.StatusCaptured,
	"failed":     domain.StatusFailed,
	"refunded":   domain.StatusRefunded,
	"disputed":   domain.StatusDisputed,
}

func (s *Stripe) parseChargeOutcome(status int, body []byte) ports.Outcome {
	var resp stripeChargeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if retryableStatus(status) {
			return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: fmt.Sprintf("HTTP %d", status)}
		}
		return ports.Outcome{Result: ports.OutcomePermanentFailure, Reason: fmt.Sprintf("unparseable response (HTTP %d)", status)}
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		switch resp.Status {
		case "succeeded", "captured":
			return ports.Outcome{
				Result:                ports.OutcomeSuccess,
				ProviderTransactionID: resp.ID,
				Status:                domain.StatusSucceeded,
			}
		case "pending", "processing":
			return ports.Outcome{
				Result:                ports.OutcomeSuccess,
				ProviderTransactionID: resp.ID,
				Status:                domain.StatusPending,
			}
		default:
			return ports.Outcome{Result: ports.OutcomeDeclined, Reason: nonEmpty(resp.DeclineCode, resp.Status)}
		}
	case status == http.StatusPaymentRequired:
		reason := resp.DeclineCode
		if reason == "" && resp.Error != nil {
			reason = resp.Error.Code
		}
		return ports.Outcome{Result: ports.OutcomeDeclined, Reason: nonEmpty(reason, "card_declined")}
	case retryableStatus(status):
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: fmt.Sprintf("HTTP %d", status)}
	default:
		reason := fmt.Sprintf("HTTP %d", status)
		if resp.Error != nil {
			reason = resp.Error.Code + ": " + resp.Error.Message
		}
		return ports.Outcome{Result: ports.OutcomePermanentFailure, Reason: reason}
	}
}

// VerifySignature checks a `t=<ts>,v1=<hex>` header against
// HMAC-SHA256(secret, "<ts>.<payload>"). Returns false on any malformed
// input.
func (s *Stripe) VerifySignature(payload []byte, signatureHeader string) bool {
	var ts, sig string
	for _, part := range strings.Split(signatureHeader, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(sig))
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
			// AmountRefunded is the cumulative refunded total on the charge.
			AmountRefunded string `json:"amount_refunded"`
			Reason         string `json:"reason"`
		} `json:"object"`
	} `json:"data"`
}

var stripeEventMap = map[string]domain.CanonicalEventType{
	"payment_intent.succeeded":      domain.EventAuthorized,
	"charge.captured":               domain.EventCaptured,
	"charge.refunded":               domain.EventRefunded,
	"charge.dispute.created":        domain.EventDisputed,
	"payment_intent.canceled":       domain.EventCancelled,
	"payment_intent.payment_failed": domain.EventFailed,
	"charge.failed":                 domain.EventFailed,
}

// TranslateEvent maps the dotted event taxonomy into the canonical vocabulary.
func (s *Stripe) TranslateEvent(payload []byte) (domain.CanonicalEvent, error) {
	var evt stripeEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return domain.CanonicalEvent{}, fmt.Errorf("parse stripe event: %w", err)
	}
	canonical, ok := stripeEventMap[evt.Type]
	if !ok {
		return domain.CanonicalEvent{}, fmt.Errorf("unrecognized stripe event type %q", evt.Type)
	}

	out := domain.CanonicalEvent{
		Type:                  canonical,
		EventID:               evt.ID,
		ProviderTransactionID: evt.Data.Object.ID,
		Reason:                evt.Data.Object.Reason,
	}
	if evt.Data.Object.AmountRefunded != "" {
		if amt, err := decimal.NewFromString(evt.Data.Object.AmountRefunded); err == nil {
			out.Amount = &amt
		}
	}
	if out.EventID == "" || out.ProviderTransactionID == "" {
		return domain.CanonicalEvent{}, fmt.Errorf("stripe event missing id or charge reference")
	}
	return out, nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
