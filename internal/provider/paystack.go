package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"scholarpay/config"
	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Paystack adapts a Paystack-dialect API: bearer auth, hex HMAC-SHA512
// webhook signatures over the raw body, and an envelope response shape
// with a boolean status wrapper around the data object.
type Paystack struct {
	client        *gatewayClient
	webhookSecret string
	capability    domain.Capability
}

// NewPaystack builds the adapter from its configuration block.
func NewPaystack(cfg config.ProviderConfig) *Paystack {
	return &Paystack{
		client: newGatewayClient(cfg.BaseURL, cfg.Timeout, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
		webhookSecret: cfg.WebhookSecret,
		capability:    capabilityFromConfig(cfg),
	}
}

func (p *Paystack) Name() string { return "paystack" }

func (p *Paystack) Capability() domain.Capability { return p.capability }

// Initialize probes connectivity and credentials.
func (p *Paystack) Initialize(ctx context.Context) error {
	status, _, err := p.client.do(ctx, http.MethodGet, "/transaction/totals", nil)
	if err != nil {
		return fmt.Errorf("paystack unavailable: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("paystack unavailable: probe returned HTTP %d", status)
	}
	return nil
}

type paystackEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference       string `json:"reference"`
		Status          string `json:"status"`
		GatewayResponse string `json:"gateway_response"`
	} `json:"data"`
}

// Submit attempts exactly one charge.
func (p *Paystack) Submit(ctx context.Context, req ports.SubmitRequest) ports.Outcome {
	body := map[string]string{
		"amount":    req.Amount.String(),
		"currency":  req.Currency,
		"reference": req.TransactionID.String(),
		"channel":   req.Method,
	}

	status, respBody, err := p.client.do(ctx, http.MethodPost, "/transaction/charge", body)
	if err != nil {
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: err.Error()}
	}
	return p.parseOutcome(status, respBody)
}

// Refund returns funds against a prior charge.
func (p *Paystack) Refund(ctx context.Context, providerTxID string, amount decimal.Decimal) ports.Outcome {
	body := map[string]string{
		"transaction": providerTxID,
		"amount":      amount.String(),
	}

	status, respBody, err := p.client.do(ctx, http.MethodPost, "/refund", body)
	if err != nil {
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: err.Error()}
	}
	return p.parseOutcome(status, respBody)
}

// FetchStatus queries the gateway for the current transaction state.
func (p *Paystack) FetchStatus(ctx context.Context, providerTxID string) (domain.TransactionStatus, error) {
	status, respBody, err := p.client.do(ctx, http.MethodGet, "/transaction/verify/"+providerTxID, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("paystack status fetch returned HTTP %d", status)
	}

	var resp paystackEnvelope
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse paystack status: %w", err)
	}
	mapped, ok := paystackStatusMap[resp.Data.Status]
	if !ok {
		return "", fmt.Errorf("unknown paystack transaction status %q", resp.Data.Status)
	}
	return mapped, nil
}

var paystackStatusMap = map[string]domain.TransactionStatus{
	"success":   domain.StatusSucceeded,
	"pending":   domain.StatusPending,
	"ongoing":   domain.StatusPending,
	"failed":    domain.StatusFailed,
	"abandoned": domain.StatusFailed,
	"reversed":  domain.StatusRefunded,
}

func (p *Paystack) parseOutcome(status int, body []byte) ports.Outcome {
	var resp paystackEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		if retryableStatus(status) {
			return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: fmt.Sprintf("HTTP %d", status)}
		}
		return ports.Outcome{Result: ports.OutcomePermanentFailure, Reason: fmt.Sprintf("unparseable response (HTTP %d)", status)}
	}

	if retryableStatus(status) {
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: nonEmpty(resp.Message, fmt.Sprintf("HTTP %d", status))}
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return ports.Outcome{Result: ports.OutcomePermanentFailure, Reason: nonEmpty(resp.Message, fmt.Sprintf("HTTP %d", status))}
	}

	switch resp.Data.Status {
	case "success":
		return ports.Outcome{
			Result:                ports.OutcomeSuccess,
			ProviderTransactionID: resp.Data.Reference,
			Status:                domain.StatusSucceeded,
		}
	case "pending", "ongoing":
		return ports.Outcome{
			Result:                ports.OutcomeSuccess,
			ProviderTransactionID: resp.Data.Reference,
			Status:                domain.StatusPending,
		}
	default:
		return ports.Outcome{Result: ports.OutcomeDeclined, Reason: nonEmpty(resp.Data.GatewayResponse, resp.Data.Status)}
	}
}

// VerifySignature checks a hex HMAC-SHA512 of the raw payload.
// Returns false on any malformed input.
func (p *Paystack) VerifySignature(payload []byte, signatureHeader string) bool {
	if signatureHeader == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(p.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

type paystackEvent struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Data  struct {
		Reference       string `json:"reference"`
		Amount          string `json:"amount"`
		GatewayResponse string `json:"gateway_response"`
	} `json:"data"`
}

var paystackEventMap = map[string]domain.CanonicalEventType{
	// Paystack does not separate authorization from capture: a successful
	// charge is settled funds.
	"charge.success":        domain.EventCaptured,
	"charge.failed":         domain.EventFailed,
	"refund.processed":      domain.EventRefunded,
	"charge.dispute.create": domain.EventDisputed,
}

// TranslateEvent maps the event taxonomy into the canonical vocabulary.
func (p *Paystack) TranslateEvent(payload []byte) (domain.CanonicalEvent, error) {
	var evt paystackEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return domain.CanonicalEvent{}, fmt.Errorf("parse paystack event: %w", err)
	}

	canonical, ok := paystackEventMap[evt.Event]
	if !ok {
		return domain.CanonicalEvent{}, fmt.Errorf("unrecognized paystack event type %q", evt.Event)
	}
	if evt.ID == "" || evt.Data.Reference == "" {
		return domain.CanonicalEvent{}, fmt.Errorf("paystack event missing id or reference")
	}

	out := domain.CanonicalEvent{
		Type:                  canonical,
		EventID:               evt.ID,
		ProviderTransactionID: evt.Data.Reference,
		Reason:                evt.Data.GatewayResponse,
	}
	// refund.processed events carry the cumulative refunded total for the
	// transaction in the amount field.
	if evt.Data.Amount != "" {
		if amt, err := decimal.NewFromString(evt.Data.Amount); err == nil {
			out.Amount = &amt
		}
	}
	return out, nil
}
