package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"scholarpay/config"
	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Adyen adapts an Adyen-dialect payments API: X-API-Key auth, base64
// HMAC-SHA256 webhook signatures, and the upper-case event code taxonomy
// (AUTHORISATION, CAPTURE, CHARGEBACK, ...).
type Adyen struct {
	client        *gatewayClient
	webhookSecret string
	capability    domain.Capability
}

// NewAdyen builds the adapter from its configuration block.
func NewAdyen(cfg config.ProviderConfig) *Adyen {
	return &Adyen{
		client: newGatewayClient(cfg.BaseURL, cfg.Timeout, map[string]string{
			"X-API-Key": cfg.APIKey,
		}),
		webhookSecret: cfg.WebhookSecret,
		capability:    capabilityFromConfig(cfg),
	}
}

func (a *Adyen) Name() string { return "adyen" }

func (a *Adyen) Capability() domain.Capability { return a.capability }

// Initialize probes connectivity and credentials.
func (a *Adyen) Initialize(ctx context.Context) error {
	status, _, err := a.client.do(ctx, http.MethodGet, "/v1/me", nil)
	if err != nil {
		return fmt.Errorf("adyen unavailable: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("adyen unavailable: probe returned HTTP %d", status)
	}
	return nil
}

type adyenAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type adyenPaymentRequest struct {
	Amount        adyenAmount       `json:"amount"`
	Reference     string            `json:"reference"`
	PaymentMethod map[string]string `json:"paymentMethod"`
}

type adyenPaymentResponse struct {
	ResultCode    string `json:"resultCode"`
	PSPReference  string `json:"pspReference"`
	RefusalReason string `json:"refusalReason"`
}

// Submit attempts exactly one charge.
func (a *Adyen) Submit(ctx context.Context, req ports.SubmitRequest) ports.Outcome {
	body := adyenPaymentRequest{
		Amount:        adyenAmount{Currency: req.Currency, Value: req.Amount.String()},
		Reference:     req.TransactionID.String(),
		PaymentMethod: map[string]string{"type": req.Method},
	}

	status, respBody, err := a.client.do(ctx, http.MethodPost, "/v1/payments", body)
	if err != nil {
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: err.Error()}
	}
	return a.parsePaymentOutcome(status, respBody)
}

// Refund returns funds against a prior charge.
func (a *Adyen) Refund(ctx context.Context, providerTxID string, amount decimal.Decimal) ports.Outcome {
	body := map[string]any{
		"amount": adyenAmount{Value: amount.String()},
	}

	status, respBody, err := a.client.do(ctx, http.MethodPost, "/v1/payments/"+providerTxID+"/refunds", body)
	if err != nil {
		return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: err.Error()}
	}
	return a.parsePaymentOutcome(status, respBody)
}

// FetchStatus queries the gateway for the current payment state.
func (a *Adyen) FetchStatus(ctx context.Context, providerTxID string) (domain.TransactionStatus, error) {
	status, respBody, err := a.client.do(ctx, http.MethodGet, "/v1/payments/"+providerTxID, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("adyen status fetch returned HTTP %d", status)
	}

	var resp adyenPaymentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse adyen status: %w", err)
	}
	mapped, ok := adyenResultMap[resp.ResultCode]
	if !ok {
		return "", fmt.Errorf("unknown adyen result code %q", resp.ResultCode)
	}
	return mapped, nil
}

var adyenResultMap = map[string]domain.TransactionStatus{
	"Authorised": domain.StatusSucceeded,
	"Captured":   domain.StatusCaptured,
	"Pending":    domain.StatusPending,
	"Received":   domain.StatusPending,
	"Refused":    domain.StatusFailed,
	"Error":      domain.StatusFailed,
	"Cancelled":  domain.StatusFailed,
	"Refunded":   domain.StatusRefunded,
}

func (a *Adyen) parsePaymentOutcome(status int, body []byte) ports.Outcome {
	var resp adyenPaymentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if retryableStatus(status) {
			return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: fmt.Sprintf("HTTP %d", status)}
		}
		return ports.Outcome{Result: ports.OutcomePermanentFailure, Reason: fmt.Sprintf("unparseable response (HTTP %d)", status)}
	}

	if status != http.StatusOK && status != http.StatusCreated {
		if retryableStatus(status) {
			return ports.Outcome{Result: ports.OutcomeTransientFailure, Reason: fmt.Sprintf("HTTP %d", status)}
		}
		return ports.Outcome{Result: ports.OutcomePermanentFailure, Reason: nonEmpty(resp.RefusalReason, fmt.Sprintf("HTTP %d", status))}
	}

	switch resp.ResultCode {
	case "Authorised", "Captured":
		return ports.Outcome{
			Result:                ports.OutcomeSuccess,
			ProviderTransactionID: resp.PSPReference,
			Status:                domain.StatusSucceeded,
		}
	case "Pending", "Received":
		return ports.Outcome{
			Result:                ports.OutcomeSuccess,
			ProviderTransactionID: resp.PSPReference,
			Status:                domain.StatusPending,
		}
	case "Refused":
		return ports.Outcome{Result: ports.OutcomeDeclined, Reason: nonEmpty(resp.RefusalReason, "refused")}
	default:
		return ports.Outcome{Result: ports.OutcomePermanentFailure, Reason: nonEmpty(resp.RefusalReason, "result code "+resp.ResultCode)}
	}
}

// VerifySignature checks a base64 HMAC-SHA256 of the raw payload.
// Returns false on any malformed input.
func (a *Adyen) VerifySignature(payload []byte, signatureHeader string) bool {
	if signatureHeader == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

type adyenNotification struct {
	EventCode         string      `json:"eventCode"`
	PSPReference      string      `json:"pspReference"`
	OriginalReference string      `json:"originalReference"`
	Success           string      `json:"success"`
	Reason            string      `json:"reason"`
	Amount            adyenAmount `json:"amount"`
}

var adyenEventMap = map[string]domain.CanonicalEventType{
	"AUTHORISATION": domain.EventAuthorized,
	"CAPTURE":       domain.EventCaptured,
	"REFUND":        domain.EventRefunded,
	"CHARGEBACK":    domain.EventDisputed,
	"CANCELLATION":  domain.EventCancelled,
}

// TranslateEvent maps the upper-case event code taxonomy into the canonical
// vocabulary. A notification with success="false" translates to a failed
// event regardless of its code.
func (a *Adyen) TranslateEvent(payload []byte) (domain.CanonicalEvent, error) {
	var n adyenNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return domain.CanonicalEvent{}, fmt.Errorf("parse adyen notification: %w", err)
	}

	canonical, ok := adyenEventMap[n.EventCode]
	if !ok {
		return domain.CanonicalEvent{}, fmt.Errorf("unrecognized adyen event code %q", n.EventCode)
	}
	if n.Success == "false" {
		canonical = domain.EventFailed
	}

	// The pspReference of the notification identifies the event; the
	// originalReference points back at the payment. AUTHORISATION events
	// reference the payment directly.
	providerTxID := n.OriginalReference
	if providerTxID == "" {
		providerTxID = n.PSPReference
	}
	if n.PSPReference == "" || providerTxID == "" {
		return domain.CanonicalEvent{}, fmt.Errorf("adyen notification missing psp reference")
	}

	out := domain.CanonicalEvent{
		Type:                  canonical,
		EventID:               n.PSPReference,
		ProviderTransactionID: providerTxID,
		Reason:                n.Reason,
	}
	// REFUND notifications carry the cumulative refunded total for the
	// payment in the amount block.
	if n.Amount.Value != "" {
		if amt, err := decimal.NewFromString(n.Amount.Value); err == nil {
			out.Amount = &amt
		}
	}
	return out, nil
}
