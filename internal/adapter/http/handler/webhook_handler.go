package handler

import (
	"io"

	"scholarpay/internal/adapter/http/dto"
	"scholarpay/internal/core/ports"
	"scholarpay/pkg/apperror"
	"scholarpay/pkg/response"

	"github.com/gin-gonic/gin"
)

// Signature header names by provider dialect.
const (
	headerStripeSignature   = "Stripe-Signature"
	headerAdyenSignature    = "X-Adyen-Hmac-Signature"
	headerPaystackSignature = "X-Paystack-Signature"
)

// WebhookHandler receives inbound gateway notifications.
type WebhookHandler struct {
	reconciler ports.WebhookReconciler
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(reconciler ports.WebhookReconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// Receive handles POST /api/v1/webhooks/:provider. Every recognized delivery
// gets a structured outcome; gateways retry anything non-2xx, so only
// rejections the gateway should retry (or stop retrying) return errors.
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := c.Param("provider")

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, apperror.ErrValidation("cannot read request body"))
		return
	}

	result, rerr := h.reconciler.Reconcile(c.Request.Context(), provider, payload, signatureHeader(c, provider))
	if rerr != nil {
		response.Error(c, rerr)
		return
	}

	resp := dto.ReconcileResponse{
		Disposition: string(result.Disposition),
		EventID:     result.EventID,
	}
	if result.TransactionID != nil {
		s := result.TransactionID.String()
		resp.TransactionID = &s
	}
	if result.AppliedStatus != nil {
		s := string(*result.AppliedStatus)
		resp.AppliedStatus = &s
	}
	response.OK(c, resp)
}

func signatureHeader(c *gin.Context, provider string) string {
	switch provider {
	case "stripe":
		return c.GetHeader(headerStripeSignature)
	case "adyen":
		return c.GetHeader(headerAdyenSignature)
	case "paystack":
		return c.GetHeader(headerPaystackSignature)
	default:
		return c.GetHeader("X-Webhook-Signature")
	}
}
