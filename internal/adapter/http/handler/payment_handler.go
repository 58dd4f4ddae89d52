package handler

import (
	"strconv"
	"time"

	"scholarpay/internal/adapter/http/dto"
	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"
	"scholarpay/pkg/apperror"
	"scholarpay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment and refund endpoints.
type PaymentHandler struct {
	orchestrator ports.PaymentOrchestrator
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(orchestrator ports.PaymentOrchestrator) *PaymentHandler {
	return &PaymentHandler{orchestrator: orchestrator}
}

// SubmitPayment handles POST /api/v1/payments.
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	amount, appErr := dto.ParseAmount(req.Amount)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	txn, err := h.orchestrator.SubmitPayment(c.Request.Context(), ports.PaymentRequest{
		TenantID:           req.TenantID,
		Amount:             amount,
		Currency:           req.Currency,
		Method:             req.Method,
		SettlementCurrency: req.SettlementCurrency,
		Signals:            req.Signals,
		Metadata:           req.Metadata,
	})
	if err != nil {
		// A fraud block or exhausted failover still produced a ledger entry;
		// the error envelope alone tells the caller what happened.
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// SubmitRefund handles POST /api/v1/payments/:id/refunds.
func (h *PaymentHandler) SubmitRefund(c *gin.Context) {
	id, appErr := parseID(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	amount, appErr := dto.ParseAmount(req.Amount)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	refund, err := h.orchestrator.SubmitRefund(c.Request.Context(), ports.RefundRequest{
		TransactionID: id,
		Amount:        amount,
		Reason:        req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRefundResponse(refund))
}

// GetTransaction handles GET /api/v1/payments/:id.
func (h *PaymentHandler) GetTransaction(c *gin.Context) {
	id, appErr := parseID(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	txn, err := h.orchestrator.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponse(txn))
}

// ListTransactions handles GET /api/v1/payments.
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		response.Error(c, apperror.ErrValidation("tenant_id is required"))
		return
	}

	params := ports.TransactionListParams{
		TenantID: tenantID,
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}
	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}

	items, total, err := h.orchestrator.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.TransactionListResponse{
		Items:    make([]dto.TransactionResponse, 0, len(items)),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	for i := range items {
		resp.Items = append(resp.Items, toTransactionResponse(&items[i]))
	}
	if params.PageSize > 0 {
		resp.TotalPages = (total + int64(params.PageSize) - 1) / int64(params.PageSize)
	}
	response.OK(c, resp)
}

// ListRefunds handles GET /api/v1/payments/:id/refunds.
func (h *PaymentHandler) ListRefunds(c *gin.Context) {
	id, appErr := parseID(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	refunds, err := h.orchestrator.ListRefunds(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.RefundResponse, 0, len(refunds))
	for i := range refunds {
		out = append(out, toRefundResponse(&refunds[i]))
	}
	response.OK(c, out)
}

// RefreshStatus handles POST /api/v1/payments/:id/refresh.
func (h *PaymentHandler) RefreshStatus(c *gin.Context) {
	id, appErr := parseID(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	txn, err := h.orchestrator.RefreshStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponse(txn))
}

func parseID(c *gin.Context) (uuid.UUID, *apperror.AppError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.ErrValidation("id must be a UUID")
	}
	return id, nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:                    t.ID.String(),
		TenantID:              t.TenantID,
		Amount:                t.Amount.String(),
		Currency:              t.Currency,
		Method:                t.Method,
		Status:                string(t.Status),
		Provider:              t.Provider,
		ProviderTransactionID: t.ProviderTransactionID,
		FraudScore:            t.FraudScore,
		FraudRiskLevel:        string(t.FraudRiskLevel),
		Attempts:              make([]dto.AttemptResponse, 0, len(t.Attempts)),
		CreatedAt:             t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             t.UpdatedAt.Format(time.RFC3339),
	}
	for _, a := range t.Attempts {
		resp.Attempts = append(resp.Attempts, dto.AttemptResponse{
			Provider: a.Provider,
			Result:   string(a.Result),
			Reason:   a.Reason,
			At:       a.At.Format(time.RFC3339),
		})
	}
	return resp
}

func toRefundResponse(r *domain.Refund) dto.RefundResponse {
	return dto.RefundResponse{
		ID:               r.ID.String(),
		TransactionID:    r.TransactionID.String(),
		Amount:           r.Amount.String(),
		Status:           string(r.Status),
		ProviderRefundID: r.ProviderRefundID,
		Reason:           r.Reason,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
}
