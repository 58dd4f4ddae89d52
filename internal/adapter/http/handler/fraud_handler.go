package handler

import (
	"scholarpay/internal/adapter/http/dto"
	"scholarpay/internal/core/ports"
	"scholarpay/pkg/apperror"
	"scholarpay/pkg/response"

	"github.com/gin-gonic/gin"
)

// FraudHandler exposes the risk screen as a standalone, ledger-free check.
type FraudHandler struct {
	assessor ports.FraudAssessor
}

// NewFraudHandler creates a new FraudHandler.
func NewFraudHandler(assessor ports.FraudAssessor) *FraudHandler {
	return &FraudHandler{assessor: assessor}
}

// Assess handles POST /api/v1/fraud/assess. It runs the same deterministic
// rule set as payment submission without creating a transaction.
func (h *FraudHandler) Assess(c *gin.Context) {
	var req dto.FraudAssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	amount, appErr := dto.ParseAmount(req.Amount)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	at, appErr := dto.ParseTimeOrNow(req.At)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	assessment := h.assessor.Assess(ports.FraudInput{
		Amount:             amount,
		Currency:           req.Currency,
		SettlementCurrency: req.SettlementCurrency,
		At:                 at,
		Signals:            req.Signals,
	})

	response.OK(c, dto.FraudAssessResponse{
		Score:   assessment.Score,
		Level:   string(assessment.Level),
		Factors: assessment.Factors,
	})
}
