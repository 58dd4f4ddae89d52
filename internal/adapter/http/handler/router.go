package handler

import (
	"scholarpay/internal/adapter/http/middleware"
	"scholarpay/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Orchestrator   ports.PaymentOrchestrator
	Assessor       ports.FraudAssessor
	Reconciler     ports.WebhookReconciler
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	paymentHandler := NewPaymentHandler(deps.Orchestrator)
	payments := v1.Group("/payments")
	{
		payments.POST("", paymentHandler.SubmitPayment)
		payments.GET("", paymentHandler.ListTransactions)
		payments.GET("/:id", paymentHandler.GetTransaction)
		payments.POST("/:id/refunds", paymentHandler.SubmitRefund)
		payments.GET("/:id/refunds", paymentHandler.ListRefunds)
		payments.POST("/:id/refresh", paymentHandler.RefreshStatus)
	}

	fraudHandler := NewFraudHandler(deps.Assessor)
	v1.POST("/fraud/assess", fraudHandler.Assess)

	webhookHandler := NewWebhookHandler(deps.Reconciler)
	v1.POST("/webhooks/:provider", webhookHandler.Receive)

	return r
}
