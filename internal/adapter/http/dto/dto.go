package dto

// PaymentRequest is the request body for submitting a payment.
type PaymentRequest struct {
	TenantID           string            `json:"tenant_id" binding:"required,max=100"`
	Amount             string            `json:"amount" binding:"required"`
	Currency           string            `json:"currency" binding:"required,len=3"`
	Method             string            `json:"payment_method" binding:"required,max=50"`
	SettlementCurrency string            `json:"settlement_currency,omitempty"`
	Signals            []string          `json:"signals,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// RefundRequest is the request body for refunding a prior payment.
type RefundRequest struct {
	Amount string `json:"amount" binding:"required"`
	Reason string `json:"reason,omitempty" binding:"max=500"`
}

// FraudAssessRequest is the request body for a standalone risk assessment.
// It runs the same rule set as payment submission without touching the ledger.
type FraudAssessRequest struct {
	Amount             string   `json:"amount" binding:"required"`
	Currency           string   `json:"currency" binding:"required,len=3"`
	SettlementCurrency string   `json:"settlement_currency,omitempty"`
	At                 string   `json:"at,omitempty"` // RFC 3339; empty = now
	Signals            []string `json:"signals,omitempty"`
}

// AttemptResponse is one entry in a transaction's provider attempt chain.
type AttemptResponse struct {
	Provider string `json:"provider,omitempty"`
	Result   string `json:"result"`
	Reason   string `json:"reason,omitempty"`
	At       string `json:"at"`
}

// TransactionResponse is the response body for transaction results.
type TransactionResponse struct {
	ID                    string            `json:"id"`
	TenantID              string            `json:"tenant_id"`
	Amount                string            `json:"amount"`
	Currency              string            `json:"currency"`
	Method                string            `json:"payment_method"`
	Status                string            `json:"status"`
	Provider              *string           `json:"provider,omitempty"`
	ProviderTransactionID *string           `json:"provider_transaction_id,omitempty"`
	FraudScore            int               `json:"fraud_score"`
	FraudRiskLevel        string            `json:"fraud_risk_level"`
	Attempts              []AttemptResponse `json:"attempts"`
	CreatedAt             string            `json:"created_at"`
	UpdatedAt             string            `json:"updated_at"`
}

// RefundResponse is the response body for refund results.
type RefundResponse struct {
	ID               string  `json:"id"`
	TransactionID    string  `json:"original_transaction_id"`
	Amount           string  `json:"amount"`
	Status           string  `json:"status"`
	ProviderRefundID *string `json:"provider_refund_id,omitempty"`
	Reason           string  `json:"reason,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// FraudAssessResponse is the response body for a standalone risk assessment.
type FraudAssessResponse struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int64                 `json:"total_pages"`
}

// ReconcileResponse is the response body for a processed webhook delivery.
type ReconcileResponse struct {
	Disposition   string  `json:"disposition"`
	EventID       string  `json:"event_id"`
	TransactionID *string `json:"transaction_id,omitempty"`
	AppliedStatus *string `json:"applied_status,omitempty"`
}
