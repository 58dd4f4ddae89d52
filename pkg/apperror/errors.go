package apperror

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is a structured error that maps to HTTP responses. Every
// caller-visible failure carries a machine-distinguishable code plus a
// human-readable message; raw provider error text is never the sole signal.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// ErrValidation rejects bad caller input. Never retried.
func ErrValidation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrTransactionNotFound() *AppError {
	return New("VAL_002", "Transaction not found", http.StatusNotFound)
}

// ---- Fraud (FRD) ----

// ErrFraudBlocked is a policy rejection: never retried automatically,
// surfaced to a human reviewer.
func ErrFraudBlocked(score int) *AppError {
	return New("FRD_001", fmt.Sprintf("Payment blocked by fraud screen (score %d)", score), http.StatusForbidden)
}

// ---- Payment & Providers (PAY) ----

// ErrNoEligibleProvider means no configured gateway supports the requested
// currency, method, and amount.
func ErrNoEligibleProvider() *AppError {
	return New("PAY_001", "No configured provider supports this request", http.StatusUnprocessableEntity)
}

// ErrAllProvidersFailed is the aggregate failure after every candidate is
// exhausted. The message enumerates each provider's specific reason.
func ErrAllProvidersFailed(reasons []string) *AppError {
	return New("PAY_002",
		fmt.Sprintf("All providers failed: %s", strings.Join(reasons, "; ")),
		http.StatusBadGateway)
}

func ErrNotRefundable(status string) *AppError {
	return New("PAY_003", fmt.Sprintf("Transaction in status %q is not refundable", status), http.StatusBadRequest)
}

func ErrRefundExceedsBalance() *AppError {
	return New("PAY_004", "Refund amount exceeds remaining refundable balance", http.StatusBadRequest)
}

func ErrRefundFailed(reason string) *AppError {
	return New("PAY_005", fmt.Sprintf("Provider rejected refund: %s", reason), http.StatusBadGateway)
}

func ErrStatusSyncUnavailable() *AppError {
	return New("PAY_006", "Transaction has no resolving provider to query", http.StatusConflict)
}

// ---- Webhook Reconciliation (WHK) ----

func ErrUnknownProvider(name string) *AppError {
	return New("WHK_001", fmt.Sprintf("No provider configured with name %q", name), http.StatusNotFound)
}

// ErrInvalidSignature is a security rejection: always logged, never applied.
func ErrInvalidSignature() *AppError {
	return New("WHK_002", "Webhook signature verification failed", http.StatusUnauthorized)
}

func ErrEventTranslation(err error) *AppError {
	return Wrap("WHK_003", "Unrecognized webhook payload", http.StatusBadRequest, err)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrLedgerWrite reports a persistence failure that occurred while recording
// an already-resolved payment outcome. It is returned alongside the resolved
// transaction and never supersedes the payment result itself.
func ErrLedgerWrite(err error) *AppError {
	return Wrap("SYS_002", "Payment resolved but ledger write failed", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_003", "Internal database error", http.StatusInternalServerError, err)
}
