package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
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

// ---- Request validation ----

// InvalidRequest covers malformed SMS payloads, non-positive amounts
// and self-transfers.
func InvalidRequest(message string) *AppError {
	return New("INVALID_REQUEST", message, http.StatusBadRequest)
}

// ---- Transfer business logic ----

// ErrInsufficientFunds carries the SMS-style status line as its message.
func ErrInsufficientFunds(message string) *AppError {
	return New("INSUFFICIENT_FUNDS", message, http.StatusPaymentRequired)
}

// ErrTransactionFailed means the atomic dual-balance update did not
// match both rows and was rolled back.
func ErrTransactionFailed(message string) *AppError {
	return New("TRANSACTION_FAILED", message, http.StatusInternalServerError)
}

func ErrNotFound(entity string) *AppError {
	return New("NOT_FOUND", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication ----

func ErrEmailTaken() *AppError {
	return New("EMAIL_TAKEN", "Email already registered", http.StatusBadRequest)
}

func ErrEmailNotFound() *AppError {
	return New("NOT_FOUND", "Email not found", http.StatusNotFound)
}

func ErrIncorrectPassword() *AppError {
	return New("INVALID_CREDENTIALS", "Incorrect password", http.StatusUnauthorized)
}

// ---- Rate limiting ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_LIMITED", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & infrastructure ----

// InternalError wraps a storage or infrastructure failure.
func InternalError(err error) *AppError {
	return Wrap("STORAGE_ERROR", "Internal server error", http.StatusInternalServerError, err)
}
