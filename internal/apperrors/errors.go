package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the acting user's role does not permit the operation.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// Errors surfaced by the status transition engine.
var (
	// ErrInvalidTransition indicates the target status is not a direct
	// successor of the program's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMissingPaymentDetails indicates a payment-completion transition
	// without voucher/EFT details.
	ErrMissingPaymentDetails = errors.New("missing payment details")
)

// Budget ledger errors.
var (
	// ErrInsufficientBudget indicates a program budget exceeding the user's remaining allocation.
	ErrInsufficientBudget = errors.New("insufficient remaining budget")

	// ErrInvalidAmount indicates a negative or otherwise unusable budget amount.
	ErrInvalidAmount = errors.New("invalid budget amount")
)

// Query/remark subsystem errors.
var (
	ErrEmptyQuery          = errors.New("query text must not be empty")
	ErrEmptyAnswer         = errors.New("answer text must not be empty")
	ErrEmptyRemark         = errors.New("remark text must not be empty")
	ErrAlreadyAnswered     = errors.New("query has already been answered")
	ErrQueryAlreadyPending = errors.New("an unanswered query is already pending on this program")
)

// ErrConcurrencyConflict indicates an atomic check-then-act section was
// invalidated by a concurrent writer; the caller may retry.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// AppError carries an HTTP-ish status code alongside a message and cause.
// Repositories use it for infrastructure failures that have no domain sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
