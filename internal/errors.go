package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorKind string

// Short error kinds used in the wire envelope. Clients branch on these.
const (
	KindValidation      ErrorKind = "Validation Error"
	KindAccessDenied    ErrorKind = "Access Denied"
	KindInvalidToken    ErrorKind = "Invalid Token"
	KindTokenExpired    ErrorKind = "Token Expired"
	KindAccountDisabled ErrorKind = "Account Disabled"
	KindInvalidLogin    ErrorKind = "Invalid Credentials"
	KindAccountLocked   ErrorKind = "Account Locked"
	KindForbidden       ErrorKind = "Forbidden"
	KindNotFound        ErrorKind = "Not Found"
	KindDuplicate       ErrorKind = "Duplicate"
	KindInvalidStatus   ErrorKind = "Invalid Status"
	KindInternal        ErrorKind = "Internal Server Error"
)

// AppError is the single error type handlers translate to HTTP responses.
// StatusCode and Cause never cross the wire.
type AppError struct {
	Kind       ErrorKind `json:"error"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error   ErrorKind `json:"error"`
		Message string    `json:"message"`
	}{
		Error:   e.Kind,
		Message: e.Message,
	})
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewAuthenticationError(kind ErrorKind, message string) *AppError {
	return &AppError{
		Kind:       kind,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Kind:       KindForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError reports a duplicate unique key. The original API surfaces
// duplicates as 400, not 409, and clients depend on that.
func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:       KindDuplicate,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInvalidStatusError(message string) *AppError {
	return &AppError{
		Kind:       KindInvalidStatus,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewLockedError(message string) *AppError {
	return &AppError{
		Kind:       KindAccountLocked,
		Message:    message,
		StatusCode: http.StatusLocked,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrMissingToken    = NewAuthenticationError(KindAccessDenied, "access token is required")
	ErrInvalidToken    = NewAuthenticationError(KindInvalidToken, "token is invalid")
	ErrTokenExpired    = NewAuthenticationError(KindTokenExpired, "token has expired")
	ErrAccountDisabled = NewAuthenticationError(KindAccountDisabled, "account is disabled")

	ErrInvalidCredentials = NewAuthenticationError(KindInvalidLogin, "username or password is incorrect")
	ErrAccountLocked      = NewLockedError("account is temporarily locked, try again later")
	ErrDuplicateUser      = NewConflictError("username or email already exists")

	ErrDuplicateQuoteNumber = NewConflictError("quote number already exists")

	ErrQuoteNotFound    = NewNotFoundError("quote not found")
	ErrUserNotFound     = NewNotFoundError("user not found")
	ErrCategoryNotFound = NewNotFoundError("product category not found")
	ErrModelNotFound    = NewNotFoundError("product model not found")

	ErrNotOwner = NewForbiddenError("no permission to access this resource")
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, e
}
