package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to callers.
const (
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeExpired           = "TOKEN_EXPIRED"
	CodeInvalidSignature  = "INVALID_SIGNATURE"
	CodeWrongKey          = "WRONG_KEY"
	CodeWrongTokenType    = "WRONG_TOKEN_TYPE"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeSamePassword      = "SAME_PASSWORD"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Matching is done on Code only.
var (
	ErrInvalidCredential = NewDomainError(CodeInvalidCredential, "incorrect email or password", http.StatusUnauthorized, nil)
	ErrExpired           = NewDomainError(CodeExpired, "token expired", http.StatusUnauthorized, nil)
	ErrInvalidSignature  = NewDomainError(CodeInvalidSignature, "could not validate credentials", http.StatusUnauthorized, nil)
	ErrWrongKey          = NewDomainError(CodeWrongKey, "could not validate credentials", http.StatusUnauthorized, nil)
	ErrWrongTokenType    = NewDomainError(CodeWrongTokenType, "invalid token type", http.StatusUnauthorized, nil)
	ErrForbidden         = NewDomainError(CodeForbidden, "superuser access required", http.StatusForbidden, nil)
	ErrSamePassword      = NewDomainError(CodeSamePassword, "new password must be different from current password", http.StatusBadRequest, nil)
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// Wrap returns a copy of kind carrying cause for logging.
func Wrap(kind *DomainError, cause error) error {
	return &DomainError{
		Code:       kind.Code,
		Message:    kind.Message,
		HTTPStatus: kind.HTTPStatus,
		Details:    kind.Details,
		Err:        cause,
	}
}

// KindOf returns the code of err, or CodeInternal for foreign errors.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}
