package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jomei/notionapi"

	"github.com/supportops/ticketsync/internal/config"
)

// Error codes carried by DomainError.
const (
	CodeMissingConfig    = "MISSING_CONFIG"
	CodeNotFound         = "NOT_FOUND"
	CodeRemoteFailure    = "REMOTE_FAILURE"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewMissingConfig reports settings that must be present before any remote call.
func NewMissingConfig(names []string) error {
	return NewDomainError(CodeMissingConfig, "missing required environment variables", http.StatusInternalServerError,
		map[string]any{"missing": names})
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
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

// NewRemoteFailure wraps a failed call to Notion or Freshdesk.
func NewRemoteFailure(service string, err error) error {
	return &DomainError{
		Code:       CodeRemoteFailure,
		Message:    service + " request failed",
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"service": service},
		Err:        err,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
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
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{Code: CodeNotFound, Message: "record not found", HTTPStatus: http.StatusNotFound, Err: err}
	}
	var missing *config.MissingSettingsError
	if errors.As(err, &missing) {
		return NewMissingConfig(missing.Names).(*DomainError)
	}
	var notionErr *notionapi.Error
	if errors.As(err, &notionErr) {
		switch notionErr.Code {
		case "object_not_found":
			return &DomainError{Code: CodeNotFound, Message: notionErr.Message, HTTPStatus: http.StatusNotFound, Err: err}
		case "unauthorized", "restricted_resource":
			return &DomainError{Code: CodeUnauthorized, Message: notionErr.Message, HTTPStatus: http.StatusUnauthorized, Err: err}
		}
		return NewRemoteFailure("notion", err).(*DomainError)
	}
	var statusErr interface{ StatusCode() int }
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode() == http.StatusNotFound {
			return &DomainError{Code: CodeNotFound, Message: err.Error(), HTTPStatus: http.StatusNotFound, Err: err}
		}
		return NewRemoteFailure("freshdesk", err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsNotFound reports whether err maps to CodeNotFound.
func IsNotFound(err error) bool {
	de := ToDomainError(err)
	return de != nil && de.Code == CodeNotFound
}

// IsUnauthorized reports whether err maps to CodeUnauthorized.
func IsUnauthorized(err error) bool {
	de := ToDomainError(err)
	return de != nil && de.Code == CodeUnauthorized
}
