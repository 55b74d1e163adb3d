package kamereon

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrResourceFailed  = errors.New("kamereon: resource api call failed")
	ErrAccessDenied    = errors.New("kamereon: access denied")
	ErrNotFound        = errors.New("kamereon: resource not found")
	ErrNotSupported    = errors.New("kamereon: endpoint not supported for this vehicle")
	ErrInvalidUpstream = errors.New("kamereon: upstream vehicle data unavailable")
	ErrQuotaExceeded   = errors.New("kamereon: request quota exceeded")
	ErrInvalidInput    = errors.New("kamereon: invalid request input")
)

// Remote error codes the resource API is known to emit. Unmapped codes fall
// back to the generic sentinel but keep the raw code on the APIError.
var errorCodeTable = map[string]error{
	"err.func.403":              ErrAccessDenied,
	"err.func.404":              ErrNotFound,
	"err.tech.501":              ErrNotSupported,
	"err.tech.500":              ErrInvalidUpstream,
	"err.func.wired.overloaded": ErrQuotaExceeded,
	"err.func.400":              ErrInvalidInput,
}

// APIError is a well-formed resource-API response carrying a non-empty
// errors array; the first error wins.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return ErrResourceFailed.Error()
	}
	base := e.sentinel().Error()
	if strings.TrimSpace(e.Code) != "" {
		base += fmt.Sprintf(": code=%s", strings.TrimSpace(e.Code))
	}
	if strings.TrimSpace(e.Message) != "" {
		base += ": " + strings.TrimSpace(e.Message)
	}
	return base
}

func (e *APIError) Unwrap() error {
	return e.sentinel()
}

func (e *APIError) sentinel() error {
	if e == nil {
		return ErrResourceFailed
	}
	if sentinel, ok := errorCodeTable[strings.TrimSpace(e.Code)]; ok {
		return sentinel
	}
	return ErrResourceFailed
}

func newAPIError(code, message string) *APIError {
	return &APIError{
		Code:    strings.TrimSpace(code),
		Message: strings.TrimSpace(message),
	}
}
