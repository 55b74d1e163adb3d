package identity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIdentityFailed     = errors.New("identity: provider call failed")
	ErrInvalidCredentials = errors.New("identity: invalid login id or password")
)

// Gigya-style error codes that mean the supplied account credentials were
// wrong, as opposed to any other provider failure. Callers re-prompt on
// these instead of aborting.
var invalidCredentialCodes = map[int]struct{}{
	403042: {},
	403043: {},
}

// APIError is a well-formed provider response with a non-zero error code.
type APIError struct {
	Code   int
	Detail string
}

func (e *APIError) Error() string {
	if e == nil {
		return ErrIdentityFailed.Error()
	}
	base := fmt.Sprintf("%s: code=%d", ErrIdentityFailed.Error(), e.Code)
	if strings.TrimSpace(e.Detail) != "" {
		base += ": " + strings.TrimSpace(e.Detail)
	}
	return base
}

func (e *APIError) Unwrap() error {
	if e != nil {
		if _, invalid := invalidCredentialCodes[e.Code]; invalid {
			return ErrInvalidCredentials
		}
	}
	return ErrIdentityFailed
}

func newAPIError(code int, detail string) *APIError {
	return &APIError{
		Code:   code,
		Detail: denestErrorDetails(detail),
	}
}
