package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorNotLoggedIn        = "TELEMATICS_NOT_LOGGED_IN"
	ErrorInvalidCredentials = "TELEMATICS_INVALID_CREDENTIALS"
	ErrorMalformedResponse  = "TELEMATICS_MALFORMED_RESPONSE"
	ErrorBadInput           = "TELEMATICS_BAD_INPUT"
	ErrorAccessDenied       = "TELEMATICS_ACCESS_DENIED"
	ErrorNotFound           = "TELEMATICS_NOT_FOUND"
	ErrorNotSupported       = "TELEMATICS_NOT_SUPPORTED"
	ErrorQuotaExceeded      = "TELEMATICS_QUOTA_EXCEEDED"
	ErrorInvalidUpstream    = "TELEMATICS_INVALID_UPSTREAM"
	ErrorExternalFailure    = "TELEMATICS_EXTERNAL_FAILURE"
	ErrorPersistence        = "TELEMATICS_PERSISTENCE_FAILED"
	ErrorInternal           = "TELEMATICS_INTERNAL_ERROR"
)

// NotLoggedInError reports a derivation attempted without a valid session
// cookie. It is a local state error, not a remote business failure.
func NotLoggedInError(message string) *goerrors.Error {
	if strings.TrimSpace(message) == "" {
		message = "core: not logged in"
	}
	return newCoreError(message, goerrors.CategoryAuth, ErrorNotLoggedIn)
}

// MalformedResponseError reports a success envelope that is missing a field
// the wire contract promises.
func MalformedResponseError(message string) *goerrors.Error {
	if strings.TrimSpace(message) == "" {
		message = "core: malformed remote response"
	}
	return newCoreError(message, goerrors.CategoryExternal, ErrorMalformedResponse)
}

func BadInputError(message string) *goerrors.Error {
	return newCoreError(message, goerrors.CategoryBadInput, ErrorBadInput)
}

// UpstreamStatusError reports a non-2xx HTTP status whose body carried no
// decodable error envelope (a proxy or gateway answering in place of the
// remote application). Distinct from MalformedResponseError, which is a 2xx
// body breaking the wire contract.
func UpstreamStatusError(status int, message string) *goerrors.Error {
	if strings.TrimSpace(message) == "" {
		message = "core: upstream returned an error status"
	}
	return ensureErrorEnvelope(
		goerrors.New(message, goerrors.CategoryExternal).
			WithTextCode(ErrorExternalFailure).
			WithMetadata(map[string]any{"status": status}),
	)
}

func PersistenceError(source error, message string) *goerrors.Error {
	if source == nil {
		return newCoreError(message, goerrors.CategoryInternal, ErrorPersistence)
	}
	return ensureErrorEnvelope(
		goerrors.Wrap(source, goerrors.CategoryInternal, message).
			WithTextCode(ErrorPersistence),
	)
}

func newCoreError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = statusForCategory(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryAuth:
		return ErrorNotLoggedIn
	case goerrors.CategoryAuthz:
		return ErrorAccessDenied
	case goerrors.CategoryNotFound:
		return ErrorNotFound
	case goerrors.CategoryRateLimit:
		return ErrorQuotaExceeded
	case goerrors.CategoryOperation:
		return ErrorNotSupported
	case goerrors.CategoryExternal:
		return ErrorExternalFailure
	default:
		return ErrorInternal
	}
}

func statusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryOperation:
		return http.StatusNotImplemented
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsNotLoggedIn reports whether err carries the not-logged-in text code at
// any level of its wrap chain.
func IsNotLoggedIn(err error) bool {
	return hasTextCode(err, ErrorNotLoggedIn)
}

// IsMalformedResponse reports whether err is a malformed success response.
func IsMalformedResponse(err error) bool {
	return hasTextCode(err, ErrorMalformedResponse)
}

// IsExternalFailure reports whether err is a transport-level failure: a
// network error or an error status with no application envelope.
func IsExternalFailure(err error) bool {
	return hasTextCode(err, ErrorExternalFailure)
}

func hasTextCode(err error, textCode string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}
