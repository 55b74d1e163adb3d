package core

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CredentialKind distinguishes credentials that never expire from credentials
// whose lifetime is embedded in the token they were decoded from.
type CredentialKind string

const (
	CredentialPermanent CredentialKind = "permanent"
	CredentialExpiring  CredentialKind = "expiring"
)

// Credential is an immutable secret value with an expiry policy. Expiring
// credentials carry an absolute deadline captured once at construction time;
// refreshed credentials replace the old value, they never mutate it.
type Credential struct {
	Value     string
	Kind      CredentialKind
	ExpiresAt time.Time
}

// PermanentCredential wraps a secret that stays valid until explicitly
// removed (session cookies, opaque ids, caller configuration).
func PermanentCredential(value string) Credential {
	return Credential{
		Value: value,
		Kind:  CredentialPermanent,
	}
}

// ExpiringCredentialFromToken decodes the payload segment of a signed token
// and captures its `exp` claim as the credential deadline. No signature
// verification happens here: the token is only trusted by the remote service,
// this client reads the claim to know when to stop trusting its own cache.
func ExpiringCredentialFromToken(token string) (Credential, error) {
	token = strings.TrimSpace(token)
	claims, err := decodeTokenPayload(token)
	if err != nil {
		return Credential{}, err
	}
	exp := readClaimInt64(claims["exp"])
	if exp <= 0 {
		return Credential{}, fmt.Errorf("core: token payload is missing an exp claim")
	}
	return Credential{
		Value:     token,
		Kind:      CredentialExpiring,
		ExpiresAt: time.Unix(exp, 0).UTC(),
	}, nil
}

// Expired evaluates against the wall clock at call time, which is what makes
// lazy keyring eviction correct without a background timer. The expiry
// instant itself counts as expired.
func (c Credential) Expired() bool {
	return c.expiredAt(time.Now())
}

func (c Credential) expiredAt(now time.Time) bool {
	if c.Kind != CredentialExpiring {
		return false
	}
	return !now.UTC().Before(c.ExpiresAt)
}

func decodeTokenPayload(token string) (map[string]any, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("core: invalid signed token format")
	}
	decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("core: decode token payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("core: decode token claims: %w", err)
	}
	return payload, nil
}

func readClaimInt64(value any) int64 {
	switch typed := value.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0
		}
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
