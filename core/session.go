package core

import (
	"context"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Session owns the derivation chain from account credentials to the
// short-lived access token: login cookie -> person id -> signed token. It is
// a thin orchestrator over the keyring; the keyring holds all mutable state.
//
// Each derived slot is filled lazily on first use, so a cached value
// satisfies steady-state calls with zero network round-trips, and a login
// succeeds even when the account-info or token endpoints are transiently
// down. An expired access token is re-minted from the existing session
// cookie; only a missing or expired cookie surfaces as not-logged-in.
type Session struct {
	keyring         *Keyring
	identity        IdentityClient
	logger          Logger
	metricsRecorder MetricsRecorder
}

type SessionOption func(*Session)

func WithSessionLogger(logger Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithSessionMetricsRecorder(recorder MetricsRecorder) SessionOption {
	return func(s *Session) {
		s.metricsRecorder = recorder
	}
}

// NewSession wires a session manager over a keyring, which may already be
// populated from persistence. The keyring is shared, not owned: callers that
// hand one keyring to several sessions serialize writes themselves.
func NewSession(keyring *Keyring, identity IdentityClient, opts ...SessionOption) (*Session, error) {
	if keyring == nil {
		return nil, BadInputError("core: session requires a keyring")
	}
	if identity == nil {
		return nil, BadInputError("core: session requires an identity client")
	}
	session := &Session{
		keyring:         keyring,
		identity:        identity,
		logger:          glog.Nop(),
		metricsRecorder: NopMetricsRecorder{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(session)
	}
	if session.logger == nil {
		session.logger = glog.Nop()
	}
	if session.metricsRecorder == nil {
		session.metricsRecorder = NopMetricsRecorder{}
	}
	return session, nil
}

// Keyring exposes the backing store for composition roots that persist
// caller configuration through it.
func (s *Session) Keyring() *Keyring {
	if s == nil {
		return nil
	}
	return s.keyring
}

// LoggedIn reports whether a usable session cookie is cached. A cleared or
// never-populated keyring is indistinguishable from a logged-out one; there
// is no separate flag.
func (s *Session) LoggedIn() bool {
	return s != nil && s.keyring.Has(KeyGigyaSession)
}

// Login authenticates against the identity provider and caches the session
// cookie. Prior derived credentials are cleared first, even when still
// valid: a fresh login always invalidates the previous derivation chain. The
// derived slots stay empty until first use.
func (s *Session) Login(ctx context.Context, loginID, password string) error {
	startedAt := time.Now().UTC()
	err := s.login(ctx, loginID, password)
	s.observe(ctx, startedAt, "session_login", err, map[string]any{
		"login_id": strings.TrimSpace(loginID),
	})
	return err
}

func (s *Session) login(ctx context.Context, loginID, password string) error {
	if s == nil {
		return BadInputError("core: session is nil")
	}
	loginID = strings.TrimSpace(loginID)
	if loginID == "" {
		return BadInputError("core: login id is required")
	}
	if password == "" {
		return BadInputError("core: password is required")
	}
	if err := s.keyring.Clear(); err != nil {
		return err
	}
	cookie, err := s.identity.Login(ctx, loginID, password)
	if err != nil {
		return err
	}
	return s.keyring.Set(KeyGigyaSession, PermanentCredential(cookie))
}

// PersonID returns the cached account-holder id, resolving and caching it on
// first use. The cache-hit path issues no network call.
func (s *Session) PersonID(ctx context.Context) (string, error) {
	startedAt := time.Now().UTC()
	personID, cached, err := s.personID(ctx)
	if cached {
		return personID, err
	}
	s.observe(ctx, startedAt, "session_resolve_person", err, map[string]any{})
	return personID, err
}

func (s *Session) personID(ctx context.Context) (string, bool, error) {
	if s == nil {
		return "", false, BadInputError("core: session is nil")
	}
	if credential, ok := s.keyring.Get(KeyPersonID); ok {
		return credential.Value, true, nil
	}
	cookie, ok := s.keyring.Get(KeyGigyaSession)
	if !ok {
		return "", false, NotLoggedInError("core: resolve person id requires a login")
	}
	personID, err := s.identity.PersonID(ctx, cookie.Value)
	if err != nil {
		return "", false, err
	}
	if err := s.keyring.Set(KeyPersonID, PermanentCredential(personID)); err != nil {
		return "", false, err
	}
	return personID, false, nil
}

// AccessToken returns a valid signed access token, minting one from the
// cached session cookie when the slot is empty or expired. Expiry is decoded
// from the token itself; nothing is written on a failed mint.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	startedAt := time.Now().UTC()
	token, cached, err := s.accessToken(ctx)
	if cached {
		return token, err
	}
	s.observe(ctx, startedAt, "session_mint_token", err, map[string]any{})
	return token, err
}

func (s *Session) accessToken(ctx context.Context) (string, bool, error) {
	if s == nil {
		return "", false, BadInputError("core: session is nil")
	}
	if credential, ok := s.keyring.Get(KeyAccessToken); ok {
		return credential.Value, true, nil
	}
	cookie, ok := s.keyring.Get(KeyGigyaSession)
	if !ok {
		return "", false, NotLoggedInError("core: mint access token requires a login")
	}
	token, err := s.identity.JWT(ctx, cookie.Value)
	if err != nil {
		return "", false, err
	}
	credential, err := ExpiringCredentialFromToken(token)
	if err != nil {
		return "", false, MalformedResponseError("core: minted token is not decodable: " + err.Error())
	}
	if err := s.keyring.Set(KeyAccessToken, credential); err != nil {
		return "", false, err
	}
	return token, false, nil
}

// Logout drops the derived credentials while keeping caller configuration.
func (s *Session) Logout() error {
	if s == nil {
		return nil
	}
	return s.keyring.Clear()
}

func (s *Session) observe(ctx context.Context, startedAt time.Time, operation string, err error, fields map[string]any) {
	if s == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	s.metricsRecorder.IncCounter(ctx, "telematics."+operation+".total", 1, tags)
	s.metricsRecorder.ObserveHistogram(ctx, "telematics."+operation+".duration_ms", float64(time.Since(startedAt).Milliseconds()), tags)

	logFields := cloneFields(fields)
	logFields["status"] = status
	logFields["duration_ms"] = time.Since(startedAt).Milliseconds()
	if err != nil {
		logFields["error"] = err.Error()
		logWithFields(ctx, s.logger, "error", operation+" failed", logFields)
		return
	}
	logWithFields(ctx, s.logger, "info", operation+" succeeded", logFields)
}
