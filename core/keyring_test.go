package core

import (
	"errors"
	"testing"
	"time"
)

type fakePersistence struct {
	loaded    map[string]string
	saved     []map[string]string
	loadErr   error
	saveErr   error
	saveCalls int
}

func (p *fakePersistence) Load() (map[string]string, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	out := make(map[string]string, len(p.loaded))
	for key, value := range p.loaded {
		out[key] = value
	}
	return out, nil
}

func (p *fakePersistence) Save(entries map[string]string) error {
	p.saveCalls++
	if p.saveErr != nil {
		return p.saveErr
	}
	copied := make(map[string]string, len(entries))
	for key, value := range entries {
		copied[key] = value
	}
	p.saved = append(p.saved, copied)
	return nil
}

func TestKeyringRoundTrip(t *testing.T) {
	ring, err := NewKeyring(nil)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	if err := ring.Set(KeyGigyaSession, PermanentCredential("abc")); err != nil {
		t.Fatalf("set session: %v", err)
	}
	credential, ok := ring.Get(KeyGigyaSession)
	if !ok {
		t.Fatalf("expected cached session cookie")
	}
	if credential.Value != "abc" {
		t.Fatalf("expected value %q, got %q", "abc", credential.Value)
	}
}

func TestKeyringExpiredReadsAsAbsent(t *testing.T) {
	ring, err := NewKeyring(nil)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	expired := Credential{
		Value:     "stale-token",
		Kind:      CredentialExpiring,
		ExpiresAt: time.Now().Add(-time.Minute).UTC(),
	}
	if err := ring.Set(KeyAccessToken, expired); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if _, ok := ring.Get(KeyAccessToken); ok {
		t.Fatalf("expired entry should read as absent")
	}
	if ring.Has(KeyAccessToken) {
		t.Fatalf("Has should mirror Get expiry semantics")
	}
	// The raw entry is still persisted; only reads evict lazily.
	if ring.Snapshot()[KeyAccessToken] != "stale-token" {
		t.Fatalf("snapshot should keep the raw entry")
	}
}

func TestKeyringRejectsUnknownKeys(t *testing.T) {
	ring, err := NewKeyring(nil)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	if err := ring.Set("favorite_color", PermanentCredential("red")); err == nil {
		t.Fatalf("expected unknown key rejection")
	}
}

func TestKeyringClearKeepsConfiguration(t *testing.T) {
	ring, err := NewKeyring(nil)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	seed := map[string]Credential{
		KeyGigyaSession: PermanentCredential("cookie"),
		KeyPersonID:     PermanentCredential("p1"),
		KeyLocale:       PermanentCredential("fr_FR"),
		KeyAccountID:    PermanentCredential("account-1"),
		KeyVIN:          PermanentCredential("VF1AAAAA555777999"),
	}
	for key, credential := range seed {
		if err := ring.Set(key, credential); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := ring.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, key := range []string{KeyGigyaSession, KeyPersonID, KeyAccessToken} {
		if ring.Has(key) {
			t.Fatalf("expected %s cleared", key)
		}
	}
	for _, key := range []string{KeyLocale, KeyAccountID, KeyVIN} {
		if !ring.Has(key) {
			t.Fatalf("expected %s preserved", key)
		}
	}
}

func TestKeyringPersistsEveryMutation(t *testing.T) {
	persistence := &fakePersistence{}
	ring, err := NewKeyring(persistence)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	if err := ring.Set(KeyLocale, PermanentCredential("fr_FR")); err != nil {
		t.Fatalf("set locale: %v", err)
	}
	if err := ring.Set(KeyGigyaSession, PermanentCredential("cookie")); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := ring.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if persistence.saveCalls != 3 {
		t.Fatalf("expected 3 saves, got %d", persistence.saveCalls)
	}
	last := persistence.saved[len(persistence.saved)-1]
	if _, ok := last[KeyGigyaSession]; ok {
		t.Fatalf("cleared entry leaked into persisted map")
	}
	if last[KeyLocale] != "fr_FR" {
		t.Fatalf("configuration entry missing from persisted map")
	}
}

func TestKeyringPersistenceFailuresPropagate(t *testing.T) {
	persistence := &fakePersistence{saveErr: errors.New("disk full")}
	ring, err := NewKeyring(persistence)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	if err := ring.Set(KeyLocale, PermanentCredential("fr_FR")); err == nil {
		t.Fatalf("expected save failure to propagate")
	}
}

func TestKeyringLoadRecoversTokenExpiry(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second)
	token := makeToken(t, map[string]any{"exp": exp.Unix()})
	persistence := &fakePersistence{loaded: map[string]string{
		KeyAccessToken:  token,
		KeyGigyaSession: "cookie",
		KeyLocale:       "fr_FR",
		"unknown_key":   "dropped",
	}}

	ring, err := NewKeyring(persistence)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	credential, ok := ring.Get(KeyAccessToken)
	if !ok {
		t.Fatalf("expected loaded access token")
	}
	if credential.Kind != CredentialExpiring || !credential.ExpiresAt.Equal(exp) {
		t.Fatalf("expected recovered expiry %v, got %+v", exp, credential)
	}
	if cookie, _ := ring.Get(KeyGigyaSession); cookie.Kind != CredentialPermanent {
		t.Fatalf("expected permanent session cookie after load")
	}
	if ring.Has("unknown_key") {
		t.Fatalf("unknown persisted keys should be dropped on load")
	}
}

func TestKeyringLoadDropsUndecodableToken(t *testing.T) {
	persistence := &fakePersistence{loaded: map[string]string{
		KeyAccessToken: "not-a-token",
	}}
	ring, err := NewKeyring(persistence)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	if ring.Has(KeyAccessToken) {
		t.Fatalf("undecodable token entry should not survive load")
	}
}

func TestKeyringLoadFailurePropagates(t *testing.T) {
	persistence := &fakePersistence{loadErr: errors.New("corrupt store")}
	if _, err := NewKeyring(persistence); err == nil {
		t.Fatalf("expected load failure to propagate")
	}
}
