package core

import (
	"fmt"
	"strings"
	"sync"
)

// Derived credential slots written by the session manager.
const (
	KeyGigyaSession = "gigya_session"
	KeyPersonID     = "person_id"
	KeyAccessToken  = "access_token"
)

// Caller configuration keys. These survive Clear so a logout keeps the
// profile's chosen locale, account, and vehicle.
const (
	KeyLocale    = "locale"
	KeyCountry   = "country"
	KeyAccountID = "account_id"
	KeyVIN       = "vin"
)

var keyringKeys = map[string]struct{}{
	KeyGigyaSession: {},
	KeyPersonID:     {},
	KeyAccessToken:  {},
	KeyLocale:       {},
	KeyCountry:      {},
	KeyAccountID:    {},
	KeyVIN:          {},
}

var permanentKeyringKeys = map[string]struct{}{
	KeyLocale:    {},
	KeyCountry:   {},
	KeyAccountID: {},
	KeyVIN:       {},
}

// Keyring caches credentials for one signed-in profile. Reads are
// expiry-aware: an expired entry behaves as if the key were absent, so
// eviction is lazy and needs no timer. Every mutation persists synchronously
// through the injected Persistence backend; persistence failures propagate.
type Keyring struct {
	mu          sync.Mutex
	entries     map[string]Credential
	persistence Persistence
}

// NewKeyring builds a keyring, loading prior state from the persistence
// backend when one is provided. The access-token entry is re-decoded from its
// raw token string to recover its expiry; an entry that no longer decodes is
// dropped rather than trusted forever. Other entries load as permanent.
func NewKeyring(persistence Persistence) (*Keyring, error) {
	ring := &Keyring{
		entries:     map[string]Credential{},
		persistence: persistence,
	}
	if persistence == nil {
		return ring, nil
	}
	loaded, err := persistence.Load()
	if err != nil {
		return nil, PersistenceError(err, "core: load keyring")
	}
	for key, value := range loaded {
		if _, known := keyringKeys[key]; !known {
			continue
		}
		if key == KeyAccessToken {
			credential, decodeErr := ExpiringCredentialFromToken(value)
			if decodeErr != nil {
				continue
			}
			ring.entries[key] = credential
			continue
		}
		ring.entries[key] = PermanentCredential(value)
	}
	return ring, nil
}

// Get returns the credential for key only when it is present and not
// expired.
func (k *Keyring) Get(key string) (Credential, bool) {
	if k == nil {
		return Credential{}, false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	credential, ok := k.entries[key]
	if !ok || credential.Expired() {
		return Credential{}, false
	}
	return credential, true
}

// Has mirrors Get's expiry-aware semantics.
func (k *Keyring) Has(key string) bool {
	_, ok := k.Get(key)
	return ok
}

// Set stores a credential under one of the known keys and persists the
// keyring. Unknown keys are rejected at write time.
func (k *Keyring) Set(key string, credential Credential) error {
	if k == nil {
		return BadInputError("core: keyring is nil")
	}
	key = strings.TrimSpace(key)
	if _, known := keyringKeys[key]; !known {
		return BadInputError(fmt.Sprintf("core: unknown keyring key %q", key))
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries[key] = credential
	return k.save()
}

// Delete removes a single entry and persists the keyring. Removing an absent
// key is not an error.
func (k *Keyring) Delete(key string) error {
	if k == nil {
		return BadInputError("core: keyring is nil")
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.entries[key]; !ok {
		return nil
	}
	delete(k.entries, key)
	return k.save()
}

// Clear drops every non-permanent entry, keeping caller configuration, and
// persists the pruned map. Used on logout and before a fresh login.
func (k *Keyring) Clear() error {
	if k == nil {
		return nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	for key := range k.entries {
		if _, keep := permanentKeyringKeys[key]; keep {
			continue
		}
		delete(k.entries, key)
	}
	return k.save()
}

// Snapshot returns the raw entry map as it would be persisted. Expired
// entries are included verbatim; the expiry check belongs to reads.
func (k *Keyring) Snapshot() map[string]string {
	if k == nil {
		return map[string]string{}
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.snapshotLocked()
}

func (k *Keyring) snapshotLocked() map[string]string {
	out := make(map[string]string, len(k.entries))
	for key, credential := range k.entries {
		out[key] = credential.Value
	}
	return out
}

func (k *Keyring) save() error {
	if k.persistence == nil {
		return nil
	}
	if err := k.persistence.Save(k.snapshotLocked()); err != nil {
		return PersistenceError(err, "core: save keyring")
	}
	return nil
}
