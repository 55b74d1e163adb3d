package filestore

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-telematics/core"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile", "keyring.json")
	store, err := New(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	entries := map[string]string{
		core.KeyGigyaSession: "cookie",
		core.KeyLocale:       "fr_FR",
	}
	if err := store.Save(entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded[core.KeyGigyaSession] != "cookie" || loaded[core.KeyLocale] != "fr_FR" {
		t.Fatalf("unexpected entries %#v", loaded)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty map for a missing file, got %#v", loaded)
	}
}

func TestKeyringOverFileStoreRecoversExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyring.json")
	store, err := New(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ring, err := core.NewKeyring(store)
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	if err := ring.Set(core.KeyLocale, core.PermanentCredential("fr_FR")); err != nil {
		t.Fatalf("set locale: %v", err)
	}

	reopened, err := core.NewKeyring(store)
	if err != nil {
		t.Fatalf("reopen keyring: %v", err)
	}
	if !reopened.Has(core.KeyLocale) {
		t.Fatalf("expected persisted locale after reopen")
	}
}
