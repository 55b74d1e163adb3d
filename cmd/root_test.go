package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/kamereon"
	filestore "github.com/goliatone/go-telematics/store/file"
)

func resetFlags() {
	configPath = ""
	keyringPath = ""
	localeFlag = ""
	accountFlag = ""
	vinFlag = ""
	verbose = false
}

func TestSetPersistsSelection(t *testing.T) {
	resetFlags()
	path := filepath.Join(t.TempDir(), "keyring.json")

	out := &bytes.Buffer{}
	RootCmd.SetOut(out)
	RootCmd.SetErr(out)
	RootCmd.SetArgs([]string{"set",
		"--keyring", path,
		"--locale", "fr_FR",
		"--account", "acct-9",
		"--vin", "VF1TEST",
	})
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("execute set: %v", err)
	}

	store, err := filestore.New(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	entries, err := store.Load()
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	if entries[core.KeyLocale] != "fr_FR" {
		t.Fatalf("stored locale = %q", entries[core.KeyLocale])
	}
	if entries[core.KeyCountry] != "FR" {
		t.Fatalf("stored country = %q", entries[core.KeyCountry])
	}
	if entries[core.KeyAccountID] != "acct-9" {
		t.Fatalf("stored account = %q", entries[core.KeyAccountID])
	}
	if entries[core.KeyVIN] != "VF1TEST" {
		t.Fatalf("stored vin = %q", entries[core.KeyVIN])
	}
}

func TestSetWithoutSelectionFails(t *testing.T) {
	resetFlags()
	keyringPath = filepath.Join(t.TempDir(), "keyring.json")

	RootCmd.SetOut(&bytes.Buffer{})
	RootCmd.SetErr(&bytes.Buffer{})
	RootCmd.SetArgs([]string{"set", "--keyring", keyringPath})
	if err := RootCmd.Execute(); err == nil {
		t.Fatalf("expected error when nothing is set")
	}
}

func TestNewFileRawConfigLoader(t *testing.T) {
	resetFlags()
	path := filepath.Join(t.TempDir(), "config.json")
	payload := `{"locale":"de_DE","identity":{"url":"https://identity.example.com","api_key":"key"}}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loader, err := newFileRawConfigLoader(path)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	values, err := loader.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if values["locale"] != "de_DE" {
		t.Fatalf("locale = %v", values["locale"])
	}

	if _, err := newFileRawConfigLoader(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestFindSchedule(t *testing.T) {
	schedules := []kamereon.ChargeSchedule{{ID: 1}, {ID: 4}}
	if found := findSchedule(schedules, 4); found == nil || found.ID != 4 {
		t.Fatalf("findSchedule(4) = %+v", found)
	}
	if found := findSchedule(schedules, 9); found != nil {
		t.Fatalf("expected nil for unknown schedule id")
	}
	// Mutations through the pointer must land in the backing slice.
	found := findSchedule(schedules, 1)
	found.Activated = true
	if !schedules[0].Activated {
		t.Fatalf("expected mutation to reach the backing slice")
	}
}
