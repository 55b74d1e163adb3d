// Package filestore is the reference keyring persistence: a JSON file with
// one entry per key. The access-token entry round-trips as its raw signed
// token string; the keyring re-decodes it on load to recover its expiry.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-telematics/core"
)

type Store struct {
	path string
}

// New creates the parent directory with owner-only permissions. Creation
// errors surface on the first Load or Save rather than here.
func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("filestore: path is required")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o700)
	return &Store{path: path}, nil
}

// DefaultPath places the keyring under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("filestore: resolve config dir: %w", err)
	}
	return filepath.Join(configDir, "telematics", "keyring.json"), nil
}

func (s *Store) Load() (map[string]string, error) {
	if s == nil {
		return nil, fmt.Errorf("filestore: store is nil")
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("filestore: read %s: %w", s.path, err)
	}
	var entries map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("filestore: parse %s: %w", s.path, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

func (s *Store) Save(entries map[string]string) error {
	if s == nil {
		return fmt.Errorf("filestore: store is nil")
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode keyring: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("filestore: write %s: %w", s.path, err)
	}
	return nil
}

var _ core.Persistence = (*Store)(nil)
