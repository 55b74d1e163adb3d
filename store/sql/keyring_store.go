// Package sqlstore persists keyrings in a relational database, one row per
// profile entry. It satisfies the same Load/Save contract as the JSON file
// store, so multi-profile deployments can share one database instead of
// scattering keyring files.
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-telematics/core"
)

type KeyringStore struct {
	db      *bun.DB
	repo    repository.Repository[*keyringEntryRecord]
	profile string
}

// NewKeyringStore binds a store to one named profile. The persistence
// client may be a *bun.DB or anything exposing DB() *bun.DB, matching the
// go-persistence-bun client.
func NewKeyringStore(persistenceClient any, profile string) (*KeyringStore, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return nil, fmt.Errorf("sqlstore: profile name is required")
	}
	db, err := resolveBunDB(persistenceClient)
	if err != nil {
		return nil, err
	}
	repo := repository.NewRepository[*keyringEntryRecord](db, keyringEntryHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid keyring repository wiring: %w", err)
		}
	}
	return &KeyringStore{
		db:      db,
		repo:    repo,
		profile: profile,
	}, nil
}

// ResetSchema creates the keyring table when it does not exist yet.
func (s *KeyringStore) ResetSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: keyring store is not configured")
	}
	_, err := s.db.NewCreateTable().
		Model((*keyringEntryRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *KeyringStore) Load() (map[string]string, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: keyring store is not configured")
	}
	records, _, err := s.repo.List(context.Background(),
		repository.SelectBy("profile", "=", s.profile),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: load keyring for profile %q: %w", s.profile, err)
	}
	entries := make(map[string]string, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		entries[record.Key] = record.Value
	}
	return entries, nil
}

// Save replaces the profile's rows with the given snapshot in one
// transaction, so a crashed save never leaves a half-written keyring.
func (s *KeyringStore) Save(entries map[string]string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: keyring store is not configured")
	}
	now := time.Now().UTC()
	return s.db.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*keyringEntryRecord)(nil)).
			Where("profile = ?", s.profile).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("sqlstore: clear keyring rows: %w", err)
		}
		for key, value := range entries {
			record := &keyringEntryRecord{
				Profile:   s.profile,
				Key:       key,
				Value:     value,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := s.repo.CreateTx(ctx, tx, record); err != nil {
				return fmt.Errorf("sqlstore: insert keyring row %q: %w", key, err)
			}
		}
		return nil
	})
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}

var _ core.Persistence = (*KeyringStore)(nil)
