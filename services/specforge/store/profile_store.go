// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
)

const profileKeyPrefix = "profile/"

// ProfileStore persists one UserProfile document per identity.
//
// The quota ledger is the only writer. Update runs its mutation inside a
// single transaction so that check-and-increment cannot interleave with a
// concurrent debit, closing the double-spend window the reference behavior
// left open across browser tabs.
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a ProfileStore over an open database.
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func profileKey(id string) []byte {
	return []byte(profileKeyPrefix + id)
}

// Get reads the profile for an identity. Returns ErrNotFound when no
// profile document exists yet.
func (s *ProfileStore) Get(ctx context.Context, id string) (*datatypes.UserProfile, error) {
	var profile datatypes.UserProfile

	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read profile %s: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Put writes the full profile document.
func (s *ProfileStore) Put(ctx context.Context, profile *datatypes.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", profile.ID, err)
	}
	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.ID), data)
	})
}

// Update applies fn to the stored profile inside one transaction and writes
// the result back. When no profile exists, fn receives a zero-value profile
// with only ID set, so first-read creation and mutation share one path.
// fn returning an error aborts the write and propagates unchanged.
func (s *ProfileStore) Update(ctx context.Context, id string, fn func(*datatypes.UserProfile) error) (*datatypes.UserProfile, error) {
	var updated datatypes.UserProfile

	err := s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		profile := datatypes.UserProfile{ID: id}

		item, err := txn.Get(profileKey(id))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("read profile %s: %w", id, err)
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &profile)
			}); err != nil {
				return fmt.Errorf("decode profile %s: %w", id, err)
			}
		}

		if err := fn(&profile); err != nil {
			return err
		}

		data, err := json.Marshal(&profile)
		if err != nil {
			return fmt.Errorf("marshal profile %s: %w", id, err)
		}
		if err := txn.Set(profileKey(id), data); err != nil {
			return fmt.Errorf("write profile %s: %w", id, err)
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
