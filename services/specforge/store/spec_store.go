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
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
)

const specKeyPrefix = "spec/"

// SpecStore persists saved specification records. Records are keyed by id
// and carry their owner; every mutating operation checks ownership and
// returns ErrAccessDenied on a mismatch rather than pretending the record
// does not exist.
type SpecStore struct {
	db  *DB
	now func() time.Time
}

// NewSpecStore creates a SpecStore over an open database.
func NewSpecStore(db *DB) *SpecStore {
	return &SpecStore{db: db, now: time.Now}
}

func specKey(id string) []byte {
	return []byte(specKeyPrefix + id)
}

// Create persists a new record, assigning its id and save time.
func (s *SpecStore) Create(ctx context.Context, spec *datatypes.SavedSpec) error {
	if spec.OwnerID == "" {
		return errors.New("spec owner must not be empty")
	}
	spec.ID = uuid.New().String()
	spec.SavedAt = s.now().UTC()

	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}
	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(specKey(spec.ID), data)
	})
}

// Get reads one record, enforcing ownership.
func (s *SpecStore) Get(ctx context.Context, ownerID, id string) (*datatypes.SavedSpec, error) {
	var spec datatypes.SavedSpec

	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		return readSpec(txn, id, &spec)
	})
	if err != nil {
		return nil, err
	}
	if spec.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}
	return &spec, nil
}

// Update re-saves an existing record identified by spec.ID, carrying the
// save time forward to now. The stored owner must match.
func (s *SpecStore) Update(ctx context.Context, ownerID string, spec *datatypes.SavedSpec) error {
	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		var existing datatypes.SavedSpec
		if err := readSpec(txn, spec.ID, &existing); err != nil {
			return err
		}
		if existing.OwnerID != ownerID {
			return ErrAccessDenied
		}

		spec.OwnerID = ownerID
		spec.SavedAt = s.now().UTC()
		data, err := json.Marshal(spec)
		if err != nil {
			return fmt.Errorf("marshal spec %s: %w", spec.ID, err)
		}
		return txn.Set(specKey(spec.ID), data)
	})
}

// Delete removes one record, enforcing ownership.
func (s *SpecStore) Delete(ctx context.Context, ownerID, id string) error {
	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		var existing datatypes.SavedSpec
		if err := readSpec(txn, id, &existing); err != nil {
			return err
		}
		if existing.OwnerID != ownerID {
			return ErrAccessDenied
		}
		return txn.Delete(specKey(id))
	})
}

// ListByOwner returns all records owned by ownerID, newest first.
func (s *SpecStore) ListByOwner(ctx context.Context, ownerID string) ([]datatypes.SavedSpec, error) {
	var specs []datatypes.SavedSpec

	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(specKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var spec datatypes.SavedSpec
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &spec)
			})
			if err != nil {
				return fmt.Errorf("decode spec record: %w", err)
			}
			if spec.OwnerID == ownerID {
				specs = append(specs, spec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].SavedAt.After(specs[j].SavedAt)
	})
	return specs, nil
}

func readSpec(txn *badger.Txn, id string, out *datatypes.SavedSpec) error {
	item, err := txn.Get(specKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read spec %s: %w", id, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}
