// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSpecStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	specs := NewSpecStore(newTestDB(t))

	spec := &datatypes.SavedSpec{
		OwnerID:   "user-1",
		Name:      "widget service",
		IdeaText:  "a service that manages widgets",
		Document:  "### 1. PRD\nbody",
		ModuleIDs: []string{"prd"},
	}
	require.NoError(t, specs.Create(ctx, spec))
	require.NotEmpty(t, spec.ID)
	require.False(t, spec.SavedAt.IsZero())

	got, err := specs.Get(ctx, "user-1", spec.ID)
	require.NoError(t, err)
	assert.Equal(t, spec.Name, got.Name)
	assert.Equal(t, spec.Document, got.Document)
	assert.Equal(t, []string{"prd"}, got.ModuleIDs)
}

func TestSpecStoreOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	specs := NewSpecStore(newTestDB(t))

	spec := &datatypes.SavedSpec{OwnerID: "user-1", Name: "mine"}
	require.NoError(t, specs.Create(ctx, spec))

	_, err := specs.Get(ctx, "user-2", spec.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = specs.Update(ctx, "user-2", &datatypes.SavedSpec{ID: spec.ID, Name: "stolen"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = specs.Delete(ctx, "user-2", spec.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Owner still sees the record untouched.
	got, err := specs.Get(ctx, "user-1", spec.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Name)
}

func TestSpecStoreUpdateCarriesIDForward(t *testing.T) {
	ctx := context.Background()
	specs := NewSpecStore(newTestDB(t))

	spec := &datatypes.SavedSpec{OwnerID: "user-1", Name: "v1", Document: "old"}
	require.NoError(t, specs.Create(ctx, spec))
	firstSave := spec.SavedAt

	updated := &datatypes.SavedSpec{ID: spec.ID, Name: "v2", Document: "new"}
	require.NoError(t, specs.Update(ctx, "user-1", updated))

	got, err := specs.Get(ctx, "user-1", spec.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.Equal(t, "new", got.Document)
	assert.False(t, got.SavedAt.Before(firstSave))
}

func TestSpecStoreDeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	specs := NewSpecStore(newTestDB(t))

	spec := &datatypes.SavedSpec{OwnerID: "user-1", Name: "ephemeral"}
	require.NoError(t, specs.Create(ctx, spec))
	require.NoError(t, specs.Delete(ctx, "user-1", spec.ID))

	_, err := specs.Get(ctx, "user-1", spec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = specs.Delete(ctx, "user-1", "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSpecStoreListByOwnerNewestFirst(t *testing.T) {
	ctx := context.Background()
	specs := NewSpecStore(newTestDB(t))

	times := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	idx := 0
	specs.now = func() time.Time { t := times[idx]; idx++; return t }

	for _, name := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, specs.Create(ctx, &datatypes.SavedSpec{OwnerID: "user-1", Name: name}))
	}
	require.NoError(t, specs.Create(ctx, &datatypes.SavedSpec{OwnerID: "user-2", Name: "other"}))

	got, err := specs.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "newest", got[0].Name)
	assert.Equal(t, "oldest", got[2].Name)
}
