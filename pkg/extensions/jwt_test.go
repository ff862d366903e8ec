// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTAuthProviderValidToken(t *testing.T) {
	provider, err := NewJWTAuthProvider("test-secret")
	require.NoError(t, err)

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":   "user-42",
		"email": "user@example.com",
		"roles": []any{"editor"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	info, err := provider.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", info.UserID)
	assert.Equal(t, "user@example.com", info.Email)
	assert.True(t, info.HasRole("editor"))
}

func TestJWTAuthProviderRejectsBadSignature(t *testing.T) {
	provider, err := NewJWTAuthProvider("test-secret")
	require.NoError(t, err)

	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-42"})

	_, err = provider.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestJWTAuthProviderRejectsExpiredToken(t *testing.T) {
	provider, err := NewJWTAuthProvider("test-secret")
	require.NoError(t, err)

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err = provider.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestJWTAuthProviderRequiresSubject(t *testing.T) {
	provider, err := NewJWTAuthProvider("test-secret")
	require.NoError(t, err)

	token := signToken(t, "test-secret", jwt.MapClaims{"email": "no-sub@example.com"})

	_, err = provider.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewJWTAuthProviderRequiresSecret(t *testing.T) {
	_, err := NewJWTAuthProvider("")
	assert.Error(t, err)
}

func TestNopAuthProviderAlwaysAuthenticates(t *testing.T) {
	provider := &NopAuthProvider{}

	info, err := provider.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "local-user", info.UserID)
}
