// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the identity-provider seam of the service.
//
// The core only needs a stable opaque identity string per caller; how that
// identity is established is pluggable. Local single-user deployments run
// the NopAuthProvider, hosted deployments run the JWT provider, and other
// identity backends implement AuthProvider without touching the core.
package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when authentication fails. Implementations
// should wrap this error with additional context.
//
// Example:
//
//	if !validToken {
//	    return nil, fmt.Errorf("invalid token format: %w", extensions.ErrUnauthorized)
//	}
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo contains identity information returned after successful
// authentication.
//
// UserID is the only required field; it scopes profiles and saved specs in
// the document store and must be stable across sessions for the same user.
type AuthInfo struct {
	// UserID is the unique identifier for the authenticated user.
	// This is the only required field and must never be empty.
	UserID string

	// Email is the user's email address.
	// May be empty if not provided by the auth provider.
	Email string

	// Roles contains the user's role memberships.
	Roles []string
}

// HasRole checks if the user has a specific role.
func (a *AuthInfo) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthProvider validates authentication tokens and returns user identity.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// The default NopAuthProvider always returns a valid "local-user"; this
// lets a local deployment function without any authentication
// infrastructure. Hosted deployments use JWTAuthProvider or their own
// implementation against an external identity provider.
type AuthProvider interface {
	// Validate checks if the token is valid and returns the user's identity.
	//
	// Returns ErrUnauthorized (or wrapped) for invalid tokens, other errors
	// for infrastructure failures.
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// NopAuthProvider is the default authentication provider for local
// single-user deployments.
//
// It always returns a valid local user. The token is ignored; any value,
// including the empty string, authenticates. This is intentional: every
// caller maps to the same identity, and the quota ledger meters that one
// identity.
//
// Thread-safe: this implementation has no mutable state.
type NopAuthProvider struct{}

// Validate always returns the local user.
func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return &AuthInfo{
		UserID: "local-user",
		Roles:  []string{"admin"},
	}, nil
}

var _ AuthProvider = (*NopAuthProvider)(nil)
