// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthProvider validates HS256-signed bearer tokens.
//
// The token's "sub" claim becomes the UserID; "email" and "roles" claims
// are carried through when present. Expiry and not-before are enforced by
// the jwt library during parsing.
//
// Thread-safe: the secret is never mutated after construction.
type JWTAuthProvider struct {
	secret []byte
}

// NewJWTAuthProvider creates a provider verifying tokens with the given
// shared secret.
func NewJWTAuthProvider(secret string) (*JWTAuthProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret must not be empty")
	}
	return &JWTAuthProvider{secret: []byte(secret)}, nil
}

// Validate implements the AuthProvider interface.
func (p *JWTAuthProvider) Validate(_ context.Context, token string) (*AuthInfo, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type: %w", ErrUnauthorized)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token missing subject claim: %w", ErrUnauthorized)
	}

	info := &AuthInfo{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if rawRoles, ok := claims["roles"].([]any); ok {
		for _, r := range rawRoles {
			if role, ok := r.(string); ok {
				info.Roles = append(info.Roles, role)
			}
		}
	}
	return info, nil
}

var _ AuthProvider = (*JWTAuthProvider)(nil)
