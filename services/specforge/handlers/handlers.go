// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP surface of the specforge service:
// streaming generation, section operations, saved-spec CRUD, profile and
// catalog reads.
//
// Handlers translate domain errors into the service's error taxonomy:
//
//   - quota exhausted        → 402 with an upgrade pointer
//   - unknown section/record → 404
//   - patch miss             → 409
//   - access denied          → 403 with remediation text
//   - AI backend failure     → 502, generic message, cause logged
//   - AI backend unconfigured→ 503
//
// Internal error details are logged, never returned to clients.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fpinheiro921/specforge/pkg/extensions"
	"github.com/fpinheiro921/specforge/services/specforge/generator"
	"github.com/fpinheiro921/specforge/services/specforge/middleware"
	"github.com/fpinheiro921/specforge/services/specforge/quota"
	"github.com/fpinheiro921/specforge/services/specforge/store"
)

// Handlers bundles the dependencies shared by all HTTP handlers.
//
// Generator is nil when no AI backend is configured; AI-dependent
// endpoints then answer 503 instead of failing at startup, so the
// storage-only surface stays usable.
type Handlers struct {
	Generator *generator.Generator
	Ledger    *quota.Ledger
	Specs     *store.SpecStore
	Logger    *slog.Logger
}

// New creates the handler set.
func New(gen *generator.Generator, ledger *quota.Ledger, specs *store.SpecStore, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Generator: gen,
		Ledger:    ledger,
		Specs:     specs,
		Logger:    logger,
	}
}

// requireAuth returns the authenticated identity or writes a 401 and
// returns nil. Handlers must return immediately on nil.
func (h *Handlers) requireAuth(c *gin.Context) *extensions.AuthInfo {
	authInfo := middleware.GetAuthInfo(c)
	if authInfo == nil || authInfo.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil
	}
	return authInfo
}

// requireGenerator answers 503 and returns false when no AI backend is
// configured.
func (h *Handlers) requireGenerator(c *gin.Context) bool {
	if h.Generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI backend not configured",
		})
		return false
	}
	return true
}

// HandleHealth reports service liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
