// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
)

// HandleGetProfile returns the caller's profile, creating the default
// free-tier profile on first read and applying the lazy cycle rollover.
// Remaining is nil for unmetered plans and clamped at zero for display.
func (h *Handlers) HandleGetProfile(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	profile, err := h.Ledger.FetchOrCreate(c.Request.Context(), authInfo.UserID)
	if err != nil {
		h.Logger.Error("profile fetch failed", "user_id", authInfo.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile unavailable"})
		return
	}

	c.JSON(http.StatusOK, datatypes.ProfileResponse{
		Profile:   *profile,
		Remaining: h.Ledger.Remaining(profile),
	})
}

// HandleListModules returns the documentation module catalog, including
// the premium flags the client uses to mark locked modules.
func (h *Handlers) HandleListModules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modules": datatypes.ModuleCatalog})
}
