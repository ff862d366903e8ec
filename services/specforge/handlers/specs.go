// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/observability"
	"github.com/fpinheiro921/specforge/services/specforge/store"
)

// HandleSaveSpec creates or re-saves a spec record. An empty id in the
// request body creates a new record; a non-empty id updates the record it
// names, enforcing ownership.
func (h *Handlers) HandleSaveSpec(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	var req datatypes.SaveSpecRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	spec := &datatypes.SavedSpec{
		ID:        req.ID,
		OwnerID:   authInfo.UserID,
		Name:      req.Name,
		IdeaText:  req.IdeaText,
		Document:  req.Document,
		ModuleIDs: req.ModuleIDs,
	}

	ctx := c.Request.Context()
	if req.ID == "" {
		if err := h.Specs.Create(ctx, spec); err != nil {
			h.storeError(c, "save spec", err)
			return
		}
		if m := observability.DefaultMetrics; m != nil {
			m.SpecsSavedTotal.WithLabelValues("create").Inc()
		}
		c.JSON(http.StatusCreated, spec)
		return
	}

	if err := h.Specs.Update(ctx, authInfo.UserID, spec); err != nil {
		h.storeError(c, "update spec", err)
		return
	}
	if m := observability.DefaultMetrics; m != nil {
		m.SpecsSavedTotal.WithLabelValues("update").Inc()
	}
	c.JSON(http.StatusOK, spec)
}

// HandleUpdateSpec re-saves the spec named by the path id. The path id is
// authoritative; an id in the body is ignored.
func (h *Handlers) HandleUpdateSpec(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	var req datatypes.SaveSpecRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	spec := &datatypes.SavedSpec{
		ID:        c.Param("id"),
		OwnerID:   authInfo.UserID,
		Name:      req.Name,
		IdeaText:  req.IdeaText,
		Document:  req.Document,
		ModuleIDs: req.ModuleIDs,
	}

	if err := h.Specs.Update(c.Request.Context(), authInfo.UserID, spec); err != nil {
		h.storeError(c, "update spec", err)
		return
	}
	if m := observability.DefaultMetrics; m != nil {
		m.SpecsSavedTotal.WithLabelValues("update").Inc()
	}
	c.JSON(http.StatusOK, spec)
}

// HandleListSpecs returns all of the caller's saved specs, newest first.
func (h *Handlers) HandleListSpecs(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	specs, err := h.Specs.ListByOwner(c.Request.Context(), authInfo.UserID)
	if err != nil {
		h.storeError(c, "list specs", err)
		return
	}
	if specs == nil {
		specs = []datatypes.SavedSpec{}
	}
	c.JSON(http.StatusOK, gin.H{"specs": specs})
}

// HandleGetSpec reads one saved spec, enforcing ownership.
func (h *Handlers) HandleGetSpec(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	spec, err := h.Specs.Get(c.Request.Context(), authInfo.UserID, c.Param("id"))
	if err != nil {
		h.storeError(c, "read spec", err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// HandleDeleteSpec removes one saved spec, enforcing ownership.
func (h *Handlers) HandleDeleteSpec(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	if err := h.Specs.Delete(c.Request.Context(), authInfo.UserID, c.Param("id")); err != nil {
		h.storeError(c, "delete spec", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleDownloadSpec serves the spec's document as a UTF-8 markdown
// attachment named after the spec.
func (h *Handlers) HandleDownloadSpec(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	spec, err := h.Specs.Get(c.Request.Context(), authInfo.UserID, c.Param("id"))
	if err != nil {
		h.storeError(c, "download spec", err)
		return
	}

	filename := spec.Name
	if filename == "" {
		filename = "specification"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".md"))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(spec.Document))
}

// storeError maps document-store failures onto the error taxonomy.
// Permission errors carry remediation text distinct from generic store
// failures; everything else is logged and answered generically.
func (h *Handlers) storeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "spec not found"})
	case errors.Is(err, store.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error":       "access denied",
			"remediation": "This spec belongs to a different account. Sign in with the account that created it.",
		})
	default:
		// Generic store failures are typically transient conditions the
		// user can retry, so the cause is surfaced, unlike AI backend
		// errors which stay in the logs.
		h.Logger.Error("store operation failed", "operation", operation, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("storage operation failed: %s: %v", operation, err),
		})
	}
}
