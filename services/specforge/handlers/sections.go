// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/markdown"
	"github.com/fpinheiro921/specforge/services/specforge/observability"
	"github.com/fpinheiro921/specforge/services/specforge/quota"
)

// HandleParseSections splits a document into addressable sections.
// Pure and non-billable; degenerate documents yield the synthetic
// full-document or overview sections, never an error.
func (h *Handlers) HandleParseSections(c *gin.Context) {
	if h.requireAuth(c) == nil {
		return
	}

	var req datatypes.ParseRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, datatypes.ParseResponse{
		Sections: markdown.Parse(req.Document),
	})
}

// HandleRegenerateSection rewrites one section in place.
//
// # Description
//
// Parses the submitted document, resolves the target section by id (last
// match wins on collisions), reserves quota, asks the backend for a
// rewrite, and splices the result back via first-occurrence patch. The
// response carries the patched document and its fresh parse.
//
// A patch miss — the original section content no longer present verbatim
// in the document — is surfaced as 409 rather than silently returning the
// document unchanged. The quota debit is refunded on every failure path
// after reservation.
func (h *Handlers) HandleRegenerateSection(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	var req datatypes.RegenerateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sections := markdown.Parse(req.Document)
	section := datatypes.SectionByID(sections, req.SectionID)
	if section == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found in document"})
		return
	}

	if !h.requireGenerator(c) {
		return
	}

	ctx := c.Request.Context()
	if err := h.Ledger.Reserve(ctx, authInfo.UserID); err != nil {
		if errors.Is(err, quota.ErrQuotaExhausted) {
			if m := observability.DefaultMetrics; m != nil {
				m.QuotaRefusalsTotal.Inc()
			}
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":       "monthly generation quota exhausted",
				"remediation": "Upgrade to a paid plan for unlimited generations.",
			})
			return
		}
		h.Logger.Error("quota reservation failed", "user_id", authInfo.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "quota check failed"})
		return
	}

	newContent, err := h.Generator.Regenerate(ctx, section.Title, section.Content, req.Instructions)
	if err != nil {
		h.Ledger.Refund(ctx, authInfo.UserID)
		h.recordGeneration("regenerate", false)
		h.Logger.Error("section regeneration failed", "section_id", req.SectionID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "regeneration failed, please try again"})
		return
	}

	patched, err := markdown.Patch(req.Document, section.Content, newContent)
	if err != nil {
		h.Ledger.Refund(ctx, authInfo.UserID)
		h.recordGeneration("regenerate", false)
		c.JSON(http.StatusConflict, gin.H{
			"error": "section content has changed since it was parsed; re-parse the document and retry",
		})
		return
	}

	h.recordGeneration("regenerate", true)
	c.JSON(http.StatusOK, datatypes.RegenerateResponse{
		Document: patched,
		Sections: markdown.Parse(patched),
	})
}

// HandleElaborateSection answers a question scoped to one section.
// Billable; an empty backend answer is a failure and refunds the debit.
func (h *Handlers) HandleElaborateSection(c *gin.Context) {
	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}

	var req datatypes.ElaborateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !h.requireGenerator(c) {
		return
	}

	ctx := c.Request.Context()
	if err := h.Ledger.Reserve(ctx, authInfo.UserID); err != nil {
		if errors.Is(err, quota.ErrQuotaExhausted) {
			if m := observability.DefaultMetrics; m != nil {
				m.QuotaRefusalsTotal.Inc()
			}
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":       "monthly generation quota exhausted",
				"remediation": "Upgrade to a paid plan for unlimited generations.",
			})
			return
		}
		h.Logger.Error("quota reservation failed", "user_id", authInfo.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "quota check failed"})
		return
	}

	answer, err := h.Generator.Elaborate(ctx, req.SectionContent, req.Question)
	if err != nil {
		h.Ledger.Refund(ctx, authInfo.UserID)
		h.recordGeneration("elaborate", false)
		h.Logger.Error("elaboration failed", "user_id", authInfo.UserID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "elaboration failed, please try again"})
		return
	}

	h.recordGeneration("elaborate", true)
	c.JSON(http.StatusOK, datatypes.ElaborateResponse{Answer: answer})
}

// HandleAnalyzeSpec runs a secondary AI review of a document and returns
// the parsed analysis items. Non-billable: analysis never debits quota.
func (h *Handlers) HandleAnalyzeSpec(c *gin.Context) {
	if h.requireAuth(c) == nil {
		return
	}

	var req datatypes.AnalyzeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !h.requireGenerator(c) {
		return
	}

	sections := markdown.Parse(req.Document)
	items, err := h.Generator.Analyze(c.Request.Context(), req.Document, sections)
	if err != nil {
		h.recordGeneration("analyze", false)
		h.Logger.Error("document analysis failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis failed, please try again"})
		return
	}

	h.recordGeneration("analyze", true)
	c.JSON(http.StatusOK, datatypes.AnalyzeResponse{Items: items})
}

func (h *Handlers) recordGeneration(operation string, success bool) {
	if m := observability.DefaultMetrics; m != nil {
		status := "error"
		if success {
			status = "success"
		}
		m.GenerationsTotal.WithLabelValues(operation, status).Inc()
	}
}
