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
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fpinheiro921/specforge/pkg/validation"
	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/markdown"
	"github.com/fpinheiro921/specforge/services/specforge/observability"
	"github.com/fpinheiro921/specforge/services/specforge/quota"
)

// HandleGenerateSpec streams a full specification document over SSE.
//
// # Description
//
// Event sequence on the wire:
//
//	status → token* → done
//
// or, after the stream has opened and the backend fails:
//
//	status → token* → error
//
// Admission runs before any SSE byte is written: the caller must be
// authenticated, the idea text must be within bounds, at least one known
// module must be selected, and the quota ledger must admit the operation.
// Admission failures are plain JSON errors (400/402), not stream events.
//
// Reserve debits the quota atomically before the backend is contacted; a
// failed generation refunds the debit. The done event carries the full
// (possibly premium-redacted) document, its parsed sections, and the
// post-debit display quota.
func (h *Handlers) HandleGenerateSpec(c *gin.Context) {
	startTime := time.Now()

	ctx, span := otel.Tracer("specforge/handlers").Start(c.Request.Context(), "HandleGenerateSpec")
	defer span.End()

	authInfo := h.requireAuth(c)
	if authInfo == nil {
		return
	}
	span.SetAttributes(attribute.String("user.id", authInfo.UserID))

	var req datatypes.GenerateRequest
	if err := c.BindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := validation.ValidateIdeaText(req.IdeaText); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	modules, err := validation.ValidateModuleSelection(req.ModuleIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.Int("request.module_count", len(modules)))

	if !h.requireGenerator(c) {
		return
	}

	if err := h.Ledger.Reserve(ctx, authInfo.UserID); err != nil {
		if errors.Is(err, quota.ErrQuotaExhausted) {
			if m := observability.DefaultMetrics; m != nil {
				m.QuotaRefusalsTotal.Inc()
			}
			span.SetStatus(codes.Error, "quota exhausted")
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

	// Profile read after the debit: the plan drives redaction and the
	// remaining count shown on done reflects this generation.
	profile, err := h.Ledger.FetchOrCreate(ctx, authInfo.UserID)
	if err != nil {
		h.Ledger.Refund(ctx, authInfo.UserID)
		h.Logger.Error("profile fetch failed", "user_id", authInfo.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile unavailable"})
		return
	}

	SetSSEHeaders(c.Writer)
	writer, err := NewSSEWriter(c.Writer)
	if err != nil {
		h.Ledger.Refund(ctx, authInfo.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	if m := observability.DefaultMetrics; m != nil {
		m.ActiveStreams.Inc()
		defer m.ActiveStreams.Dec()
	}
	success := false
	defer func() {
		if m := observability.DefaultMetrics; m != nil {
			status := "error"
			if success {
				status = "success"
			}
			m.GenerationsTotal.WithLabelValues("generate", status).Inc()
			m.StreamDurationSeconds.WithLabelValues(status).Observe(time.Since(startTime).Seconds())
		}
	}()

	_ = writer.WriteStatus("Generating specification...")

	document, err := h.Generator.Generate(ctx, req.IdeaText, modules, profile.Plan, func(chunk string) error {
		return writer.WriteToken(chunk)
	})
	if err != nil {
		h.Ledger.Refund(ctx, authInfo.UserID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		h.Logger.Error("generation stream failed", "user_id", authInfo.UserID, "error", err)
		_ = writer.WriteError("generation failed, please try again")
		return
	}

	success = true
	sections := markdown.Parse(document)
	_ = writer.WriteDone(document, sections, h.Ledger.Remaining(profile))
}
