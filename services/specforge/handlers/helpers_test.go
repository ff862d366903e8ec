// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fpinheiro921/specforge/pkg/extensions"
	"github.com/fpinheiro921/specforge/services/llm"
	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/generator"
	"github.com/fpinheiro921/specforge/services/specforge/middleware"
	"github.com/fpinheiro921/specforge/services/specforge/quota"
	"github.com/fpinheiro921/specforge/services/specforge/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeLLM is a scripted backend for handler tests.
type fakeLLM struct {
	chunks   []string
	response string
	err      error
}

var _ llm.LLMClient = (*fakeLLM)(nil)

func (f *fakeLLM) Generate(_ context.Context, _ string, _ llm.GenerationParams) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) GenerateStream(_ context.Context, _ string, _ llm.GenerationParams, callback llm.StreamCallback) error {
	if f.err != nil {
		return f.err
	}
	for _, chunk := range f.chunks {
		if err := callback(chunk); err != nil {
			return err
		}
	}
	return nil
}

// testEnv bundles a routed service over in-memory storage. Every request
// authenticates as "local-user" via the Nop provider.
type testEnv struct {
	router   *gin.Engine
	db       *store.DB
	profiles *store.ProfileStore
	specs    *store.SpecStore
	ledger   *quota.Ledger
}

// newTestEnv builds the full HTTP surface. backend may be nil to simulate
// an unconfigured AI backend.
func newTestEnv(t *testing.T, backend llm.LLMClient) *testEnv {
	t.Helper()

	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	profiles := store.NewProfileStore(db)
	specs := store.NewSpecStore(db)
	ledger := quota.NewLedger(profiles, nil)

	var gen *generator.Generator
	if backend != nil {
		gen = generator.New(backend, nil)
	}

	h := New(gen, ledger, specs, nil)

	router := gin.New()
	router.GET("/health", h.HandleHealth)

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(&extensions.NopAuthProvider{}))
	{
		v1.POST("/specs/generate", h.HandleGenerateSpec)
		v1.POST("/specs/analyze", h.HandleAnalyzeSpec)
		v1.POST("/sections/parse", h.HandleParseSections)
		v1.POST("/sections/regenerate", h.HandleRegenerateSection)
		v1.POST("/sections/elaborate", h.HandleElaborateSection)
		v1.POST("/specs", h.HandleSaveSpec)
		v1.GET("/specs", h.HandleListSpecs)
		v1.GET("/specs/:id", h.HandleGetSpec)
		v1.PUT("/specs/:id", h.HandleUpdateSpec)
		v1.DELETE("/specs/:id", h.HandleDeleteSpec)
		v1.GET("/specs/:id/download", h.HandleDownloadSpec)
		v1.GET("/profile", h.HandleGetProfile)
		v1.GET("/modules", h.HandleListModules)
	}

	return &testEnv{router: router, db: db, profiles: profiles, specs: specs, ledger: ledger}
}

// sseEvent is one decoded wire event.
type sseEvent struct {
	Name  string
	Event datatypes.StreamEvent
}

// parseSSE decodes an SSE response body into its events, skipping
// keepalive comments.
func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()

	var events []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, ":") {
			continue
		}

		var name, data string
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
		require.NotEmpty(t, name, "SSE block missing event name: %q", block)

		var event datatypes.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(data), &event))
		events = append(events, sseEvent{Name: name, Event: event})
	}
	return events
}
