// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/generator"
)

const testIdea = "A collaborative recipe planner for busy families with shared shopping lists"

func postJSON(t *testing.T, env *testEnv, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, env *testEnv, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func seedProfile(t *testing.T, env *testEnv, used int) {
	t.Helper()

	err := env.profiles.Put(context.Background(), &datatypes.UserProfile{
		ID:              "local-user",
		Plan:            datatypes.PlanFree,
		GenerationsUsed: used,
		CycleStart:      time.Now().UTC(),
	})
	require.NoError(t, err)
}

func generationsUsed(t *testing.T, env *testEnv) int {
	t.Helper()

	profile, err := env.profiles.Get(context.Background(), "local-user")
	require.NoError(t, err)
	return profile.GenerationsUsed
}

func TestHandleGenerateSpecStreamsDocument(t *testing.T) {
	chunks := []string{"### 1. PRD\nProduct requirements.\n\n", "### 2. Tech Stack\nGo and badger.\n"}
	env := newTestEnv(t, &fakeLLM{chunks: chunks})
	seedProfile(t, env, 2)

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  testIdea,
		ModuleIDs: []string{"prd", "tech-stack"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

	events := parseSSE(t, rec.Body.String())
	require.GreaterOrEqual(t, len(events), 4)

	assert.Equal(t, "status", events[0].Name)
	assert.Equal(t, "token", events[1].Name)
	assert.Equal(t, chunks[0], events[1].Event.Content)
	assert.Equal(t, "token", events[2].Name)
	assert.Equal(t, chunks[1], events[2].Event.Content)

	done := events[len(events)-1]
	require.Equal(t, "done", done.Name)
	assert.Equal(t, chunks[0]+chunks[1], done.Event.Document)
	require.Len(t, done.Event.Sections, 2)
	assert.Equal(t, "1. PRD", done.Event.Sections[0].Title)
	assert.Equal(t, "2. Tech Stack", done.Event.Sections[1].Title)

	// Last free-tier slot was consumed by this generation.
	require.NotNil(t, done.Event.Remaining)
	assert.Equal(t, 0, *done.Event.Remaining)
	assert.Equal(t, 3, generationsUsed(t, env))
}

func TestHandleGenerateSpecRedactsPremiumForFreeTier(t *testing.T) {
	chunks := []string{"### 1. PRD\nPublic plan.\n\n", "### 2. API Design\nSecret endpoints.\n"}
	env := newTestEnv(t, &fakeLLM{chunks: chunks})

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  testIdea,
		ModuleIDs: []string{"prd", "api-design"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseSSE(t, rec.Body.String())
	done := events[len(events)-1]
	require.Equal(t, "done", done.Name)

	assert.Contains(t, done.Event.Document, generator.PremiumPlaceholder)
	assert.NotContains(t, done.Event.Document, "Secret endpoints")
	assert.Contains(t, done.Event.Document, "Public plan")
}

func TestHandleGenerateSpecRejectsShortIdea(t *testing.T) {
	env := newTestEnv(t, &fakeLLM{})

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  "too short",
		ModuleIDs: []string{"prd"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateSpecRejectsUnknownModule(t *testing.T) {
	env := newTestEnv(t, &fakeLLM{})

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  testIdea,
		ModuleIDs: []string{"marketing-plan"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateSpecQuotaExhausted(t *testing.T) {
	env := newTestEnv(t, &fakeLLM{chunks: []string{"### 1. PRD\nx\n"}})
	seedProfile(t, env, 3)

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  testIdea,
		ModuleIDs: []string{"prd"},
	})

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "remediation")
	assert.Equal(t, 3, generationsUsed(t, env))
}

func TestHandleGenerateSpecWithoutBackend(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  testIdea,
		ModuleIDs: []string{"prd"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleGenerateSpecBackendFailureRefunds(t *testing.T) {
	env := newTestEnv(t, &fakeLLM{err: assert.AnError})
	seedProfile(t, env, 1)

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  testIdea,
		ModuleIDs: []string{"prd"},
	})

	// The stream had already opened, so the failure arrives as an SSE
	// error event, not an HTTP status.
	require.Equal(t, http.StatusOK, rec.Code)
	events := parseSSE(t, rec.Body.String())
	last := events[len(events)-1]
	assert.Equal(t, "error", last.Name)
	assert.NotEmpty(t, last.Event.Error)
	assert.NotContains(t, last.Event.Error, "assert.AnError")

	assert.Equal(t, 1, generationsUsed(t, env))
}

func TestHandleGenerateSpecPaidPlanUnredactedAndUncounted(t *testing.T) {
	chunks := []string{"### 1. API Design\nFull endpoint listing.\n"}
	env := newTestEnv(t, &fakeLLM{chunks: chunks})

	err := env.profiles.Put(context.Background(), &datatypes.UserProfile{
		ID:         "local-user",
		Plan:       datatypes.PlanPro,
		CycleStart: time.Now().UTC(),
	})
	require.NoError(t, err)

	rec := postJSON(t, env, "/v1/specs/generate", datatypes.GenerateRequest{
		IdeaText:  testIdea,
		ModuleIDs: []string{"api-design"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseSSE(t, rec.Body.String())
	done := events[len(events)-1]
	require.Equal(t, "done", done.Name)
	assert.Contains(t, done.Event.Document, "Full endpoint listing")
	assert.NotContains(t, done.Event.Document, generator.PremiumPlaceholder)
	assert.Nil(t, done.Event.Remaining)
}
