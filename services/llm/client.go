// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import "context"

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// StreamCallback receives one token chunk as the backend produces it.
// Returning a non-nil error aborts the stream; the error propagates out of
// GenerateStream unchanged.
type StreamCallback func(chunk string) error

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	// Generate runs a one-shot completion and returns the full text.
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)

	// GenerateStream runs a completion, delivering token chunks through
	// callback as they arrive. Returns after the stream is drained or on
	// the first callback/transport error.
	GenerateStream(ctx context.Context, prompt string, params GenerationParams, callback StreamCallback) error
}
