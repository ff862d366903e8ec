// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// StreamEvent is the SSE wire type emitted by the generation endpoint.
//
// Event types:
//   - "status": progress message for display
//   - "token": one chunk of generated document text
//   - "error": sanitized failure message; the stream closes after it
//   - "done": stream completion carrying the full document and its parse
type StreamEvent struct {
	Id        string `json:"id"`
	Type      string `json:"type"`
	CreatedAt int64  `json:"created_at"`

	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	// Document and Sections are set on the "done" event only.
	Document string    `json:"document,omitempty"`
	Sections []Section `json:"sections,omitempty"`

	// Remaining mirrors the post-debit display quota on "done",
	// when the caller is on a metered plan.
	Remaining *int `json:"remaining,omitempty"`
}
