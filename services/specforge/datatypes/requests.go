// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// GenerateRequest starts a streaming specification generation.
// Idea length bounds and module selection are validated before admission;
// violations never reach the AI backend.
type GenerateRequest struct {
	IdeaText  string   `json:"ideaText" binding:"required"`
	ModuleIDs []string `json:"moduleIds" binding:"required"`
}

// ParseRequest asks for the section decomposition of a document.
type ParseRequest struct {
	Document string `json:"document"`
}

// ParseResponse carries the ordered section list for a document.
type ParseResponse struct {
	Sections []Section `json:"sections"`
}

// RegenerateRequest regenerates exactly one section in place.
type RegenerateRequest struct {
	Document     string `json:"document" binding:"required"`
	SectionID    string `json:"sectionId" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
}

// RegenerateResponse returns the patched document and its fresh parse.
type RegenerateResponse struct {
	Document string    `json:"document"`
	Sections []Section `json:"sections"`
}

// ElaborateRequest asks a one-shot question scoped to a single section.
type ElaborateRequest struct {
	SectionContent string `json:"sectionContent" binding:"required"`
	Question       string `json:"question" binding:"required"`
}

// ElaborateResponse carries the markdown answer text.
type ElaborateResponse struct {
	Answer string `json:"answer"`
}

// AnalyzeRequest requests a secondary AI analysis of a document.
type AnalyzeRequest struct {
	Document string `json:"document" binding:"required"`
}

// AnalyzeResponse carries the parsed analysis items.
type AnalyzeResponse struct {
	Items []AnalysisItem `json:"items"`
}

// SaveSpecRequest creates or re-saves a spec record. An empty ID creates a
// new record; a non-empty ID updates the record it names.
type SaveSpecRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name" binding:"required"`
	IdeaText  string   `json:"ideaText"`
	Document  string   `json:"generatedDocument"`
	ModuleIDs []string `json:"selectedModuleIds"`
}

// ProfileResponse is the profile read surface. Remaining is nil for
// unmetered plans and clamped at zero for display on the free tier.
type ProfileResponse struct {
	Profile   UserProfile `json:"profile"`
	Remaining *int        `json:"remaining"`
}
