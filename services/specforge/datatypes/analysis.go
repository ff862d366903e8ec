// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// AnalysisItemKind classifies a line of a document analysis response.
type AnalysisItemKind string

const (
	AnalysisKindHeading    AnalysisItemKind = "heading"
	AnalysisKindSuggestion AnalysisItemKind = "suggestion"
	AnalysisKindFreeText   AnalysisItemKind = "freeText"
)

// AnalysisItem is one parsed entry of a secondary AI analysis of the
// document. Items are session-local and recomputed on every analysis
// request; nothing here is persisted.
type AnalysisItem struct {
	ID   string           `json:"id"`
	Kind AnalysisItemKind `json:"kind"`
	Text string           `json:"text"`

	// SectionTitle is the title a suggestion claims to reference,
	// if any.
	SectionTitle string `json:"referencedSectionTitle,omitempty"`

	// Section is the resolved section when SectionTitle matches a
	// current section title exactly.
	Section *Section `json:"resolvedSection,omitempty"`

	// Actionable is true iff SectionTitle resolved against the
	// current parse.
	Actionable bool `json:"isActionable"`
}
