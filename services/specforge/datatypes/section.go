// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the domain and wire types shared across the
// specforge service: sections, user profiles, saved specs, documentation
// modules, analysis items, and the SSE stream event shape.
package datatypes

// Section is an addressable, titled span of a generated specification
// document.
//
// Sections are derived wholesale from the document text on every change and
// are never mutated in place. Concatenating all section contents in order
// (plus any preamble captured as the synthetic "overview" section)
// reconstructs the document up to per-section whitespace trimming.
type Section struct {
	// ID is derived deterministically from Title: lower-cased, whitespace
	// runs collapsed to single hyphens, characters outside [\w().-]
	// stripped. Falls back to "section-<index>" when derivation yields an
	// empty string. Sibling collisions are possible and not deduplicated;
	// lookup by id returns the last match.
	ID string `json:"id"`

	// Title is the heading line with the "### " marker stripped and
	// trimmed, numbering included (e.g. "3. Project Structure").
	Title string `json:"title"`

	// Content is the heading line plus all text up to the next heading
	// match or document end, trimmed of surrounding whitespace.
	Content string `json:"content"`
}

// SectionByID returns the section with the given id, or nil.
// When derived ids collide, the last section wins, matching the
// map-key semantics of the reference behavior.
func SectionByID(sections []Section, id string) *Section {
	var found *Section
	for i := range sections {
		if sections[i].ID == id {
			found = &sections[i]
		}
	}
	return found
}

// SectionByTitle returns the section whose title matches exactly, or nil.
func SectionByTitle(sections []Section, title string) *Section {
	var found *Section
	for i := range sections {
		if sections[i].Title == title {
			found = &sections[i]
		}
	}
	return found
}
