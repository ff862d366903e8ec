// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package markdown implements structured document decomposition and
// addressable-section editing for AI-generated specification documents.
//
// A specification document is a flat markdown string whose sections are
// delimited by numbered third-level headings:
//
//	### 1. PRD
//	...body...
//	### 2. Tech Stack
//	...body...
//
// Parse splits such a document into an ordered list of addressable
// sections; Patch splices a regenerated section back into the full document
// without disturbing the rest of it. Both functions are pure and total over
// all string inputs.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
)

// headingPattern matches a section heading line: the fixed "###" marker,
// one space, one or more decimal digits, a literal period, then free text
// to end of line. Documents without any match are treated as unsectioned.
var headingPattern = regexp.MustCompile(`(?m)^### \d+\..*$`)

// HeadingPattern returns the compiled section heading pattern. Exposed for
// callers that anchor their own matching on section headings, such as the
// premium-module redaction in the generator.
func HeadingPattern() *regexp.Regexp {
	return headingPattern
}

// Synthetic section ids and titles for degenerate documents.
const (
	FullDocumentID    = "full-document"
	FullDocumentTitle = "Full Document"
	OverviewID        = "overview"
	OverviewTitle     = "Overview"
)

var (
	idWhitespace = regexp.MustCompile(`\s+`)
	idDisallowed = regexp.MustCompile(`[^\w().\-]`)
)

// Parse splits a document into its ordered sections.
//
// # Description
//
// Scans for all line-anchored heading matches in document order. With no
// matches, a non-blank document becomes a single synthetic "full-document"
// section and a blank one yields nil. With matches, any non-blank text
// before the first heading becomes a synthetic "overview" section, and each
// heading opens a section running to the next heading or document end.
// Section contents are trimmed of surrounding whitespace; titles are the
// heading line with the "###" marker stripped and trimmed.
//
// Ids are derived via DeriveID with a "section-<index>" fallback. Colliding
// sibling ids are NOT deduplicated: resolving an id returns the last match.
// That is a deliberate policy carried over from the reference behavior, not
// an accident.
//
// Parse never fails; it is a pure function of its input.
func Parse(document string) []datatypes.Section {
	matches := headingPattern.FindAllStringIndex(document, -1)

	if len(matches) == 0 {
		if strings.TrimSpace(document) == "" {
			return nil
		}
		return []datatypes.Section{{
			ID:      FullDocumentID,
			Title:   FullDocumentTitle,
			Content: strings.TrimSpace(document),
		}}
	}

	var sections []datatypes.Section
	if matches[0][0] > 0 {
		preamble := strings.TrimSpace(document[:matches[0][0]])
		if preamble != "" {
			sections = append(sections, datatypes.Section{
				ID:      OverviewID,
				Title:   OverviewTitle,
				Content: preamble,
			})
		}
	}

	for i, m := range matches {
		end := len(document)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		headingLine := document[m[0]:m[1]]
		title := strings.TrimSpace(strings.TrimPrefix(headingLine, "###"))

		id := DeriveID(title)
		if id == "" {
			id = fmt.Sprintf("section-%d", i)
		}

		sections = append(sections, datatypes.Section{
			ID:      id,
			Title:   title,
			Content: strings.TrimSpace(document[m[0]:end]),
		})
	}

	return sections
}

// DeriveID derives a deterministic section id from a title.
//
// The title is lower-cased, internal whitespace runs are collapsed to
// single hyphens, and characters outside word characters, parentheses,
// dots, and hyphens are stripped. "1. PRD" derives "1.-prd". Returns the
// empty string when nothing survives; callers apply the ordinal fallback.
func DeriveID(title string) string {
	id := strings.ToLower(strings.TrimSpace(title))
	id = idWhitespace.ReplaceAllString(id, "-")
	id = idDisallowed.ReplaceAllString(id, "")
	return id
}
