// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package generator

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/markdown"
)

// suggestionPattern matches a bracketed suggestion line:
// "- [<section title>] <text>".
var suggestionPattern = regexp.MustCompile(`^-\s*\[([^\]]+)\]\s*(.+)$`)

// parseAnalysis splits an analysis response into items, one per non-blank
// line. Heading lines and bracketed suggestion lines carry a referenced
// section title; an item is actionable only when that title matches a
// current section title exactly. Everything else is free text.
func parseAnalysis(response string, sections []datatypes.Section) []datatypes.AnalysisItem {
	var items []datatypes.AnalysisItem

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		item := datatypes.AnalysisItem{
			ID:   uuid.New().String(),
			Kind: datatypes.AnalysisKindFreeText,
			Text: line,
		}

		switch {
		case markdown.HeadingPattern().MatchString(line):
			item.Kind = datatypes.AnalysisKindHeading
			item.SectionTitle = strings.TrimSpace(strings.TrimPrefix(line, "###"))
		default:
			if m := suggestionPattern.FindStringSubmatch(line); m != nil {
				item.Kind = datatypes.AnalysisKindSuggestion
				item.SectionTitle = strings.TrimSpace(m[1])
				item.Text = strings.TrimSpace(m[2])
			}
		}

		if item.SectionTitle != "" {
			if section := datatypes.SectionByTitle(sections, item.SectionTitle); section != nil {
				item.Section = section
				item.Actionable = true
			}
		}
		items = append(items, item)
	}
	return items
}
