// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for user-provided request
// fields before they reach the AI backend or the document store.
package validation

import (
	"fmt"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
)

// Idea text length bounds, in characters (runes are not counted
// separately; the bound applies to byte length as submitted).
const (
	IdeaTextMinLength = 20
	IdeaTextMaxLength = 10000
)

// ValidateIdeaText checks the product idea text against the configured
// length bounds, both inclusive.
//
// Example:
//
//	if err := validation.ValidateIdeaText(req.IdeaText); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
func ValidateIdeaText(ideaText string) error {
	if len(ideaText) < IdeaTextMinLength {
		return fmt.Errorf("idea text too short: %d characters (minimum %d)", len(ideaText), IdeaTextMinLength)
	}
	if len(ideaText) > IdeaTextMaxLength {
		return fmt.Errorf("idea text too long: %d characters (maximum %d)", len(ideaText), IdeaTextMaxLength)
	}
	return nil
}

// ValidateModuleSelection checks that at least one documentation module is
// selected and that every selected id exists in the catalog. Returns the
// resolved modules in selection order on success.
func ValidateModuleSelection(moduleIDs []string) ([]datatypes.Module, error) {
	if len(moduleIDs) == 0 {
		return nil, fmt.Errorf("at least one documentation module must be selected")
	}

	modules := make([]datatypes.Module, 0, len(moduleIDs))
	for _, id := range moduleIDs {
		module := datatypes.ModuleByID(id)
		if module == nil {
			return nil, fmt.Errorf("unknown documentation module: %q", id)
		}
		modules = append(modules, *module)
	}
	return modules, nil
}
