// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// SavedSpec is a persisted specification record. A user may hold any number
// of records; names are not unique. Records are created on explicit save,
// updated on re-save carrying the same ID, and removed on explicit delete.
type SavedSpec struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	IdeaText  string    `json:"ideaText"`
	Document  string    `json:"generatedDocument"`
	ModuleIDs []string  `json:"selectedModuleIds"`
	SavedAt   time.Time `json:"savedAt"`
}
