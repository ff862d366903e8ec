// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// Module is a documentation module a user can include in a generated
// specification. Premium modules have their section bodies withheld from
// free-tier users.
type Module struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Premium bool   `json:"premium"`
}

// ModuleCatalog is the fixed set of documentation modules offered by the
// generator. The Name values double as the heading match keys for premium
// redaction, so they must mirror the headings the master prompt asks for.
var ModuleCatalog = []Module{
	{ID: "prd", Name: "PRD", Premium: false},
	{ID: "tech-stack", Name: "Tech Stack", Premium: false},
	{ID: "project-structure", Name: "Project Structure", Premium: false},
	{ID: "schema-design", Name: "Schema Design", Premium: false},
	{ID: "user-flow", Name: "User Flow", Premium: false},
	{ID: "api-design", Name: "API Design", Premium: true},
	{ID: "security-plan", Name: "Security Plan", Premium: true},
	{ID: "testing-strategy", Name: "Testing Strategy", Premium: true},
}

// ModuleByID returns the catalog module with the given id, or nil.
func ModuleByID(id string) *Module {
	for i := range ModuleCatalog {
		if ModuleCatalog[i].ID == id {
			return &ModuleCatalog[i]
		}
	}
	return nil
}
