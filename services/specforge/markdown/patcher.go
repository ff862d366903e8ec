// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package markdown

import (
	"errors"
	"strings"
)

// ErrSectionNotFound is returned by Patch when the old section content does
// not occur verbatim in the document.
var ErrSectionNotFound = errors.New("section content not found in document")

// Patch replaces the first exact occurrence of oldContent with newContent
// inside document.
//
// # Description
//
// This is a plain first-occurrence substring substitution, not an
// index-based splice: all other bytes of the document are preserved
// exactly. The reference behavior silently returned the document unchanged
// when oldContent was not found verbatim, for example after the document
// was mutated between parse and patch, or because parse-time trimming made
// the stored content differ from the literal substring. That silent no-op
// dropped user edits, so here a miss is an explicit ErrSectionNotFound and
// the caller decides. Use PatchOrKeep where the legacy tolerance is wanted.
//
// Patch is pure and never modifies its inputs.
func Patch(document, oldContent, newContent string) (string, error) {
	if !strings.Contains(document, oldContent) {
		return "", ErrSectionNotFound
	}
	return strings.Replace(document, oldContent, newContent, 1), nil
}

// PatchOrKeep behaves like Patch but returns the document unchanged on a
// miss, reproducing the reference's silent-no-op semantics for callers that
// must not fail (e.g. best-effort saves).
func PatchOrKeep(document, oldContent, newContent string) string {
	patched, err := Patch(document, oldContent, newContent)
	if err != nil {
		return document
	}
	return patched
}
