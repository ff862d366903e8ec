// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAccessDenied is returned when a record exists but belongs to a
	// different owner. Handlers surface this class with remediation text
	// distinct from generic store errors.
	ErrAccessDenied = errors.New("access denied: record belongs to another user")
)
