// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// Plan is the usage tier attached to a user profile.
type Plan string

const (
	// PlanFree is the default metered tier. Generations per monthly
	// cycle are capped at quota.FreeTierLimit.
	PlanFree Plan = "free"

	// PlanPro is the first paid tier. Unmetered.
	PlanPro Plan = "pro"

	// PlanTeam is the second paid tier. Unmetered.
	PlanTeam Plan = "team"
)

// Metered reports whether generations on this plan count against a quota.
func (p Plan) Metered() bool {
	return p == PlanFree || p == ""
}

// UserProfile is the per-identity usage record owned by the document store.
//
// GenerationsUsed resets to 0 and CycleStart resets to "now" whenever a read
// observes that 30 days have elapsed since CycleStart. The reset is lazy;
// there is no background timer. The stored count is never clamped to the
// limit: concurrent generations can legitimately push it past the cap.
type UserProfile struct {
	// ID matches the authenticated identity string.
	ID string `json:"id"`

	// Plan is the usage tier. Defaults to PlanFree on first read.
	Plan Plan `json:"plan"`

	// GenerationsUsed counts billable AI calls in the current cycle.
	GenerationsUsed int `json:"generationsUsedThisMonth"`

	// CycleStart marks the beginning of the current 30-day cycle.
	CycleStart time.Time `json:"monthlyCycleStart"`
}
