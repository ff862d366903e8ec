// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package quota implements the usage-metering ledger that gates billable AI
// calls against a rolling monthly allowance.
//
// The ledger state is the stored UserProfile: (plan, generationsUsed,
// cycleStart). The cycle resets lazily on read once 30 days have elapsed;
// there is no background timer. Admission and debit are combined into one
// transactional Reserve so that two racing requests cannot both pass the
// check before either debit lands.
package quota

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/store"
)

// FreeTierLimit is the number of billable generations a free-plan user may
// run per 30-day cycle. Shared by admission checks and display.
const FreeTierLimit = 3

// cycleLength is the rolling quota window.
const cycleLength = 30 * 24 * time.Hour

// ErrQuotaExhausted is returned by Reserve when the free-tier allowance for
// the current cycle is spent. Callers must refuse the operation without
// contacting the AI backend and point the user at the upgrade path.
var ErrQuotaExhausted = errors.New("monthly generation quota exhausted")

// Ledger meters billable operations per identity against the profile store.
type Ledger struct {
	profiles *store.ProfileStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewLedger creates a Ledger over the given profile store.
func NewLedger(profiles *store.ProfileStore, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{profiles: profiles, logger: logger, now: time.Now}
}

// FetchOrCreate reads the profile for an identity, creating the default
// free-plan profile on first read and applying the lazy 30-day rollover.
//
// The rollover rewrites only the usage fields; the stored plan is
// preserved. The rewritten profile is persisted before it is returned, so
// a subsequent read from any session observes the reset.
func (l *Ledger) FetchOrCreate(ctx context.Context, id string) (*datatypes.UserProfile, error) {
	return l.profiles.Update(ctx, id, func(p *datatypes.UserProfile) error {
		if p.Plan == "" {
			p.Plan = datatypes.PlanFree
			p.GenerationsUsed = 0
			p.CycleStart = l.now().UTC()
			return nil
		}
		if l.cycleElapsed(p) {
			p.GenerationsUsed = 0
			p.CycleStart = l.now().UTC()
		}
		return nil
	})
}

// Remaining computes the display allowance for a profile.
//
// Returns nil for "unmetered, do not block": either no profile is loaded
// yet or the plan is a paid tier. Negative balances (possible when racing
// generations overshoot the cap) are clamped to zero for display; the
// stored count is never clamped.
func (l *Ledger) Remaining(profile *datatypes.UserProfile) *int {
	if profile == nil || !profile.Plan.Metered() {
		return nil
	}
	remaining := FreeTierLimit - profile.GenerationsUsed
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// Reserve admits and debits one billable operation in a single atomic
// check-and-increment.
//
// For metered plans, the admission rule requires remaining > 0; an
// exhausted allowance yields ErrQuotaExhausted and no debit. Unmetered
// plans are debited without a cap for bookkeeping. Rollover is applied
// first, so a stale cycle never blocks a request.
func (l *Ledger) Reserve(ctx context.Context, id string) error {
	_, err := l.profiles.Update(ctx, id, func(p *datatypes.UserProfile) error {
		if p.Plan == "" {
			p.Plan = datatypes.PlanFree
			p.CycleStart = l.now().UTC()
		} else if l.cycleElapsed(p) {
			p.GenerationsUsed = 0
			p.CycleStart = l.now().UTC()
		}

		if p.Plan.Metered() && p.GenerationsUsed >= FreeTierLimit {
			return ErrQuotaExhausted
		}
		p.GenerationsUsed++
		return nil
	})
	return err
}

// Refund returns one reserved generation after the AI call it paid for
// failed. A refund that itself fails is a bookkeeping miss: it is logged
// and swallowed, never surfaced to the user and never retried.
func (l *Ledger) Refund(ctx context.Context, id string) {
	_, err := l.profiles.Update(ctx, id, func(p *datatypes.UserProfile) error {
		if p.GenerationsUsed > 0 {
			p.GenerationsUsed--
		}
		return nil
	})
	if err != nil {
		l.logger.Error("quota refund failed; count remains debited", "user_id", id, "error", err)
	}
}

func (l *Ledger) cycleElapsed(p *datatypes.UserProfile) bool {
	return !p.CycleStart.IsZero() && l.now().Sub(p.CycleStart) >= cycleLength
}
