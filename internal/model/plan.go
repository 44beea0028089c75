// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for plans, messages and
// conversations.
package model

// =============================================================================
// PLAN TYPE
// =============================================================================

// Plan is the subscription tier of the current user. The plan selects the
// identity strategy (session id for free users, a real host-supplied id for
// paid tiers) and gates which features the backend exposes.
type Plan string

const (
	PlanFree        Plan = "free"
	PlanPremium     Plan = "premium"
	PlanPremiumPlus Plan = "premium_plus"
)

// PlanFromLevel derives the plan from the host-supplied numeric level.
// An absent level (0) and level 1 both map to the free tier.
func PlanFromLevel(level int) Plan {
	switch level {
	case 2:
		return PlanPremium
	case 3:
		return PlanPremiumPlus
	default:
		return PlanFree
	}
}

// Level returns the numeric level for the plan (1, 2 or 3).
func (p Plan) Level() int {
	switch p {
	case PlanPremium:
		return 2
	case PlanPremiumPlus:
		return 3
	default:
		return 1
	}
}

// IsPaid reports whether the plan requires a real user identity.
func (p Plan) IsPaid() bool {
	return p == PlanPremium || p == PlanPremiumPlus
}

// Valid reports whether p is one of the known plan values.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPremium, PlanPremiumPlus:
		return true
	}
	return false
}

// String returns the wire representation of the plan.
func (p Plan) String() string {
	return string(p)
}

// DisplayName returns a human-readable name for the plan.
func (p Plan) DisplayName() string {
	switch p {
	case PlanPremium:
		return "Premium"
	case PlanPremiumPlus:
		return "Premium Plus"
	default:
		return "Free"
	}
}
