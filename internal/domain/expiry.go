package domain

import (
	"time"

	"memberhub-backend/internal/utils"
)

// ExpiringSoonDays is the window in which an active membership is flagged as expiring soon.
const ExpiringSoonDays = 30

type ExpiryState string

const (
	ExpiryStateLifetime     ExpiryState = "lifetime"
	ExpiryStateActive       ExpiryState = "active"
	ExpiryStateExpiringSoon ExpiryState = "expiring_soon"
	ExpiryStateExpired      ExpiryState = "expired"
)

// CalculateExpiryDate returns the expiry for a membership starting at from.
// Lifetime plans never expire; unknown intervals are treated as yearly.
func CalculateExpiryDate(interval PlanInterval, from time.Time) *time.Time {
	var expiry time.Time
	switch interval.Normalize() {
	case PlanIntervalLifetime:
		return nil
	case PlanIntervalMonthly:
		expiry = utils.AddMonths(from, 1)
	default:
		expiry = utils.AddYears(from, 1)
	}
	return &expiry
}

// IsMembershipExpired is false for lifetime memberships, otherwise expiry < now.
func IsMembershipExpired(expiry *time.Time, now time.Time) bool {
	if expiry == nil {
		return false
	}
	return expiry.Before(now)
}

// DaysUntilExpiry returns ceil((expiry - now) / 1 day), or nil for lifetime memberships.
func DaysUntilExpiry(expiry *time.Time, now time.Time) *int {
	if expiry == nil {
		return nil
	}
	days := utils.CeilDays(now, *expiry)
	return &days
}

// ExpiryStateOf classifies a membership for display. It reports expired exactly when
// IsMembershipExpired does, so a membership expiring at now is still expiring soon
// and matches what the sweep leaves in place.
func ExpiryStateOf(expiry *time.Time, now time.Time) ExpiryState {
	days := DaysUntilExpiry(expiry, now)
	switch {
	case days == nil:
		return ExpiryStateLifetime
	case IsMembershipExpired(expiry, now):
		return ExpiryStateExpired
	case *days <= ExpiringSoonDays:
		return ExpiryStateExpiringSoon
	default:
		return ExpiryStateActive
	}
}
