package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateExpiryDate(t *testing.T) {
	joined := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Yearly", func(t *testing.T) {
		expiry := CalculateExpiryDate(PlanIntervalYearly, joined)
		require.NotNil(t, expiry)
		assert.Equal(t, time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC), *expiry)
	})

	t.Run("Monthly", func(t *testing.T) {
		expiry := CalculateExpiryDate(PlanIntervalMonthly, joined)
		require.NotNil(t, expiry)
		assert.Equal(t, time.Date(2024, time.April, 15, 10, 0, 0, 0, time.UTC), *expiry)
	})

	t.Run("Monthly from end of month", func(t *testing.T) {
		expiry := CalculateExpiryDate(PlanIntervalMonthly, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
		require.NotNil(t, expiry)
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), *expiry)
	})

	t.Run("Lifetime", func(t *testing.T) {
		assert.Nil(t, CalculateExpiryDate(PlanIntervalLifetime, joined))
	})

	t.Run("Unknown interval defaults to yearly", func(t *testing.T) {
		for _, interval := range []PlanInterval{"", "weekly"} {
			expiry := CalculateExpiryDate(interval, joined)
			require.NotNil(t, expiry)
			assert.Equal(t, time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC), *expiry)
		}
	})

	t.Run("Expiry is after join date", func(t *testing.T) {
		for _, interval := range []PlanInterval{PlanIntervalMonthly, PlanIntervalYearly} {
			expiry := CalculateExpiryDate(interval, joined)
			require.NotNil(t, expiry)
			assert.True(t, expiry.After(joined))
		}
	})
}

func TestIsMembershipExpired(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	assert.False(t, IsMembershipExpired(nil, now))
	assert.True(t, IsMembershipExpired(&past, now))
	assert.False(t, IsMembershipExpired(&future, now))
	assert.False(t, IsMembershipExpired(&now, now))
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Lifetime", func(t *testing.T) {
		assert.Nil(t, DaysUntilExpiry(nil, now))
	})

	t.Run("Partial day rounds up", func(t *testing.T) {
		expiry := now.Add(36 * time.Hour)
		days := DaysUntilExpiry(&expiry, now)
		require.NotNil(t, days)
		assert.Equal(t, 2, *days)
	})

	t.Run("Past", func(t *testing.T) {
		expiry := now.AddDate(0, 0, -10)
		days := DaysUntilExpiry(&expiry, now)
		require.NotNil(t, days)
		assert.Equal(t, -10, *days)
	})
}

func TestExpiryStateOf(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	at := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}

	assert.Equal(t, ExpiryStateLifetime, ExpiryStateOf(nil, now))
	assert.Equal(t, ExpiryStateExpired, ExpiryStateOf(at(-3), now))
	assert.Equal(t, ExpiryStateExpiringSoon, ExpiryStateOf(at(1), now))
	assert.Equal(t, ExpiryStateExpiringSoon, ExpiryStateOf(at(30), now))
	assert.Equal(t, ExpiryStateActive, ExpiryStateOf(at(31), now))
}

func TestExpiryStateOfAgreesWithIsMembershipExpired(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{-24 * time.Hour, -time.Nanosecond, 0, time.Nanosecond, time.Hour} {
		expiry := now.Add(offset)
		assert.Equal(t, IsMembershipExpired(&expiry, now), ExpiryStateOf(&expiry, now) == ExpiryStateExpired, "offset %s", offset)
	}

	assert.Equal(t, ExpiryStateExpiringSoon, ExpiryStateOf(&now, now))
	past := now.Add(-time.Nanosecond)
	assert.Equal(t, ExpiryStateExpired, ExpiryStateOf(&past, now))
}
