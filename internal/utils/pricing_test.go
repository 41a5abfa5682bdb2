package utils

import (
	"testing"
	"time"

	"vehicle-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pickup = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestBillableDays(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected int64
	}{
		{"one minute", time.Minute, 1},
		{"23 hours", 23 * time.Hour, 1},
		{"exactly one day", 24 * time.Hour, 1},
		{"one day and a second", 24*time.Hour + time.Second, 2},
		{"five days", 5 * 24 * time.Hour, 5},
		{"zero", 0, 1},
		{"negative", -time.Hour, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BillableDays(pickup, pickup.Add(tt.duration)))
		})
	}
}

func TestEstimateRentalCost(t *testing.T) {
	t.Run("Partial day rounds up to one", func(t *testing.T) {
		q, err := EstimateRentalCost(pickup, pickup.Add(23*time.Hour), 10000, false, false)
		require.NoError(t, err)
		assert.Equal(t, RentalQuote{Days: 1, DailyCostCents: 10000, InsuranceCostCents: 0, TotalCents: 10000}, q)
	})

	t.Run("Both insurances over five days", func(t *testing.T) {
		q, err := EstimateRentalCost(pickup, pickup.Add(5*24*time.Hour), 10000, true, true)
		require.NoError(t, err)
		assert.Equal(t, RentalQuote{Days: 5, DailyCostCents: 50000, InsuranceCostCents: 30000, TotalCents: 80000}, q)
	})

	t.Run("Single insurance", func(t *testing.T) {
		q, err := EstimateRentalCost(pickup, pickup.Add(2*24*time.Hour), 10000, false, true)
		require.NoError(t, err)
		assert.Equal(t, int64(7000), q.InsuranceCostCents)
		assert.Equal(t, int64(27000), q.TotalCents)
	})

	t.Run("Return equal to pickup", func(t *testing.T) {
		_, err := EstimateRentalCost(pickup, pickup, 10000, false, false)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Return before pickup", func(t *testing.T) {
		_, err := EstimateRentalCost(pickup, pickup.Add(-time.Hour), 10000, false, false)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Negative rate", func(t *testing.T) {
		_, err := EstimateRentalCost(pickup, pickup.Add(time.Hour), -1, false, false)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestEstimateRentalCost_Monotonic(t *testing.T) {
	flags := [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}}
	var prevTotal int64
	for hours := 1; hours <= 24*10; hours += 7 {
		ret := pickup.Add(time.Duration(hours) * time.Hour)

		base, err := EstimateRentalCost(pickup, ret, 8999, false, false)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, base.TotalCents, prevTotal, "duration %dh", hours)
		prevTotal = base.TotalCents

		for _, f := range flags {
			q, err := EstimateRentalCost(pickup, ret, 8999, f[0], f[1])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, q.TotalCents, base.TotalCents)
			both, _ := EstimateRentalCost(pickup, ret, 8999, true, true)
			assert.GreaterOrEqual(t, both.TotalCents, q.TotalCents)
		}
	}
}

func TestSettleRentalCost(t *testing.T) {
	scheduled := pickup.Add(3 * 24 * time.Hour)

	t.Run("Returned exactly on schedule matches estimate", func(t *testing.T) {
		q, err := EstimateRentalCost(pickup, scheduled, 10000, true, false)
		require.NoError(t, err)
		assert.Equal(t, q.TotalCents, SettleRentalCost(pickup, scheduled, scheduled, 10000, true, false))
	})

	t.Run("Two days late adds half rate per day", func(t *testing.T) {
		actual := scheduled.Add(2 * 24 * time.Hour)
		base := quoteForDays(5, 10000, false, false)
		assert.Equal(t, int64(10000), LateFeeCents(scheduled, actual, 10000))
		assert.Equal(t, base.TotalCents+10000, SettleRentalCost(pickup, scheduled, actual, 10000, false, false))
	})

	t.Run("Late fee is not multiplied by insurance", func(t *testing.T) {
		actual := scheduled.Add(24 * time.Hour)
		got := SettleRentalCost(pickup, scheduled, actual, 10000, true, true)
		assert.Equal(t, int64(4*10000+4*6000+5000), got)
	})

	t.Run("Partial late day counts as a full day", func(t *testing.T) {
		assert.Equal(t, int64(5000), LateFeeCents(scheduled, scheduled.Add(time.Minute), 10000))
	})

	t.Run("Early return bills the actual duration", func(t *testing.T) {
		actual := pickup.Add(30 * time.Hour)
		assert.Equal(t, int64(20000), SettleRentalCost(pickup, scheduled, actual, 10000, false, false))
	})

	t.Run("Return before pickup still bills one day", func(t *testing.T) {
		assert.Equal(t, int64(10000), SettleRentalCost(pickup, scheduled, pickup.Add(-time.Hour), 10000, false, false))
	})

	t.Run("Odd half cent rounds up", func(t *testing.T) {
		assert.Equal(t, int64(50), LateFeeCents(scheduled, scheduled.Add(time.Hour), 99))
	})
}
