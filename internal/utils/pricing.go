package utils

import (
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
)

const (
	// PersonalInsuranceDailyCents is the per-day surcharge for personal injury cover.
	PersonalInsuranceDailyCents int64 = 2500
	// ThirdPartyInsuranceDailyCents is the per-day surcharge for third-party cover.
	ThirdPartyInsuranceDailyCents int64 = 3500

	billingDay = 24 * time.Hour
)

// RentalQuote is the cost breakdown of a rental over a whole number of billable days.
type RentalQuote struct {
	Days               int64 `json:"days"`
	DailyCostCents     int64 `json:"daily_cost_cents"`
	InsuranceCostCents int64 `json:"insurance_cost_cents"`
	TotalCents         int64 `json:"total_cents"`
}

// BillableDays counts started 24h periods between from and to, never less than one.
// A partial day is charged as a full day.
func BillableDays(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 1
	}
	days := int64(d / billingDay)
	if d%billingDay != 0 {
		days++
	}
	return days
}

// InsuranceDailyCents returns the combined per-day surcharge for the selected covers.
func InsuranceDailyCents(personal, thirdParty bool) int64 {
	var cents int64
	if personal {
		cents += PersonalInsuranceDailyCents
	}
	if thirdParty {
		cents += ThirdPartyInsuranceDailyCents
	}
	return cents
}

func quoteForDays(days, dailyRateCents int64, personal, thirdParty bool) RentalQuote {
	dailyCost := days * dailyRateCents
	insuranceCost := days * InsuranceDailyCents(personal, thirdParty)
	return RentalQuote{
		Days:               days,
		DailyCostCents:     dailyCost,
		InsuranceCostCents: insuranceCost,
		TotalCents:         dailyCost + insuranceCost,
	}
}

// EstimateRentalCost prices a rental from pickup to the scheduled return.
// It has no side effects and serves both previews and persisted estimates.
func EstimateRentalCost(pickup, scheduledReturn time.Time, dailyRateCents int64, personal, thirdParty bool) (RentalQuote, error) {
	if !scheduledReturn.After(pickup) {
		return RentalQuote{}, domain.ErrInvalidDateRange
	}
	if dailyRateCents < 0 {
		return RentalQuote{}, fmt.Errorf("negative daily rate %d: %w", dailyRateCents, domain.ErrInvalidArgument)
	}
	return quoteForDays(BillableDays(pickup, scheduledReturn), dailyRateCents, personal, thirdParty), nil
}

// LateFeeCents charges half the daily rate for every started day past the scheduled
// return. A half cent rounds up.
func LateFeeCents(scheduledReturn, actualReturn time.Time, dailyRateCents int64) int64 {
	if !actualReturn.After(scheduledReturn) {
		return 0
	}
	lateDays := BillableDays(scheduledReturn, actualReturn)
	return (lateDays*dailyRateCents + 1) / 2
}

// SettleRentalCost computes the amount charged when the vehicle comes back at
// actualReturn: base and insurance over the real duration plus any late fee.
// The caller supplies actualReturn so the computation stays deterministic.
func SettleRentalCost(pickup, scheduledReturn, actualReturn time.Time, dailyRateCents int64, personal, thirdParty bool) int64 {
	q := quoteForDays(BillableDays(pickup, actualReturn), dailyRateCents, personal, thirdParty)
	return q.TotalCents + LateFeeCents(scheduledReturn, actualReturn, dailyRateCents)
}
