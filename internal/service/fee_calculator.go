package service

import "time"

const secondsPerDay = 86400

// Late-return penalty schedule: each late day (a billable day beyond the
// window pre-paid by amountHeld - deposit) is surcharged at 50% of the
// daily price, integer division. Example: dailyPrice 10_000_000, one day
// pre-paid, returned on day 2 -> rent 20_000_000, penalty 5_000_000.
const (
	latePenaltyNumerator   = 1
	latePenaltyDenominator = 2
)

// FeeCalculator is pure and deterministic given the listing parameters,
// the rental start time and the settlement clock.
type FeeCalculator struct{}

func NewFeeCalculator() FeeCalculator {
	return FeeCalculator{}
}

// BillableDays is the elapsed rental time rounded up to whole days, with a
// floor of one: any partial first day counts as a full day.
func (FeeCalculator) BillableDays(startTime, now time.Time) int64 {
	elapsedSeconds := int64(now.Sub(startTime) / time.Second)
	if elapsedSeconds <= secondsPerDay {
		return 1
	}
	return (elapsedSeconds + secondsPerDay - 1) / secondsPerDay
}

// Assess computes the rent owed for the elapsed rental and the late penalty
// for billable days beyond the pre-paid window. Both results are non-negative.
func (c FeeCalculator) Assess(dailyPrice, deposit, amountHeld int64, startTime, now time.Time) (rentOwed, penaltyOwed int64) {
	days := c.BillableDays(startTime, now)
	rentOwed = dailyPrice * days

	prepaidDays := (amountHeld - deposit) / dailyPrice
	if prepaidDays < 0 {
		prepaidDays = 0
	}
	lateDays := days - prepaidDays
	if lateDays > 0 {
		penaltyOwed = lateDays * dailyPrice * latePenaltyNumerator / latePenaltyDenominator
	}
	return rentOwed, penaltyOwed
}
