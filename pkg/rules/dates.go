package rules

import "time"

// FilingDueDate returns the corporate-tax return filing due date for a tax
// period: nine calendar months after the period end, minus one day. Month
// overflow follows standard calendar rules, so a period ending 31 December
// is due 30 September of the following year.
func FilingDueDate(periodEnd time.Time) time.Time {
	return periodEnd.AddDate(0, 9, 0).AddDate(0, 0, -1)
}

// DisqualificationDate returns the end of the four-year window during
// which a failed eligibility check keeps the benefit unavailable.
func DisqualificationDate(periodEnd time.Time) time.Time {
	return periodEnd.AddDate(4, 0, 0)
}
