package rules

import "time"

// ReliefCeilingAED is the revenue ceiling above which small business
// relief is disallowed.
const ReliefCeilingAED int64 = 3_000_000

// Condition status strings reported per QFZP sub-condition.
const (
	StatusFulfilled    = "Fulfilled"
	StatusNotFulfilled = "Not fulfilled"
)

// QFZPConditions holds the six independent sub-conditions a free-zone
// person must satisfy to be a qualifying free zone person.
type QFZPConditions struct {
	AdequateSubstance     bool
	QualifyingIncome      bool
	NoStandardRateElected bool
	TransferPricingDocs   bool
	AuditedFinancials     bool
	DeMinimisSatisfied    bool
}

// ConditionStatus reports one sub-condition by name.
type ConditionStatus struct {
	Name   string
	Status string
}

// QFZPResult is the outcome of the QFZP eligibility check. When the check
// fails, DisqualifiedUntil holds the end of the four-year window.
type QFZPResult struct {
	DisqualifiedUntil time.Time
	Conditions        []ConditionStatus
	Qualified         bool
}

// EvaluateQFZP checks all six sub-conditions. The benefit is qualified iff
// every sub-condition holds; a single failure disqualifies the whole
// benefit and opens a four-year window from the tax-period end.
func EvaluateQFZP(c QFZPConditions, periodEnd time.Time) QFZPResult {
	checks := []struct {
		name string
		ok   bool
	}{
		{"Adequate substance in the free zone", c.AdequateSubstance},
		{"Derives qualifying income", c.QualifyingIncome},
		{"No election for the standard rate", c.NoStandardRateElected},
		{"Transfer pricing documentation maintained", c.TransferPricingDocs},
		{"Audited financial statements prepared", c.AuditedFinancials},
		{"De minimis requirement satisfied", c.DeMinimisSatisfied},
	}

	res := QFZPResult{Qualified: true, Conditions: make([]ConditionStatus, 0, len(checks))}
	for _, chk := range checks {
		status := StatusFulfilled
		if !chk.ok {
			status = StatusNotFulfilled
			res.Qualified = false
		}
		res.Conditions = append(res.Conditions, ConditionStatus{Name: chk.name, Status: status})
	}
	if !res.Qualified {
		res.DisqualifiedUntil = DisqualificationDate(periodEnd)
	}
	return res
}

// ReliefAvailable reports whether small business relief may still be
// elected for the given revenue. Once revenue exceeds the ceiling the
// relief is disallowed; the option is still listed, only marked
// non-selectable.
func ReliefAvailable(revenueAED int64) bool {
	return revenueAED <= ReliefCeilingAED
}
