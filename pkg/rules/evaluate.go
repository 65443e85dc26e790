package rules

import "time"

// ClientFacts is the structured client data correspondence is generated
// from. ShortName is the identifier used in filenames and subjects.
type ClientFacts struct {
	FirstName  string
	LastName   string
	Company    string
	ShortName  string
	Authority  Authority
	RevenueAED int64
	TaxYear    int
}

// Selections holds the operator's choices for one generation pass: which
// letters to produce and which conditional content applies.
type Selections struct {
	ReceiverName        string
	ReceiverEmail       string
	IncludeReturnLetter bool
	IncludeDisclaimer   bool
	IncludeVisaOffer    bool
	ApplyQFZP           bool
	ApplySBR            bool
	ApplyNOC            bool
	CustomReceiver      bool
}

// Facts is the complete set of computed values one generation pass needs.
// It is deterministic for identical inputs and carries no references back
// to mutable state.
type Facts struct {
	PeriodEnd        time.Time
	FilingDue        time.Time
	Disqualification time.Time
	Profile          EntityProfile
	QFZP             QFZPResult
	ReliefAvailable  bool
	HasPeriodEnd     bool
}

// Evaluate computes all facts for one generation pass. A zero periodEnd is
// recorded as missing; the assembler substitutes its documented
// placeholder date in that case rather than failing preview generation.
func Evaluate(periodEnd time.Time, client ClientFacts, qfzp QFZPConditions) Facts {
	f := Facts{
		PeriodEnd:       periodEnd,
		HasPeriodEnd:    !periodEnd.IsZero(),
		Profile:         ProfileFor(client.Authority),
		ReliefAvailable: ReliefAvailable(client.RevenueAED),
	}
	if f.HasPeriodEnd {
		f.FilingDue = FilingDueDate(periodEnd)
		f.Disqualification = DisqualificationDate(periodEnd)
	}
	f.QFZP = EvaluateQFZP(qfzp, periodEnd)
	return f
}
