package template

import (
	"golang.org/x/text/language"

	"github.com/taxdesk/correspond/pkg/rules"
)

// BuildContext assembles the immutable placeholder context for one
// resolution pass from client data, computed facts and the issuing-entity
// profile. It is rebuilt whenever source data or the language changes.
func BuildContext(client rules.ClientFacts, facts rules.Facts, lang language.Tag, letterCount int) Context {
	return Context{
		"first_name":            client.FirstName,
		"last_name":             client.LastName,
		"company":               client.Company,
		"short_name":            client.ShortName,
		"tax_year":              client.TaxYear,
		"due_date":              FormatDate(facts.FilingDue),
		"period_end":            FormatDate(facts.PeriodEnd),
		"disqualification_date": FormatDate(facts.Disqualification),
		"relief_ceiling":        FormatAmountAED(rules.ReliefCeilingAED, lang),
		"revenue":               FormatAmountAED(client.RevenueAED, lang),
		"entity_name":           facts.Profile.LegalName,
		"entity_trn":            facts.Profile.TRN,
		"entity_contact":        facts.Profile.ContactBlock,
		"entity_phone":          facts.Profile.Phone,
		"entity_email":          facts.Profile.Email,
		"letter_count":          letterCount,
	}
}
