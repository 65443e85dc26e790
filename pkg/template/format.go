package template

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// letterDateLayout is the date form used in generated letters and emails,
// e.g. "30.09.2025".
const letterDateLayout = "02.01.2006"

// FormatDate renders a date in the letter convention. The zero time
// renders as an empty string so missing values never produce "01.01.0001"
// in a draft.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(letterDateLayout)
}

// FormatAmountAED renders an AED amount with grouping separators for the
// given language, e.g. "AED 3,000,000".
func FormatAmountAED(amount int64, lang language.Tag) string {
	p := message.NewPrinter(lang)
	return p.Sprintf("AED %d", amount)
}
