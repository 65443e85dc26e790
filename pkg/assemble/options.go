package assemble

// FilingOptions builds the mutually exclusive filing-option group the
// recipient must ultimately choose from. Every option is always listed;
// a disqualified option is marked non-selectable with the reason, so the
// recipient sees why it is unavailable rather than wondering where it
// went.
func FilingOptions(in Input) []Option {
	opts := []Option{
		{Label: "File the corporate tax return under the standard regime", Selectable: true},
	}

	sbr := Option{Label: "Elect small business relief for the period"}
	switch {
	case !in.Facts.ReliefAvailable:
		sbr.Reason = "revenue exceeds the AED 3,000,000 relief ceiling"
	case !in.Selections.ApplySBR:
		sbr.Reason = "not applicable to the selected engagement"
	default:
		sbr.Selectable = true
	}
	opts = append(opts, sbr)

	qfzp := Option{Label: "Apply the qualifying free zone person regime"}
	switch {
	case !in.Selections.ApplyQFZP:
		qfzp.Reason = "not applicable to the entity type"
	case !in.Facts.QFZP.Qualified:
		qfzp.Reason = "one or more qualifying conditions are not fulfilled"
	default:
		qfzp.Selectable = true
	}
	opts = append(opts, qfzp)

	return opts
}

// WithOptions attaches a choice group to the named section of an
// assembled document. Missing sections are a no-op so callers can attach
// unconditionally.
func WithOptions(doc Document, sectionTitle string, opts []Option) Document {
	for i := range doc.Sections {
		if doc.Sections[i].Title == sectionTitle {
			doc.Sections[i].Options = opts
			break
		}
	}
	return doc
}
