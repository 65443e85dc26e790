package assemble

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taxdesk/correspond/pkg/content"
	"github.com/taxdesk/correspond/pkg/rules"
)

func factsWithPeriodEnd(t *testing.T) rules.Facts {
	t.Helper()
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	return rules.Evaluate(end, rules.ClientFacts{RevenueAED: 1_000_000}, rules.QFZPConditions{})
}

func numberedCandidate(title string, included bool, blocks int) Candidate {
	return Candidate{
		Title:     title,
		Predicate: func(Input) bool { return included },
		Build: func(Input) []content.Block {
			out := make([]content.Block, blocks)
			for i := range out {
				out[i] = content.Block{Text: fmt.Sprintf("%s point %d", title, i+1), Numbered: true}
			}
			return out
		},
	}
}

func TestAssemble_NumberingSkipsFilteredCandidates(t *testing.T) {
	t.Parallel()

	cands := []Candidate{
		numberedCandidate("kept one", true, 2),
		numberedCandidate("dropped", false, 3),
		numberedCandidate("kept two", true, 3),
	}

	doc := Assemble(cands, Input{Facts: factsWithPeriodEnd(t)}, DefaultLayout)

	require.Len(t, doc.Sections, 2)
	var numbers []int
	for _, sec := range doc.Sections {
		for _, blk := range sec.Blocks {
			numbers = append(numbers, blk.Number)
		}
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, numbers)
	require.Equal(t, 5, doc.NumberedCount())
}

func TestAssemble_UnnumberedBlocksGetNoOrdinal(t *testing.T) {
	t.Parallel()

	cands := []Candidate{{
		Title: "mixed",
		Build: func(Input) []content.Block {
			return []content.Block{
				{Text: "intro paragraph"},
				{Text: "first point", Numbered: true},
				{Text: "closing paragraph"},
			}
		},
	}}

	doc := Assemble(cands, Input{Facts: factsWithPeriodEnd(t)}, DefaultLayout)

	require.Equal(t, 0, doc.Sections[0].Blocks[0].Number)
	require.Equal(t, 1, doc.Sections[0].Blocks[1].Number)
	require.Equal(t, 0, doc.Sections[0].Blocks[2].Number)
}

func TestAssemble_MissingPeriodEndIsProvisional(t *testing.T) {
	t.Parallel()

	var seenDue time.Time
	cands := []Candidate{{
		Title: "filing",
		Build: func(in Input) []content.Block {
			seenDue = in.Facts.FilingDue
			return []content.Block{{Text: "due"}}
		},
	}}

	doc := Assemble(cands, Input{Facts: rules.Facts{}}, DefaultLayout)

	require.True(t, doc.Provisional)
	require.Equal(t, PlaceholderDueDate, seenDue)
}

func TestPlaceholderFacts_SubstitutesOnlyWhenPeriodEndMissing(t *testing.T) {
	t.Parallel()

	missing := PlaceholderFacts(rules.Facts{})
	require.Equal(t, PlaceholderDueDate, missing.FilingDue)
	require.Equal(t, PlaceholderDueDate, missing.Disqualification)
	require.False(t, missing.HasPeriodEnd)

	known := factsWithPeriodEnd(t)
	require.Equal(t, known, PlaceholderFacts(known))
}

func TestAssemble_MandatoryEmptySectionFlagsReview(t *testing.T) {
	t.Parallel()

	cands := []Candidate{{
		Title:     "mandatory",
		Mandatory: true,
		Build:     func(Input) []content.Block { return nil },
	}}

	doc := Assemble(cands, Input{Facts: factsWithPeriodEnd(t)}, DefaultLayout)

	require.True(t, doc.NeedsReview)
	require.Len(t, doc.Sections, 1)
	require.Equal(t, content.KindWarning, doc.Sections[0].Blocks[0].Kind)
}

func TestAssemble_OptionalEmptySectionDropped(t *testing.T) {
	t.Parallel()

	cands := []Candidate{{
		Title: "optional",
		Build: func(Input) []content.Block { return nil },
	}}

	doc := Assemble(cands, Input{Facts: factsWithPeriodEnd(t)}, DefaultLayout)

	require.False(t, doc.NeedsReview)
	require.Empty(t, doc.Sections)
}

func TestAssemble_PageSplitKeepsSectionsTogether(t *testing.T) {
	t.Parallel()

	cands := []Candidate{
		numberedCandidate("first", true, 5),
		numberedCandidate("second", true, 5),
		numberedCandidate("third", true, 2),
	}

	doc := Assemble(cands, Input{Facts: factsWithPeriodEnd(t)}, Layout{MaxBlocksPerPage: 8})

	require.False(t, doc.Sections[0].PageBreakBefore)
	// 5 + 5 exceeds the page budget, so the second section starts page two.
	require.True(t, doc.Sections[1].PageBreakBefore)
	// 5 + 2 fits on page two.
	require.False(t, doc.Sections[2].PageBreakBefore)

	pages := doc.Pages()
	require.Len(t, pages, 2)
	require.Len(t, pages[0], 1)
	require.Len(t, pages[1], 2)
}

func TestAssemble_SingleOversizedSectionStaysWhole(t *testing.T) {
	t.Parallel()

	cands := []Candidate{numberedCandidate("eligibility table", true, 12)}

	doc := Assemble(cands, Input{Facts: factsWithPeriodEnd(t)}, Layout{MaxBlocksPerPage: 8})

	require.Len(t, doc.Sections, 1)
	require.False(t, doc.Sections[0].PageBreakBefore)
	require.Len(t, doc.Sections[0].Blocks, 12)
}

func TestFilingOptions_CeilingExceededListedNotSelectable(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	facts := rules.Evaluate(end, rules.ClientFacts{RevenueAED: 3_000_001}, rules.QFZPConditions{})

	opts := FilingOptions(Input{
		Selections: rules.Selections{ApplySBR: true},
		Facts:      facts,
	})

	require.Len(t, opts, 3)
	var sbr *Option
	for i := range opts {
		if opts[i].Label == "Elect small business relief for the period" {
			sbr = &opts[i]
		}
	}
	require.NotNil(t, sbr, "relief option must stay listed")
	require.False(t, sbr.Selectable)
	require.Contains(t, sbr.Reason, "3,000,000")
}

func TestFilingOptions_UnqualifiedQFZPNotSelectable(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	facts := rules.Evaluate(end, rules.ClientFacts{RevenueAED: 100}, rules.QFZPConditions{
		AdequateSubstance: true, // remaining five conditions unmet
	})

	opts := FilingOptions(Input{
		Selections: rules.Selections{ApplyQFZP: true, ApplySBR: true},
		Facts:      facts,
	})

	require.True(t, opts[1].Selectable, "relief under ceiling stays selectable")
	require.False(t, opts[2].Selectable)
	require.Contains(t, opts[2].Reason, "not fulfilled")
}

func TestWithOptions_AttachesToNamedSection(t *testing.T) {
	t.Parallel()

	doc := Document{Sections: []Section{{Title: "filing options"}, {Title: "closing"}}}

	doc = WithOptions(doc, "filing options", []Option{{Label: "a", Selectable: true}})

	require.Len(t, doc.Sections[0].Options, 1)
	require.Empty(t, doc.Sections[1].Options)
}
