package assemble

import (
	"time"

	"github.com/taxdesk/correspond/pkg/content"
	"github.com/taxdesk/correspond/pkg/rules"
)

// PlaceholderDueDate is substituted when no tax-period end was supplied.
// Its deliberately implausible year makes it obvious in any preview;
// callers must treat its presence (Document.Provisional) as a failed
// precondition for final send.
var PlaceholderDueDate = time.Date(9999, time.September, 9, 0, 0, 0, 0, time.UTC)

// PlaceholderFacts substitutes the placeholder date for every derived
// date when the tax-period end is missing, so letter text shows an
// unmistakable stand-in instead of a blank. Facts with a period end pass
// through unchanged.
func PlaceholderFacts(f rules.Facts) rules.Facts {
	if f.HasPeriodEnd {
		return f
	}
	f.PeriodEnd = PlaceholderDueDate
	f.FilingDue = PlaceholderDueDate
	f.Disqualification = PlaceholderDueDate
	return f
}

// Input carries everything candidate predicates and factories may consult.
type Input struct {
	Selections rules.Selections
	Facts      rules.Facts
}

// Candidate is one optional section of a document: an inclusion predicate
// and a factory producing the section's blocks. Factories run only for
// included candidates.
type Candidate struct {
	Predicate func(Input) bool
	Build     func(Input) []content.Block
	Title     string
	Mandatory bool
}

// Option is one entry of a mutually exclusive choice group. Ineligible
// options stay listed with Selectable false and a reason, never removed.
type Option struct {
	Label      string
	Reason     string
	Selectable bool
}

// NumberedBlock is a content block with its recomputed ordinal. Number is
// zero for unnumbered blocks.
type NumberedBlock struct {
	content.Block
	Number int
}

// Section is one titled part of the assembled document.
type Section struct {
	Title           string
	Blocks          []NumberedBlock
	Options         []Option
	PageBreakBefore bool
}

// Document is the assembled, ordered section list handed to the render
// collaborator.
type Document struct {
	Sections    []Section
	Provisional bool
	NeedsReview bool
}

// Layout is the page-split policy. MaxBlocksPerPage is empirically tuned,
// not a hard business rule; a section whose block count alone exceeds it
// simply occupies its own page.
type Layout struct {
	MaxBlocksPerPage int
}

// DefaultLayout matches the conventional single-page letter: beyond eight
// blocks the extended content (such as the eligibility sub-table) moves to
// a continuation page.
var DefaultLayout = Layout{MaxBlocksPerPage: 8}

// Assemble filters candidates by their predicates, numbers the surviving
// blocks 1..N over the filtered list, and applies the page-split policy.
//
// When the input facts lack a tax-period end, the placeholder due date is
// substituted and the document is flagged provisional. A mandatory
// candidate whose factory yields no blocks contributes a review
// placeholder instead of failing assembly.
func Assemble(candidates []Candidate, in Input, layout Layout) Document {
	var doc Document
	if !in.Facts.HasPeriodEnd {
		doc.Provisional = true
		in.Facts = PlaceholderFacts(in.Facts)
	}
	if layout.MaxBlocksPerPage <= 0 {
		layout = DefaultLayout
	}

	number := 0
	for _, cand := range candidates {
		if cand.Predicate != nil && !cand.Predicate(in) {
			continue
		}

		var blocks []content.Block
		if cand.Build != nil {
			blocks = cand.Build(in)
		}
		if len(blocks) == 0 {
			if !cand.Mandatory {
				continue
			}
			doc.NeedsReview = true
			blocks = []content.Block{{
				Kind: content.KindWarning,
				Text: "[Content pending manual review: no eligible paragraphs for this section.]",
			}}
		}

		sec := Section{Title: cand.Title, Blocks: make([]NumberedBlock, 0, len(blocks))}
		for _, blk := range blocks {
			nb := NumberedBlock{Block: blk}
			if blk.Numbered {
				number++
				nb.Number = number
			}
			sec.Blocks = append(sec.Blocks, nb)
		}
		doc.Sections = append(doc.Sections, sec)
	}

	paginate(&doc, layout)
	return doc
}

// paginate sets PageBreakBefore so no page exceeds the layout's block
// budget. Sections are never split internally: a section that does not fit
// on the current page starts a new one, keeping every numbered item's body
// together.
func paginate(doc *Document, layout Layout) {
	onPage := 0
	for i := range doc.Sections {
		n := len(doc.Sections[i].Blocks)
		if i > 0 && onPage+n > layout.MaxBlocksPerPage {
			doc.Sections[i].PageBreakBefore = true
			onPage = 0
		}
		onPage += n
	}
}

// NumberedCount returns how many blocks carry an ordinal, which always
// matches the highest assigned number.
func (d Document) NumberedCount() int {
	n := 0
	for _, sec := range d.Sections {
		for _, blk := range sec.Blocks {
			if blk.Number > 0 {
				n++
			}
		}
	}
	return n
}

// Pages returns the sections grouped into pages per the computed breaks.
func (d Document) Pages() [][]Section {
	var pages [][]Section
	var cur []Section
	for _, sec := range d.Sections {
		if sec.PageBreakBefore && len(cur) > 0 {
			pages = append(pages, cur)
			cur = nil
		}
		cur = append(cur, sec)
	}
	if len(cur) > 0 {
		pages = append(pages, cur)
	}
	return pages
}
