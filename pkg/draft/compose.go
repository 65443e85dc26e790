package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/taxdesk/correspond/pkg/assemble"
	"github.com/taxdesk/correspond/pkg/attach"
	"github.com/taxdesk/correspond/pkg/catalog"
	"github.com/taxdesk/correspond/pkg/content"
	"github.com/taxdesk/correspond/pkg/docrender"
	"github.com/taxdesk/correspond/pkg/rules"
	"github.com/taxdesk/correspond/pkg/template"
)

// GenerateRequest is everything a compose session starts from.
type GenerateRequest struct {
	PeriodEnd   time.Time
	Client      rules.ClientFacts
	QFZP        rules.QFZPConditions
	Selections  rules.Selections
	LetterTypes []string
	Language    string
	Recipients  []string
	CC          []string
}

// GeneratedDocument is one rendered letter carried by a draft.
type GeneratedDocument struct {
	LetterType string
	Filename   string
	Document   assemble.Document
	Payload    []byte
}

// composed is the outcome of one full composition pass. Regeneration
// produces a fresh composed and applies only the parts it owns.
type composed struct {
	subject     string
	reviewTitle string
	body        content.Message
	documents   []GeneratedDocument
	generated   []attach.Attachment
	provisional bool
	needsReview bool
}

// compose runs the full pipeline for one language: evaluate rules, build
// the placeholder context, assemble and render every requested letter,
// and produce the email body.
func (o *Orchestrator) compose(ctx context.Context, req GenerateRequest) (*composed, error) {
	facts := rules.Evaluate(req.PeriodEnd, req.Client, req.QFZP)
	in := assemble.Input{Selections: req.Selections, Facts: facts}
	// The context carries the same placeholder dates the assembler
	// substitutes, so a missing period end shows up as 09.09.9999 in the
	// text rather than as a blank.
	tmplCtx := template.BuildContext(req.Client, assemble.PlaceholderFacts(facts), langTag(req.Language), len(req.LetterTypes))

	out := &composed{}
	now := o.now()

	for i, letterType := range req.LetterTypes {
		letter, text, err := o.catalog.Letter(letterType, req.Language)
		if err != nil {
			return nil, err
		}

		doc := assemble.Assemble(candidatesFrom(text.Sections, tmplCtx), in, o.layout)
		for _, sec := range text.Sections {
			if sec.Options {
				doc = assemble.WithOptions(doc, template.Resolve(sec.Title, tmplCtx), assemble.FilingOptions(in))
			}
		}
		out.provisional = out.provisional || doc.Provisional
		out.needsReview = out.needsReview || doc.NeedsReview

		name := docrender.Filename(now, req.Client.ShortName, letter.Tokens, req.Client.TaxYear)
		payload, err := o.renderer.Render(ctx, doc, facts.Profile, req.Client)
		if err != nil {
			return nil, errors.Join(ErrRenderFailed, err)
		}

		pdfName := name + ".pdf"
		out.documents = append(out.documents, GeneratedDocument{
			LetterType: letterType,
			Filename:   pdfName,
			Document:   doc,
			Payload:    payload,
		})
		out.generated = append(out.generated,
			attach.New(pdfName, "application/pdf", payload, attach.OriginGenerated))

		// The first letter names the whole correspondence: its filename
		// doubles as the default subject and the review title.
		if i == 0 {
			out.subject = name
			out.reviewTitle = name
			out.body = content.Message{
				Synopsis: template.Resolve(text.Synopsis, tmplCtx),
				Blocks:   bodyBlocks(text.EmailBody, in, tmplCtx),
			}
		}
	}
	return out, nil
}

// candidatesFrom translates catalog section definitions into assembler
// candidates, resolving templates against the placeholder context.
func candidatesFrom(sections []catalog.SectionDef, tmplCtx template.Context) []assemble.Candidate {
	cands := make([]assemble.Candidate, 0, len(sections))
	for _, sec := range sections {
		cands = append(cands, assemble.Candidate{
			Title:     template.Resolve(sec.Title, tmplCtx),
			Mandatory: sec.Mandatory,
			Predicate: predicateFor(sec.When),
			Build:     sectionBuilder(sec, tmplCtx),
		})
	}
	return cands
}

// sectionBuilder produces the block factory for one section definition,
// expanding the computed sub-table when the section names one.
func sectionBuilder(sec catalog.SectionDef, tmplCtx template.Context) func(assemble.Input) []content.Block {
	return func(in assemble.Input) []content.Block {
		var blocks []content.Block
		for _, p := range sec.Paragraphs {
			if pred := predicateFor(p.When); pred != nil && !pred(in) {
				continue
			}
			blocks = append(blocks, content.Block{
				Kind:     paragraphKind(p.Kind),
				Text:     template.Resolve(p.Text, tmplCtx),
				Numbered: p.Numbered,
			})
		}
		if sec.Table == "qfzp-conditions" {
			blocks = append(blocks, conditionTable(in.Facts.QFZP)...)
		}
		return blocks
	}
}

// conditionTable renders the QFZP sub-conditions as one block per row,
// fulfilled rows positive and failed rows danger. This is the extended
// sub-table that typically pushes a letter onto a continuation page.
func conditionTable(res rules.QFZPResult) []content.Block {
	blocks := make([]content.Block, 0, len(res.Conditions))
	for _, c := range res.Conditions {
		kind := content.KindPositive
		if c.Status != rules.StatusFulfilled {
			kind = content.KindDanger
		}
		blocks = append(blocks, content.Block{
			Kind:     kind,
			Text:     fmt.Sprintf("%s: %s", c.Name, c.Status),
			Numbered: true,
		})
	}
	return blocks
}

// bodyBlocks resolves the email body paragraphs for the draft message.
func bodyBlocks(paragraphs []catalog.Paragraph, in assemble.Input, tmplCtx template.Context) []content.Block {
	var blocks []content.Block
	for _, p := range paragraphs {
		if pred := predicateFor(p.When); pred != nil && !pred(in) {
			continue
		}
		blocks = append(blocks, content.Block{
			Kind: paragraphKind(p.Kind),
			Text: template.Resolve(p.Text, tmplCtx),
		})
	}
	return blocks
}

// predicateFor maps a catalog predicate key to its inclusion check. An
// empty key means unconditional; an unknown key excludes the content
// rather than guessing.
func predicateFor(key string) func(assemble.Input) bool {
	switch key {
	case "":
		return nil
	case "qfzp":
		return func(in assemble.Input) bool { return in.Selections.ApplyQFZP }
	case "sbr":
		return func(in assemble.Input) bool { return in.Selections.ApplySBR }
	case "noc":
		return func(in assemble.Input) bool { return in.Selections.ApplyNOC }
	case "relief-available":
		return func(in assemble.Input) bool { return in.Facts.ReliefAvailable }
	case "relief-unavailable":
		return func(in assemble.Input) bool { return !in.Facts.ReliefAvailable }
	case "qfzp-unqualified":
		return func(in assemble.Input) bool {
			return in.Selections.ApplyQFZP && !in.Facts.QFZP.Qualified
		}
	default:
		return func(assemble.Input) bool { return false }
	}
}

// paragraphKind maps a catalog kind string to a block kind, defaulting to
// plain for anything unrecognized.
func paragraphKind(s string) content.Kind {
	k := content.Kind(s)
	if s == "" || !k.Valid() {
		return content.KindPlain
	}
	return k
}

// langTag parses the request language, falling back to English.
func langTag(lang string) language.Tag {
	t, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return t
}
