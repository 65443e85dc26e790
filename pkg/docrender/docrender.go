// Package docrender defines the document render collaborator boundary and
// the shared filename convention. The PDF-primitive rendering itself lives
// outside this module; everything here is the contract the engine drives
// it through.
package docrender

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taxdesk/correspond/pkg/assemble"
	"github.com/taxdesk/correspond/pkg/rules"
)

// Renderer renders an assembled document into a binary payload under the
// issuing entity's letterhead.
type Renderer interface {
	Render(ctx context.Context, doc assemble.Document, profile rules.EntityProfile, client rules.ClientFacts) ([]byte, error)
}

// Filename builds the shared document name: "YYMMDD <short identifier>
// <letter-type tokens> <tax year>", without extension. The same string is
// used as the PDF base name, the default email subject and the review
// title, so all three call sites must go through this one function.
func Filename(date time.Time, shortName string, letterTokens []string, taxYear int) string {
	parts := []string{date.Format("060102")}
	if shortName != "" {
		parts = append(parts, shortName)
	}
	parts = append(parts, letterTokens...)
	parts = append(parts, fmt.Sprintf("%d", taxYear))
	return strings.Join(parts, " ")
}

// PDFName returns the filename with the .pdf suffix applied.
func PDFName(date time.Time, shortName string, letterTokens []string, taxYear int) string {
	return Filename(date, shortName, letterTokens, taxYear) + ".pdf"
}
