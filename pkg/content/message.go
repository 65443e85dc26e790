package content

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Message is an email body together with its hidden notification synopsis.
// The synopsis is never shown in the editable text and survives every edit
// unchanged; it is set once at generation time.
type Message struct {
	Synopsis string
	Blocks   []Block
}

// EditText returns the plain-text editing representation of the body. The
// synopsis is intentionally absent from it.
func (m Message) EditText() string {
	return ToPlain(m.Blocks)
}

// ApplyEdit re-encodes edited plain text into a new Message. The edited
// input is stripped of any HTML before decoding, and the original synopsis
// is re-attached unchanged, never regenerated from the edited body.
func (m Message) ApplyEdit(text string) Message {
	return Message{
		Synopsis: m.Synopsis,
		Blocks:   ToFormatted(sanitizeEdit(text)),
	}
}

var (
	strictPolicy *bluemonday.Policy
	policyOnce   sync.Once
)

// sanitizeEdit strips all HTML from user-edited text. Edits arrive as
// plain text, so any markup is either pasted noise or an injection
// attempt. The sanitizer entity-escapes its output, so the escaping is
// reversed to keep marker glyphs like ">" intact for decoding.
func sanitizeEdit(s string) string {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
