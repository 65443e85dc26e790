package content

import "strings"

// Kind classifies the semantic emphasis of a content block. It determines
// presentation styling consistently in both the formatted and the plain
// representation.
type Kind string

// Block kinds. KindPlain carries no emphasis.
const (
	KindPlain    Kind = "plain"
	KindPositive Kind = "positive"
	KindWarning  Kind = "warning"
	KindDanger   Kind = "danger"
	KindInfo     Kind = "info"
)

// Span marks a byte range [Start, End) inside a block's text. When set on a
// block, only that range carries the block's kind styling instead of the
// whole paragraph.
type Span struct {
	Start int
	End   int
}

// Block is one logical paragraph of a letter or email body.
type Block struct {
	Span     *Span
	ID       string
	Kind     Kind
	Text     string
	Numbered bool
}

// markers maps each non-plain kind to its unique plain-text marker glyph.
// No two kinds share a marker.
var markers = map[Kind]byte{
	KindPositive: '+',
	KindWarning:  '~',
	KindDanger:   '!',
	KindInfo:     '>',
}

// kindForMarker is the reverse of markers.
var kindForMarker = map[byte]Kind{
	'+': KindPositive,
	'~': KindWarning,
	'!': KindDanger,
	'>': KindInfo,
}

// keywords maps each non-plain kind to the color keyword that triggers the
// keyword-span styling refinement. The match is case-insensitive.
var keywords = map[Kind]string{
	KindPositive: "green",
	KindWarning:  "orange",
	KindDanger:   "red",
	KindInfo:     "blue",
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPlain, KindPositive, KindWarning, KindDanger, KindInfo:
		return true
	}
	return false
}

// keywordSpan returns the span of the kind's color keyword inside text, or
// nil when the keyword does not occur. Only the first occurrence counts.
func keywordSpan(kind Kind, text string) *Span {
	kw, ok := keywords[kind]
	if !ok {
		return nil
	}
	idx := strings.Index(strings.ToLower(text), kw)
	if idx < 0 {
		return nil
	}
	return &Span{Start: idx, End: idx + len(kw)}
}
