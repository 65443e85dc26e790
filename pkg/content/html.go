package content

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

// kindColors maps each non-plain kind to the color used in the HTML email
// body. Both the screen preview and the outgoing email use this table so
// the two renderings never diverge.
var kindColors = map[Kind]string{
	KindPositive: "#1f7a33",
	KindWarning:  "#b45309",
	KindDanger:   "#b91c1c",
	KindInfo:     "#1d4ed8",
}

// md is the shared markdown processor for plain-kind paragraphs.
var md = goldmark.New()

// RenderHTML renders blocks into the HTML email body. Plain blocks pass
// through the markdown processor so inline emphasis written by operators
// keeps working. Kinded blocks are styled paragraph-wide, unless the block
// carries a keyword span, in which case only the span is styled.
func RenderHTML(blocks []Block) (string, error) {
	var b strings.Builder
	for _, blk := range blocks {
		color, kinded := kindColors[blk.Kind]
		switch {
		case !kinded:
			var buf bytes.Buffer
			if err := md.Convert([]byte(blk.Text), &buf); err != nil {
				return "", fmt.Errorf("failed to convert block to HTML: %w", err)
			}
			b.WriteString(buf.String())
		case blk.Span != nil:
			b.WriteString(renderSpanParagraph(blk, color))
		default:
			fmt.Fprintf(&b, "<p style=\"color:%s\">%s</p>\n", color, html.EscapeString(blk.Text))
		}
	}
	return b.String(), nil
}

// renderSpanParagraph styles only the keyword span of a block, leaving the
// rest of the paragraph unstyled.
func renderSpanParagraph(blk Block, color string) string {
	s := blk.Span
	if s.Start < 0 || s.End > len(blk.Text) || s.Start >= s.End {
		return fmt.Sprintf("<p>%s</p>\n", html.EscapeString(blk.Text))
	}
	return fmt.Sprintf("<p>%s<span style=\"color:%s\">%s</span>%s</p>\n",
		html.EscapeString(blk.Text[:s.Start]),
		color,
		html.EscapeString(blk.Text[s.Start:s.End]),
		html.EscapeString(blk.Text[s.End:]),
	)
}
