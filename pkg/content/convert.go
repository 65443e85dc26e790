package content

import "strings"

// ToPlain serializes blocks into the plain-text editing representation.
// Each block becomes one paragraph; non-plain kinds gain their marker glyph
// and a single space. Paragraphs are separated by a blank line.
func ToPlain(blocks []Block) string {
	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m, ok := markers[blk.Kind]; ok {
			b.WriteByte(m)
			b.WriteByte(' ')
		}
		b.WriteString(escapeParagraph(blk.Text))
	}
	return b.String()
}

// ToFormatted parses the plain-text editing representation back into
// blocks. A paragraph starting with a recognized marker glyph and a space
// decodes to the corresponding kind with the marker stripped; anything
// else decodes to plain. Unknown or garbled markers never fail.
//
// When the decoded body contains the kind's color keyword, only that
// keyword span is highlighted; otherwise the whole paragraph carries the
// kind's styling.
func ToFormatted(text string) []Block {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	paragraphs := splitParagraphs(text)
	blocks := make([]Block, 0, len(paragraphs))
	for _, p := range paragraphs {
		kind := KindPlain
		body := p
		if len(p) >= 2 && p[1] == ' ' {
			if k, ok := kindForMarker[p[0]]; ok {
				kind = k
				body = p[2:]
			}
		}
		body = unescapeParagraph(body)
		blocks = append(blocks, Block{
			Kind: kind,
			Text: body,
			Span: keywordSpan(kind, body),
		})
	}
	return blocks
}

// escapeParagraph protects block text that would otherwise be misread as
// markup: a leading marker glyph (after any run of backslashes) gains a
// backslash, and a line that is blank or all backslashes gains one so the
// paragraph never splits or shrinks on re-decode.
func escapeParagraph(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Trim(line, `\`) == "" {
			lines[i] = `\` + line
			continue
		}
		if i == 0 {
			rest := strings.TrimLeft(line, `\`)
			if len(rest) >= 2 && rest[1] == ' ' {
				if _, ok := kindForMarker[rest[0]]; ok {
					lines[i] = `\` + line
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

// unescapeParagraph is the exact inverse of escapeParagraph, applied after
// marker stripping.
func unescapeParagraph(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if line != "" && strings.Trim(line, `\`) == "" {
			lines[i] = line[1:]
			continue
		}
		if i == 0 && strings.HasPrefix(line, `\`) {
			rest := strings.TrimLeft(line, `\`)
			if len(rest) >= 2 && rest[1] == ' ' {
				if _, ok := kindForMarker[rest[0]]; ok {
					lines[i] = line[1:]
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

// splitParagraphs splits edited text on blank lines, trimming carriage
// returns so pasted CRLF content round-trips cleanly.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "\n")
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
