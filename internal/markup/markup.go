// Package markup transcodes card content between its stored form — a
// restricted markup language (bold, checkboxes, links, line breaks) — and a
// DOM-editable HTML representation used while a card's content is focused
// for editing. Transcoding round-trips byte-identically for canonical
// markup, including checkbox checked state, so a re-render never loses an
// in-progress edit.
package markup

import "strings"

// Checkbox tokens as stored in markup. Checked state is serialized into the
// HTML attribute (not left as live widget state) so a round-trip through the
// editable representation survives a rebuild of the surrounding node.
const (
	tokenUnchecked = "[ ]"
	tokenChecked   = "[x]"

	htmlUnchecked = `<input type="checkbox">`
	htmlChecked   = `<input type="checkbox" checked="checked">`
)

// ToHTML converts restricted markup to its editable HTML representation.
func ToHTML(src string) string {
	var b strings.Builder
	b.Grow(len(src) + len(src)/4)

	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "**"):
			end := strings.Index(src[i+2:], "**")
			if end < 0 {
				// Unterminated bold marker stays literal.
				b.WriteString("**")
				i += 2
				continue
			}
			b.WriteString("<b>")
			escapeInto(&b, src[i+2:i+2+end])
			b.WriteString("</b>")
			i += 2 + end + 2

		case strings.HasPrefix(src[i:], tokenUnchecked):
			b.WriteString(htmlUnchecked)
			i += len(tokenUnchecked)

		case strings.HasPrefix(src[i:], tokenChecked):
			b.WriteString(htmlChecked)
			i += len(tokenChecked)

		case src[i] == '[':
			text, url, n := parseLink(src[i:])
			if n == 0 {
				b.WriteByte('[')
				i++
				continue
			}
			b.WriteString(`<a href="`)
			escapeInto(&b, url)
			b.WriteString(`">`)
			escapeInto(&b, text)
			b.WriteString("</a>")
			i += n

		case src[i] == '\n':
			b.WriteString("<br>")
			i++

		default:
			escapeByteInto(&b, src[i])
			i++
		}
	}
	return b.String()
}

// FromHTML converts the editable HTML representation back to restricted
// markup. Tags outside the editable vocabulary are dropped; their text
// content is kept.
func FromHTML(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "<b>"):
			end := strings.Index(src[i:], "</b>")
			if end < 0 {
				i += len("<b>")
				continue
			}
			b.WriteString("**")
			b.WriteString(unescape(src[i+len("<b>") : i+end]))
			b.WriteString("**")
			i += end + len("</b>")

		case strings.HasPrefix(src[i:], htmlChecked):
			b.WriteString(tokenChecked)
			i += len(htmlChecked)

		case strings.HasPrefix(src[i:], htmlUnchecked):
			b.WriteString(tokenUnchecked)
			i += len(htmlUnchecked)

		case strings.HasPrefix(src[i:], "<br>"):
			b.WriteString("\n")
			i += len("<br>")

		case strings.HasPrefix(src[i:], `<a href="`):
			rest := src[i+len(`<a href="`):]
			hrefEnd := strings.Index(rest, `">`)
			if hrefEnd < 0 {
				i++
				continue
			}
			url := unescape(rest[:hrefEnd])
			body := rest[hrefEnd+len(`">`):]
			textEnd := strings.Index(body, "</a>")
			if textEnd < 0 {
				i++
				continue
			}
			b.WriteString("[")
			b.WriteString(unescape(body[:textEnd]))
			b.WriteString("](")
			b.WriteString(url)
			b.WriteString(")")
			i += len(`<a href="`) + hrefEnd + len(`">`) + textEnd + len("</a>")

		case src[i] == '<':
			// Unknown tag: drop it, keep scanning after '>'.
			end := strings.IndexByte(src[i:], '>')
			if end < 0 {
				i++
				continue
			}
			i += end + 1

		case src[i] == '&':
			ch, n := unescapeEntity(src[i:])
			b.WriteString(ch)
			i += n

		default:
			b.WriteByte(src[i])
			i++
		}
	}
	return b.String()
}

// ToggleCheckbox flips the checked state of the n-th checkbox (0-indexed) in
// the markup and returns the updated string. The second return is false if
// the markup has fewer than n+1 checkboxes.
func ToggleCheckbox(src string, n int) (string, bool) {
	seen := 0
	for i := 0; i < len(src); i++ {
		var replacement string
		switch {
		case strings.HasPrefix(src[i:], tokenUnchecked):
			replacement = tokenChecked
		case strings.HasPrefix(src[i:], tokenChecked):
			replacement = tokenUnchecked
		default:
			continue
		}
		if seen == n {
			return src[:i] + replacement + src[i+3:], true
		}
		seen++
		i += 2
	}
	return src, false
}

// CheckboxCount returns the number of checkboxes in the markup.
func CheckboxCount(src string) int {
	n := 0
	for i := 0; i < len(src); i++ {
		if strings.HasPrefix(src[i:], tokenUnchecked) || strings.HasPrefix(src[i:], tokenChecked) {
			n++
			i += 2
		}
	}
	return n
}

// parseLink parses a [text](url) link at the start of s. Returns consumed
// byte count 0 if s does not start with a well-formed link.
func parseLink(s string) (text, url string, n int) {
	close := strings.IndexByte(s, ']')
	if close < 0 || close+1 >= len(s) || s[close+1] != '(' {
		return "", "", 0
	}
	paren := strings.IndexByte(s[close+2:], ')')
	if paren < 0 {
		return "", "", 0
	}
	text = s[1:close]
	url = s[close+2 : close+2+paren]
	if strings.ContainsAny(text, "\n") || strings.ContainsAny(url, " \n") {
		return "", "", 0
	}
	return text, url, close + 2 + paren + 1
}

func escapeInto(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		escapeByteInto(b, s[i])
	}
}

func escapeByteInto(b *strings.Builder, c byte) {
	switch c {
	case '&':
		b.WriteString("&amp;")
	case '<':
		b.WriteString("&lt;")
	case '>':
		b.WriteString("&gt;")
	case '"':
		b.WriteString("&quot;")
	default:
		b.WriteByte(c)
	}
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '&' {
			ch, n := unescapeEntity(s[i:])
			b.WriteString(ch)
			i += n
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func unescapeEntity(s string) (string, int) {
	for entity, ch := range map[string]string{
		"&amp;":  "&",
		"&lt;":   "<",
		"&gt;":   ">",
		"&quot;": `"`,
	} {
		if strings.HasPrefix(s, entity) {
			return ch, len(entity)
		}
	}
	return "&", 1
}
