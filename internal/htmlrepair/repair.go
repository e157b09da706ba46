// Package htmlrepair fixes list markup produced by language models before it is
// displayed or exported.
package htmlrepair

import (
	"regexp"
	"strings"
)

const (
	bulletGlyph = "•"
	liOpen      = "<li>"
	liClose     = "</li>"

	// maxPasses bounds the outer fixpoint loop. A single pass already
	// converges for everything but contrived fragment nesting.
	maxPasses = 4
)

var (
	tagSpellings = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)</li\s*>`), "</li>"},
		{regexp.MustCompile(`(?i)<li\s*>`), "<li>"},
		{regexp.MustCompile(`(?i)</ul\s*>`), "</ul>"},
		{regexp.MustCompile(`(?i)<ul\s*>`), "<ul>"},
	}

	// sentencePair matches "First sentence. Second sentence" with both
	// sentences starting with a capital letter.
	sentencePair = regexp.MustCompile(`^([A-Z][^<]+?\.)\s+([A-Z][^<]+)$`)

	// categoryLabel matches "<strong>Label:</strong> items. Trailing clause".
	categoryLabel = regexp.MustCompile(`(?i)^<strong>([^:<]+):\s*</strong>\s*([^<]+?)\.\s+([^<]+)$`)

	unclosedItem     = regexp.MustCompile(`(?m)<li>[^<]*$`)
	unclosedTag      = regexp.MustCompile(`(?m)<[^>]*$`)
	listThenPara     = regexp.MustCompile(`(?i)</ul>\s*<p>`)
	paraThenHeading  = regexp.MustCompile(`(?i)</p>\s*<p><strong>`)
	emptyItem        = regexp.MustCompile(`<li>\s*(?:•\s*)?</li>`)
	excessiveNewline = regexp.MustCompile(`\n{3,}`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// Repair cleans generated resume HTML so that every <li> holds a single
// bulleted statement and no two <li> elements repeat the same text.
//
// The pipeline normalizes list tag spelling, splits glued bullets (on "•",
// then "|", then bold category labels, then sentence boundaries), removes
// duplicate and empty items, drops unterminated fragments at line ends and
// separates sections with a blank line. Repair is idempotent.
func Repair(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for pass := 0; pass < maxPasses; pass++ {
		next := repairPass(result)
		if next == result {
			break
		}
		result = next
	}
	return result
}

func repairPass(html string) string {
	result := normalizeTags(html)
	result = splitItems(result)
	result = dedupeItems(result)
	result = emptyItem.ReplaceAllString(result, "")
	result = dropUnclosed(result)
	result = listThenPara.ReplaceAllString(result, "</ul>\n\n<p>")
	result = paraThenHeading.ReplaceAllString(result, "</p>\n\n<p><strong>")
	result = excessiveNewline.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func normalizeTags(html string) string {
	for _, t := range tagSpellings {
		html = t.re.ReplaceAllString(html, t.repl)
	}
	return html
}

// dropUnclosed removes an <li> left open at the end of a line and any other
// tag fragment without its closing '>'. Removing one kind can expose the
// other, so both run until nothing changes.
func dropUnclosed(html string) string {
	for {
		next := unclosedItem.ReplaceAllString(html, "")
		next = unclosedTag.ReplaceAllString(next, "")
		if next == html {
			return next
		}
		html = next
	}
}

// listItem is one <li>...</li> element found in the document.
type listItem struct {
	start, end int // byte offsets of the whole element
	content    string
}

// findItems returns the closed <li> elements in document order. An <li>
// that is followed by another <li> before its </li> is treated as unclosed
// and skipped.
func findItems(html string) []listItem {
	var items []listItem
	pos := 0
	for {
		open := strings.Index(html[pos:], liOpen)
		if open < 0 {
			return items
		}
		open += pos
		contentStart := open + len(liOpen)

		closeIdx := strings.Index(html[contentStart:], liClose)
		if closeIdx < 0 {
			return items
		}
		closeIdx += contentStart

		if nested := strings.Index(html[contentStart:closeIdx], liOpen); nested >= 0 {
			pos = contentStart + nested
			continue
		}

		end := closeIdx + len(liClose)
		items = append(items, listItem{
			start:   open,
			end:     end,
			content: html[contentStart:closeIdx],
		})
		pos = end
	}
}

// replaceItems rebuilds html, substituting each item with fn's result.
func replaceItems(html string, fn func(item listItem) string) string {
	items := findItems(html)
	if len(items) == 0 {
		return html
	}

	var sb strings.Builder
	sb.Grow(len(html))
	last := 0
	for _, item := range items {
		sb.WriteString(html[last:item.start])
		sb.WriteString(fn(item))
		last = item.end
	}
	sb.WriteString(html[last:])
	return sb.String()
}

func splitItems(html string) string {
	return replaceItems(html, func(item listItem) string {
		parts := splitStatement(item.content)
		if parts == nil {
			return html[item.start:item.end]
		}
		rendered := make([]string, len(parts))
		for i, part := range parts {
			rendered[i] = liOpen + bulletGlyph + " " + part + liClose
		}
		return strings.Join(rendered, "\n")
	})
}

// splitStatement breaks item content into single statements. It returns nil
// when the item should be left exactly as written.
//
// Items that open with a bullet glyph are split on further glyphs, pipes,
// bold category labels and sentence boundaries. Items without a leading
// glyph are only touched when a glyph appears inside them.
func splitStatement(content string) []string {
	body, ok := bulletBody(content)
	if !ok {
		body = strings.TrimSpace(content)
		if len(splitOutsideTags(body, bulletGlyph)) < 2 {
			return nil
		}
	}

	parts := []string{body}
	changed := !ok
	parts, changed = splitEach(parts, bulletGlyph, changed)
	parts, changed = splitEach(parts, "|", changed)

	var out []string
	for _, part := range parts {
		pieces, split := splitLabelAndSentences(part)
		changed = changed || split
		out = append(out, pieces...)
	}

	if !changed {
		return nil
	}
	return out
}

// bulletBody strips the leading bullet glyph.
func bulletBody(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, bulletGlyph) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, bulletGlyph)), true
}

// splitEach splits every part on sep outside of markup, dropping empty
// segments.
func splitEach(parts []string, sep string, changed bool) ([]string, bool) {
	var out []string
	for _, part := range parts {
		segments := splitOutsideTags(part, sep)
		if len(segments) < 2 {
			out = append(out, part)
			continue
		}
		for _, segment := range segments {
			if segment = strings.TrimSpace(segment); segment != "" {
				out = append(out, segment)
			}
		}
		changed = true
	}
	return out, changed
}

var voidElements = map[string]bool{"br": true, "hr": true, "img": true, "wbr": true}

// splitOutsideTags splits s on sep wherever sep is outside any tag and not
// enclosed by an open inline element, so "<strong>A | B</strong>" stays whole.
func splitOutsideTags(s, sep string) []string {
	var segments []string
	depth, last := 0, 0
	for i := 0; i < len(s); {
		if s[i] == '<' {
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				break
			}
			depth = max(0, depth+tagDepthDelta(s[i+1:i+end]))
			i += end + 1
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			segments = append(segments, s[last:i])
			i += len(sep)
			last = i
			continue
		}
		i++
	}
	return append(segments, s[last:])
}

// tagDepthDelta reports how an element tag (without its angle brackets)
// changes inline nesting depth.
func tagDepthDelta(tag string) int {
	tag = strings.TrimSpace(tag)
	switch {
	case strings.HasPrefix(tag, "/"):
		return -1
	case strings.HasSuffix(tag, "/"), strings.HasPrefix(tag, "!"):
		return 0
	}
	fields := strings.Fields(tag)
	if len(fields) == 0 || voidElements[strings.ToLower(fields[0])] {
		return 0
	}
	return 1
}

// splitLabelAndSentences separates a trailing clause from a bold category
// label, then splits plain text at sentence boundaries until each piece
// holds one sentence.
func splitLabelAndSentences(part string) ([]string, bool) {
	var out []string
	changed := false

	if m := categoryLabel.FindStringSubmatch(part); m != nil && startsUpper(m[3]) {
		out = append(out, "<strong>"+m[1]+":</strong> "+m[2]+".")
		part = strings.TrimSpace(m[3])
		changed = true
	}

	for {
		m := sentencePair.FindStringSubmatch(part)
		if m == nil {
			break
		}
		out = append(out, m[1])
		part = strings.TrimSpace(m[2])
		changed = true
	}
	return append(out, part), changed
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// dedupeItems keeps the first <li> of each normalized form, where the form
// is lowercased with whitespace collapsed.
func dedupeItems(html string) string {
	seen := make(map[string]struct{})
	return replaceItems(html, func(item listItem) string {
		element := html[item.start:item.end]
		key := strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ToLower(element), " "))
		if _, dup := seen[key]; dup {
			return ""
		}
		seen[key] = struct{}{}
		return element
	})
}
