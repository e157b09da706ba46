// Package textnorm provides the text cleanup used before any job or resume analysis.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	excessiveNewlines = regexp.MustCompile(`\n{3,}`)
	horizontalRuns    = regexp.MustCompile(`[ \t]{2,}`)
	controlChars      = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

var quoteAndBulletReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"●", "•",
	"○", "•",
	"▪", "•",
	"▫", "•",
)

// Normalize cleans extracted document text: line endings become LF, control
// characters are dropped, blank-line runs collapse to one blank line,
// horizontal whitespace runs collapse to one space, curly quotes become
// straight quotes and bullet glyphs become "•". The result is trimmed.
//
// Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Control characters go first so their removal cannot create new
	// whitespace runs for a second pass to find.
	text = controlChars.ReplaceAllString(text, "")
	text = excessiveNewlines.ReplaceAllString(text, "\n\n")
	text = horizontalRuns.ReplaceAllString(text, " ")
	text = quoteAndBulletReplacer.Replace(text)

	return strings.TrimSpace(text)
}

// WordCount counts whitespace separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// IsBulletLine reports whether a line starts with a list marker.
func IsBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "*")
}

// StripBullet removes a leading list marker and the whitespace after it.
func StripBullet(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range []string{"•", "-", "*"} {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimLeft(strings.TrimPrefix(trimmed, marker), " \t")
		}
	}
	return trimmed
}
