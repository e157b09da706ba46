package textnorm

import (
	"regexp"
	"strings"
)

// boilerplatePatterns match page chrome that survives HTML stripping.
// Phrases are word-bounded so that words like "designing" or "registered"
// are left intact.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcookie\s*policy[^.]*\.`),
	regexp.MustCompile(`(?i)\bwe\s*use\s*cookies[^.]*\.`),
	regexp.MustCompile(`(?i)\baccept\s*cookies[^.]*\.`),
	regexp.MustCompile(`(?i)\bskip\s*to\s*content\b`),
	regexp.MustCompile(`(?i)\bsign\s*in\b`),
	regexp.MustCompile(`(?i)\blog\s*in\b`),
	regexp.MustCompile(`(?i)\bregister\b`),
}

var anyWhitespaceRun = regexp.MustCompile(`\s{2,}`)

// RemoveBoilerplate drops cookie notices and navigation phrases.
func RemoveBoilerplate(text string) string {
	for _, re := range boilerplatePatterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// DedupeLines keeps the first occurrence of each line. Lines are compared
// by exact string equality.
func DedupeLines(text string) string {
	lines := strings.Split(text, "\n")
	seen := make(map[string]struct{}, len(lines))
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// CleanJobText prepares scraped or pasted job posting text: it normalizes the
// text, strips boilerplate, removes duplicate lines and collapses whitespace.
func CleanJobText(text string) string {
	text = Normalize(text)
	text = RemoveBoilerplate(text)
	text = DedupeLines(text)
	text = excessiveNewlines.ReplaceAllString(text, "\n\n")
	text = anyWhitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
