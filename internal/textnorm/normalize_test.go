package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
}

func TestNormalize_CollapsesBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	assert.Equal(t, "Line 1\n\nLine 2", Normalize(input))
}

func TestNormalize_CollapsesHorizontalWhitespace(t *testing.T) {
	input := "Senior   Engineer\t\t| Acme"
	assert.Equal(t, "Senior Engineer | Acme", Normalize(input))
}

func TestNormalize_StripsControlCharacters(t *testing.T) {
	input := "Hello\x00\x07 World\x1F\x7F"
	assert.Equal(t, "Hello World", Normalize(input))
}

func TestNormalize_KeepsTabsAndNewlinesThatAreNotRuns(t *testing.T) {
	input := "a\tb\nc"
	assert.Equal(t, "a\tb\nc", Normalize(input))
}

func TestNormalize_CurlyQuotes(t *testing.T) {
	input := "“Quoted” and ‘single’ and it’s"
	assert.Equal(t, `"Quoted" and 'single' and it's`, Normalize(input))
}

func TestNormalize_BulletGlyphs(t *testing.T) {
	input := "● one\n○ two\n▪ three\n▫ four\n• five"
	assert.Equal(t, "• one\n• two\n• three\n• four\n• five", Normalize(input))
}

func TestNormalize_LineEndings(t *testing.T) {
	input := "a\r\nb\rc"
	assert.Equal(t, "a\nb\nc", Normalize(input))
}

func TestNormalize_Trims(t *testing.T) {
	assert.Equal(t, "text", Normalize("  \n\n text \t\n "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"plain text",
		"a \x01 b",
		"\n\x02\n\n\n",
		"x\n\x00\n\x00\n\x00\ny",
		"tab\t \tmix   of  runs",
		"“curly” ‘quotes’ ● bullets ○ ▪ ▫",
		"\r\n\r\n\r\n\r\nwindows\r\n",
		"line one  \n\n\n\n  line two\t\t\n",
		"• already clean\n\n• bullets",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestIsBulletLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"• Led a team", true},
		{"- Managed budget", true},
		{"* Reduced costs", true},
		{"   • indented", true},
		{"Plain line", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBulletLine(tt.line), tt.line)
	}
}

func TestStripBullet(t *testing.T) {
	assert.Equal(t, "Led a team", StripBullet("• Led a team"))
	assert.Equal(t, "Managed budget", StripBullet("-Managed budget"))
	assert.Equal(t, "No marker", StripBullet("No marker"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount("one two\nthree"))
}
