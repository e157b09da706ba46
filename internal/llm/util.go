package llm

import "strings"

// CleanJSONBlock strips markdown fences and any conversational text around
// the first JSON object or array in a model response. Text without JSON is
// returned trimmed.
func CleanJSONBlock(text string) string {
	text = stripFences(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	if span := extractBalanced(text[start:]); span != "" {
		return span
	}
	return text[start:]
}

// ExtractJSON returns the first complete JSON object or array in text, or
// "" when there is none.
func ExtractJSON(text string) string {
	return extractFirst(text, "{[")
}

// ExtractObject returns the first complete JSON object in text.
func ExtractObject(text string) string {
	return extractFirst(text, "{")
}

// ExtractArray returns the first complete JSON array in text.
func ExtractArray(text string) string {
	return extractFirst(text, "[")
}

func extractFirst(text, openers string) string {
	text = stripFences(strings.TrimSpace(text))
	for i := 0; i < len(text); i++ {
		if !strings.ContainsRune(openers, rune(text[i])) {
			continue
		}
		if span := extractBalanced(text[i:]); span != "" {
			return span
		}
	}
	return ""
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop a language tag such as "json" on the fence line.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		tag := text[:idx]
		if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractBalanced returns the prefix of text up to the bracket that closes
// its first character. Brackets inside strings are ignored.
func extractBalanced(text string) string {
	if text == "" || (text[0] != '{' && text[0] != '[') {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
