package llm

import "strings"

// CleanText normalizes a model reply: trims whitespace and unwraps a
// response that is entirely enclosed in a markdown code fence
func CleanText(content string) string {
	text := strings.TrimSpace(content)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}

	inner := text[3 : len(text)-3]
	// Drop the language tag on the opening fence line
	if nl := strings.IndexByte(inner, '\n'); nl != -1 && !strings.ContainsAny(inner[:nl], " \t") {
		inner = inner[nl+1:]
	}

	return strings.TrimSpace(inner)
}
