package llm

import "strings"

// CleanJSONBlock removes markdown code fences from a response body.
// Models often wrap JSON in ```json ... ``` blocks even when instructed
// not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop a leading language identifier ("json", "JSON", ...) if present.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		first := strings.TrimSpace(text[:idx])
		if first == "" || (len(first) < 20 && !strings.ContainsAny(first, " {[")) {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
