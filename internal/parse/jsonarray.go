package parse

import (
	"encoding/json"
	"strings"
)

// extractJSONArray returns the first well-formed JSON array substring of raw.
// Models wrap output in code fences or surround it with commentary despite
// instructions, so this is a first-class fallible step rather than an
// assumption about the whole response.
func extractJSONArray(raw string) (string, bool) {
	s := stripCodeFences(raw)

	for start := strings.IndexByte(s, '['); start != -1; {
		if end := matchingBracket(s, start); end != -1 {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
		}
		next := strings.IndexByte(s[start+1:], '[')
		if next == -1 {
			break
		}
		start += 1 + next
	}
	return "", false
}

// stripCodeFences removes a leading ``` or ```json line and a trailing ```
// if the model wrapped its output in Markdown.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		return s
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// matchingBracket finds the index of the ']' closing the '[' at start,
// skipping brackets inside JSON string literals. Returns -1 if unbalanced.
func matchingBracket(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
