package oracle

import "strings"

// extractSpan returns the first balanced span that starts with open and ends
// with the matching close, skipping brackets inside JSON strings. Prose and
// markdown fences around the span are ignored.
func extractSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func extractObject(text string) (string, bool) {
	return extractSpan(text, '{', '}')
}

// extractArrayOrObject picks whichever JSON container opens first.
func extractArrayOrObject(text string) (span string, isArray bool, ok bool) {
	obj := strings.IndexByte(text, '{')
	arr := strings.IndexByte(text, '[')
	if arr >= 0 && (obj < 0 || arr < obj) {
		span, ok = extractSpan(text, '[', ']')
		return span, true, ok
	}
	span, ok = extractSpan(text, '{', '}')
	return span, false, ok
}
