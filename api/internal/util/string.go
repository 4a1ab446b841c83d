package util

import "strings"

// StripCodeFences removes a markdown code fence wrapping the whole string.
// Vision models sometimes fence their DocTags output as ```xml or ```text.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 && !strings.ContainsAny(rest[:i], " <") {
		rest = rest[i+1:]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}
