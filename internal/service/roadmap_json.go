package service

import (
	"regexp"
	"strings"
)

var (
	fenceOpen  = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// ExtractJSON limpia la salida del modelo (BOM, fences markdown, texto alrededor)
// y devuelve el primer objeto JSON balanceado, o "" si no hay ninguno.
func ExtractJSON(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return firstJSONObject(strings.TrimSpace(s))
}

// firstJSONObject recorre el texto contando llaves fuera de strings.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
