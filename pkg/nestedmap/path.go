package nestedmap

import "strings"

// ParsePath splits a dotted expression like "a.b.c" into keys.
// A backslash escapes the next rune, so `a\.b` is the single key "a.b".
// The empty expression is the empty path.
func ParsePath(expr string) []string {
	if expr == "" {
		return nil
	}

	var (
		keys    []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range expr {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			keys = append(keys, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	return append(keys, cur.String())
}
