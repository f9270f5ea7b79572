package shell

import "strings"

// Quote returns s as a single bash word. Words made only of characters that
// bash never interprets are returned unchanged to keep traces readable.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if isSafeWord(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isSafeWord(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_.,:/=@+%", r):
		default:
			return false
		}
	}
	return true
}
