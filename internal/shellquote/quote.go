// Package shellquote quotes words for the POSIX shell lines of an install
// phase.
//
// Quoted output never contains two adjacent single quotes, because `''` ends a
// Nix indented string. An embedded single quote closes the current quoted
// segment and is written as "'" on its own.
package shellquote

import "strings"

// Quote returns s unchanged when every byte is safe to pass to the shell
// unquoted, and single quoted otherwise.
func Quote(s string) string {
	if s != "" && !strings.ContainsFunc(s, unsafe) {
		return s
	}
	return Wrap(s)
}

// Wrap single quotes s unconditionally. The empty string becomes "".
func Wrap(s string) string {
	if s == "" {
		return `""`
	}

	var b strings.Builder
	for i, seg := range strings.Split(s, "'") {
		if i > 0 {
			b.WriteString(`"'"`)
		}
		if seg != "" {
			b.WriteByte('\'')
			b.WriteString(seg)
			b.WriteByte('\'')
		}
	}
	return b.String()
}

func unsafe(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return false
	}
	return !strings.ContainsRune("@%+=:,./_-", r)
}
