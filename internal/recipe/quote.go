package recipe

import (
	"strings"
	"unicode"

	"github.com/BirkeyCo/nixables/internal/shellquote"
)

// quoteToken returns tok unchanged unless it contains whitespace, in which
// case it is single quoted. Other shell syntax in a formula argument, such as
// `$HOME` or a glob, is left for the shell to expand.
func quoteToken(tok string) string {
	if !strings.ContainsFunc(tok, unicode.IsSpace) {
		return tok
	}
	return shellquote.Wrap(tok)
}
