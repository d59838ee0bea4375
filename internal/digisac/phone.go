package digisac

import (
	"strings"

	"golang.org/x/text/width"
)

// NormalizePhone folds full-width digits to ASCII and drops every non-digit,
// so "+55 (14) 99524-1168" becomes "5514995241168".
func NormalizePhone(raw string) string {
	folded := width.Narrow.String(raw)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
