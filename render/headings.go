package render

import (
	"strings"
	"unicode"
)

// HeadingID derives an anchor id from heading text: lowercase letters and
// digits are kept and every other run of characters becomes one hyphen.
// Text with nothing usable gives "section".
func HeadingID(text string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}
