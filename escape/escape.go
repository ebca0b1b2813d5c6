// Package escape turns arbitrary text into fragments that can be embedded in
// generated Go source without corrupting it.
package escape

import (
	"html"
	"strconv"
	"strings"
)

// Quoted returns s as a Go interpreted string literal, quotes included.
func Quoted(s string) string {
	return strconv.Quote(s)
}

// Raw returns s as a Go raw string literal expression.
//
// Raw literals cannot hold a backquote and silently drop carriage returns, so
// those characters are spliced in as interpreted literals:
//
//	Raw("a`b") == "`a` + \"`\" + `b`"
func Raw(s string) string {
	if !strings.ContainsAny(s, "`\r") {
		return "`" + s + "`"
	}

	var b strings.Builder
	b.WriteByte('`')
	for _, r := range s {
		switch r {
		case '`':
			b.WriteString("` + \"`\" + `")
		case '\r':
			b.WriteString("` + \"\\r\" + `")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('`')

	out := strings.ReplaceAll(b.String(), " + ``", "")
	return strings.TrimPrefix(out, "`` + ")
}

// Attr escapes an attribute value so it can sit between the double quotes of
// a name="value" pair.
func Attr(s string) string {
	return html.EscapeString(s)
}
