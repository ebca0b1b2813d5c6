package litpage

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SourceExt is the extension of markdown sources.
const SourceExt = ".md"

// ResolveOutputPath determines the generated Go file path from a markdown
// source path relative to the site root (blog/HelloWorld.md ->
// blog/hello_world_md.go). A leading underscore is dropped since the go tool
// ignores such files.
func ResolveOutputPath(mdPath string) string {
	dir, file := path.Split(filepath.ToSlash(mdPath))
	stem := strings.TrimLeft(strings.TrimSuffix(file, path.Ext(file)), "_")
	name := SnakeCase(stem)
	if name == "" {
		name = "page"
	}
	return path.Join(dir, name+"_md.go")
}

func MustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}

// Words splits a file stem into words on punctuation and case changes:
// "HelloWorld", "hello_world" and "hello-world" all give [hello world]
// modulo case, and "APIDocs" gives [API Docs].
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}

	rs := []rune(s)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

// KebabCase joins the lowercased words of s with hyphens.
func KebabCase(s string) string {
	return strings.ToLower(strings.Join(Words(s), "-"))
}

// SnakeCase joins the lowercased words of s with underscores.
func SnakeCase(s string) string {
	return strings.ToLower(strings.Join(Words(s), "_"))
}

// Identifier turns s into an exported Go identifier.
func Identifier(s string) string {
	// a Caser is stateful, so one per call
	title := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}

	id := b.String()
	if id == "" {
		return ""
	}
	if r := []rune(id)[0]; !unicode.IsLetter(r) {
		id = "Page" + id
	}
	return id
}

// PackageName turns a directory name into a Go package name.
func PackageName(s string) string {
	name := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)

	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = "p" + name
	}
	return name
}
