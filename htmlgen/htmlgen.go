// Package htmlgen turns raw HTML found in a markdown document into nested
// calls to the UI runtime's generic Tag function.
package htmlgen

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jwtly10/litpage/escape"
)

var bodyContext = &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}

// Generator emits source for HTML element trees.
type Generator struct {
	// UI is the package qualifier calls are made through, e.g. "ui".
	UI string
}

func New(ui string) *Generator {
	return &Generator{UI: ui}
}

// Render emits one Tag call per element, in order, each line prefixed with
// indent tabs. Elements with children take a closure holding the children.
// Comments and doctypes are dropped.
func (g *Generator) Render(nodes []*html.Node, indent int) string {
	var lines []string
	for _, n := range nodes {
		lines = append(lines, g.render(n, indent)...)
	}
	return strings.Join(lines, "\n")
}

func (g *Generator) render(n *html.Node, depth int) []string {
	tabs := strings.Repeat("\t", depth)

	switch n.Type {
	case html.TextNode:
		text := strings.TrimPrefix(n.Data, "\n")
		// whitespace that only formats the markup
		if strings.TrimSpace(text) == "" && (text == "" || strings.Contains(n.Data, "\n")) {
			return nil
		}
		return []string{tabs + g.UI + ".Text(" + escape.Raw(text) + ")"}

	case html.ElementNode:
		call := g.call(elementName(n), n.Attr)

		var body []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			body = append(body, g.render(c, depth+1)...)
		}
		if len(body) == 0 {
			return []string{tabs + call + ")"}
		}

		lines := make([]string, 0, len(body)+2)
		lines = append(lines, tabs+call+", func() {")
		lines = append(lines, body...)
		lines = append(lines, tabs+"})")
		return lines

	default:
		return nil
	}
}

// Fragment emits source for a snippet of raw HTML. A snippet that is a lone
// start tag opens a block (the returned code ends in "{"), a lone end tag
// closes one ("})"), and anything else is parsed as a fragment and rendered.
// The first line carries no indentation; following lines are indented
// relative to indent.
func (g *Generator) Fragment(src string, indent int) (string, error) {
	if tok, ok := singleToken(src); ok {
		switch tok.Type {
		case html.StartTagToken:
			if !isVoid(tok) {
				return g.call(tok.Data, tok.Attr) + ", func() {", nil
			}
		case html.EndTagToken:
			return "})", nil
		case html.CommentToken, html.DoctypeToken:
			return "", nil
		}
	}

	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext)
	if err != nil {
		return "", fmt.Errorf("parsing raw html: %w", err)
	}

	return strings.TrimLeft(g.Render(nodes, indent), "\t"), nil
}

// Attrs formats attributes as a single Go string literal holding
// name="value" pairs in source order. Attributes without a value are
// written bare.
func Attrs(attrs []html.Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		if a.Val == "" {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, name+`="`+escape.Attr(a.Val)+`"`)
	}
	return escape.Quoted(strings.Join(parts, " "))
}

// call returns an unterminated Tag call: the caller appends ")" or a closure.
func (g *Generator) call(name string, attrs []html.Attribute) string {
	call := g.UI + ".Tag(" + escape.Quoted(name)
	if len(attrs) > 0 {
		call += ", " + g.UI + ".Attrs(" + Attrs(attrs) + ")"
	}
	return call
}

func elementName(n *html.Node) string {
	if n.Namespace != "" && n.Namespace != "html" {
		// svg and math children keep their element names as written
		return n.Data
	}
	return strings.ToLower(n.Data)
}

// singleToken returns the only significant token of src, ignoring
// whitespace-only text.
func singleToken(src string) (html.Token, bool) {
	z := html.NewTokenizer(strings.NewReader(src))

	var found html.Token
	count := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return html.Token{}, false
			}
			break
		}
		tok := z.Token()
		if tok.Type == html.TextToken && strings.TrimSpace(tok.Data) == "" {
			continue
		}
		count++
		if count > 1 {
			return html.Token{}, false
		}
		found = tok
	}

	return found, count == 1
}

func isVoid(tok html.Token) bool {
	switch tok.DataAtom {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}
