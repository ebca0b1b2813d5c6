package render

import (
	"github.com/yuin/goldmark/ast"

	"github.com/jwtly10/litpage/nodes"
)

// Normalize rewrites the text of a tree in place so that every handler sees
// the same shape: hard breaks become LineBreak nodes, soft breaks become a
// single space, and each run of two or more adjacent text nodes becomes one
// TextRun. Running it again on its own output changes nothing.
func Normalize(root ast.Node, source []byte) {
	liftBreaks(root)
	mergeText(root, source)
}

func liftBreaks(n ast.Node) {
	for c := n.FirstChild(); c != nil; {
		next := c.NextSibling()

		if t, ok := c.(*ast.Text); ok {
			switch {
			case t.HardLineBreak():
				t.SetHardLineBreak(false)
				t.SetSoftLineBreak(false)
				n.InsertAfter(n, t, nodes.NewLineBreak())
			case t.SoftLineBreak():
				t.SetSoftLineBreak(false)
				n.InsertAfter(n, t, ast.NewString([]byte(" ")))
			}
		} else {
			liftBreaks(c)
		}

		c = next
	}
}

func isText(n ast.Node) bool {
	switch n.(type) {
	case *ast.Text, *ast.String, *nodes.TextRun:
		return true
	}
	return false
}

func mergeText(n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; {
		if !isText(c) {
			mergeText(c, source)
			c = c.NextSibling()
			continue
		}

		end := c
		count := 1
		for end.NextSibling() != nil && isText(end.NextSibling()) {
			end = end.NextSibling()
			count++
		}
		after := end.NextSibling()
		if count < 2 {
			c = after
			continue
		}

		run := nodes.NewTextRun()
		for t := c; t != after; {
			next := t.NextSibling()
			appendText(run, t, source)
			n.RemoveChild(n, t)
			t = next
		}
		if after != nil {
			n.InsertBefore(n, after, run)
		} else {
			n.AppendChild(n, run)
		}

		c = after
	}
}

func appendText(run *nodes.TextRun, n ast.Node, source []byte) {
	switch t := n.(type) {
	case *ast.Text:
		seg := t.Segment
		run.Append([]byte(literalOf(source, t)), &seg)
	case *ast.String:
		run.Append(t.Value, nil)
	case *nodes.TextRun:
		if t.HasSegment() {
			seg := t.Segment
			run.Append(t.Value, &seg)
			return
		}
		run.Append(t.Value, nil)
	}
}
