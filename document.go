package litpage

import (
	"bytes"

	"github.com/yuin/goldmark/ast"

	"github.com/jwtly10/litpage/nodes"
)

// Document represents a parsed markdown document together with the
// source it was parsed from, and any other required metadata about the source file
type Document struct {
	// Metadata about the source file
	Metadata MetaData
	// The raw markdown source. Text nodes in Root point into it.
	Source []byte
	// The parsed tree
	Root ast.Node
}

type MetaData struct {
	// The source path relative to the site root, slash separated.
	// This is the identity of the document within a site.
	Source string
	// The absolute source path, if the document was read from disk
	AbsSource string
}

// LineOf returns the 1-based source line where n starts, or 0 if n carries
// no position information.
func (d *Document) LineOf(n ast.Node) int {
	offset, ok := startOffset(n)
	if !ok || offset > len(d.Source) {
		return 0
	}
	return getLineNumber(d.Source, offset)
}

func getLineNumber(content []byte, byteOffset int) int {
	return bytes.Count(content[:byteOffset], []byte("\n")) + 1
}

func startOffset(n ast.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	switch t := n.(type) {
	case *ast.Text:
		return t.Segment.Start, true
	case *nodes.TextRun:
		if t.HasSegment() {
			return t.Segment.Start, true
		}
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := startOffset(c); ok {
			return off, true
		}
	}
	return 0, false
}
