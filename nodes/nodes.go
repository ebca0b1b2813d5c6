// Package nodes defines the goldmark node kinds litpage adds to a document
// tree, and the parser extension for embedded calls.
package nodes

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	// KindCall is a `{{{ expr }}}` block.
	KindCall = ast.NewNodeKind("Call")
	// KindTextRun is a run of adjacent text nodes merged into one.
	KindTextRun = ast.NewNodeKind("TextRun")
	// KindLineBreak is a hard line break lifted out of a text node.
	KindLineBreak = ast.NewNodeKind("LineBreak")
	// KindLiteral is text emitted verbatim, such as the body of a code block.
	KindLiteral = ast.NewNodeKind("Literal")
)

// Call is a block holding a Go expression to be emitted as a statement.
type Call struct {
	ast.BaseBlock
	Expr string
}

func NewCall(expr string) *Call {
	return &Call{Expr: expr}
}

func (n *Call) Kind() ast.NodeKind { return KindCall }

func (n *Call) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Expr": n.Expr}, nil)
}

// TextRun holds the concatenated, already unescaped value of several text
// nodes. Segment spans every source segment the run was built from.
type TextRun struct {
	ast.BaseInline
	Value   []byte
	Segment text.Segment
	hasSeg  bool
}

func NewTextRun() *TextRun {
	return &TextRun{}
}

// Append adds value to the run and widens the segment to cover seg.
func (n *TextRun) Append(value []byte, seg *text.Segment) {
	n.Value = append(n.Value, value...)
	if seg == nil {
		return
	}
	if !n.hasSeg {
		n.Segment = *seg
		n.hasSeg = true
		return
	}
	if seg.Start < n.Segment.Start {
		n.Segment.Start = seg.Start
	}
	if seg.Stop > n.Segment.Stop {
		n.Segment.Stop = seg.Stop
	}
}

// HasSegment reports whether any source text went into the run.
func (n *TextRun) HasSegment() bool { return n.hasSeg }

func (n *TextRun) Kind() ast.NodeKind { return KindTextRun }

func (n *TextRun) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Value":   string(n.Value),
		"Segment": fmt.Sprintf("[%d, %d)", n.Segment.Start, n.Segment.Stop),
	}, nil)
}

// LineBreak is a hard line break.
type LineBreak struct {
	ast.BaseInline
}

func NewLineBreak() *LineBreak { return &LineBreak{} }

func (n *LineBreak) Kind() ast.NodeKind { return KindLineBreak }

func (n *LineBreak) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// Literal is text that must reach the output exactly as written.
type Literal struct {
	ast.BaseInline
	Value []byte
}

func NewLiteral(value []byte) *Literal {
	return &Literal{Value: value}
}

func (n *Literal) Kind() ast.NodeKind { return KindLiteral }

func (n *Literal) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}
