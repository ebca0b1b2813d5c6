package nodes

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	callOpen  = []byte("{{{")
	callClose = []byte("}}}")
)

type callParser struct{}

// Trigger implements parser.BlockParser.
func (p *callParser) Trigger() []byte {
	return []byte{'{'}
}

// Open implements parser.BlockParser. Only a line that is exactly one
// `{{{ expr }}}` opens a call; anything else is left to the paragraph parser.
func (p *callParser) Open(_ ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	trimmed := bytes.TrimSpace(line)
	if !bytes.HasPrefix(trimmed, callOpen) || !bytes.HasSuffix(trimmed, callClose) || len(trimmed) < len(callOpen)+len(callClose) {
		return nil, parser.NoChildren
	}

	expr := bytes.TrimSpace(trimmed[len(callOpen) : len(trimmed)-len(callClose)])
	if len(expr) == 0 {
		return nil, parser.NoChildren
	}

	n := NewCall(string(expr))
	n.Lines().Append(segment.TrimRightSpace(reader.Source()))
	reader.Advance(segment.Len() - 1)
	return n, parser.NoChildren
}

// Continue implements parser.BlockParser.
func (p *callParser) Continue(_ ast.Node, _ text.Reader, _ parser.Context) parser.State {
	return parser.Close
}

// Close implements parser.BlockParser.
func (p *callParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

// CanInterruptParagraph implements parser.BlockParser.
func (p *callParser) CanInterruptParagraph() bool {
	return true
}

// CanAcceptIndentedLine implements parser.BlockParser.
func (p *callParser) CanAcceptIndentedLine() bool {
	return false
}

type callExtension struct{}

// CallExtension recognizes `{{{ expr }}}` lines as Call blocks.
var CallExtension goldmark.Extender = &callExtension{}

func (e *callExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&callParser{}, 150),
		),
	)
}
