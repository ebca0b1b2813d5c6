package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jwtly10/litpage/nodes"
)

func kinds(n ast.Node) []string {
	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c.Kind().String())
	}
	return out
}

func TestNormalizeMergesAdjacentText(t *testing.T) {
	source := []byte("a&amp;b")
	para := ast.NewParagraph()
	para.AppendChild(para, ast.NewTextSegment(text.NewSegment(0, 1)))
	para.AppendChild(para, ast.NewTextSegment(text.NewSegment(1, 6)))
	para.AppendChild(para, ast.NewString([]byte("b")))
	para.AppendChild(para, ast.NewEmphasis(1))
	para.AppendChild(para, ast.NewString([]byte("c")))

	Normalize(para, source)

	assert.Equal(t, []string{"TextRun", "Emphasis", "String"}, kinds(para))
	run := para.FirstChild().(*nodes.TextRun)
	assert.Equal(t, "a&b", string(run.Value))
	require.True(t, run.HasSegment())
	assert.Equal(t, 0, run.Segment.Start)
	assert.Equal(t, 6, run.Segment.Stop)
}

func TestNormalizeIsAssociative(t *testing.T) {
	source := []byte("abc")

	// ((a b) c) and (a (b c)) give the same run
	left := ast.NewParagraph()
	left.AppendChild(left, ast.NewTextSegment(text.NewSegment(0, 1)))
	left.AppendChild(left, ast.NewTextSegment(text.NewSegment(1, 2)))
	Normalize(left, source)
	left.AppendChild(left, ast.NewTextSegment(text.NewSegment(2, 3)))
	Normalize(left, source)

	right := ast.NewParagraph()
	right.AppendChild(right, ast.NewTextSegment(text.NewSegment(0, 1)))
	inner := nodes.NewTextRun()
	inner.Append([]byte("bc"), &text.Segment{Start: 1, Stop: 3})
	right.AppendChild(right, inner)
	Normalize(right, source)

	require.Equal(t, 1, left.ChildCount())
	require.Equal(t, 1, right.ChildCount())
	l := left.FirstChild().(*nodes.TextRun)
	r := right.FirstChild().(*nodes.TextRun)
	assert.Equal(t, l.Value, r.Value)
	assert.Equal(t, l.Segment, r.Segment)
	assert.Equal(t, "abc", string(l.Value))
}

func TestNormalizeLiftsBreaks(t *testing.T) {
	source := []byte("onetwothree")
	para := ast.NewParagraph()
	hard := ast.NewTextSegment(text.NewSegment(0, 3))
	hard.SetHardLineBreak(true)
	hard.SetSoftLineBreak(true)
	soft := ast.NewTextSegment(text.NewSegment(3, 6))
	soft.SetSoftLineBreak(true)
	para.AppendChild(para, hard)
	para.AppendChild(para, soft)
	para.AppendChild(para, ast.NewTextSegment(text.NewSegment(6, 11)))

	Normalize(para, source)

	assert.Equal(t, []string{"Text", "LineBreak", "TextRun"}, kinds(para))
	assert.False(t, hard.HardLineBreak())
	assert.False(t, hard.SoftLineBreak())
	assert.Equal(t, "two three", string(para.LastChild().(*nodes.TextRun).Value))
}

func TestNormalizeKeepsCodeSpansRaw(t *testing.T) {
	source := []byte(`a\*b&amp;`)
	span := ast.NewCodeSpan()
	span.AppendChild(span, ast.NewRawTextSegment(text.NewSegment(0, 4)))
	span.AppendChild(span, ast.NewRawTextSegment(text.NewSegment(4, 9)))

	Normalize(span, source)

	require.Equal(t, 1, span.ChildCount())
	assert.Equal(t, `a\*b&amp;`, string(span.FirstChild().(*nodes.TextRun).Value))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	source := []byte("ab")
	para := ast.NewParagraph()
	first := ast.NewTextSegment(text.NewSegment(0, 1))
	first.SetSoftLineBreak(true)
	para.AppendChild(para, first)
	para.AppendChild(para, ast.NewTextSegment(text.NewSegment(1, 2)))

	Normalize(para, source)
	once := para.FirstChild().(*nodes.TextRun)
	Normalize(para, source)

	assert.Equal(t, 1, para.ChildCount())
	assert.Same(t, once, para.FirstChild())
	assert.Equal(t, "a b", string(once.Value))
}
