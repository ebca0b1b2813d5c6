package litpage

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/jwtly10/litpage/frontmatter"
	"github.com/jwtly10/litpage/nodes"
)

func collect[T ast.Node](root ast.Node) []T {
	var out []T
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(T); ok && entering {
			out = append(out, t)
		}
		return ast.WalkContinue, nil
	})
	return out
}

func TestCanParseMarkdownDoc(t *testing.T) {
	input, err := os.ReadFile("testdata/parser/page.md")
	require.NoError(t, err)

	md := MetaData{Source: "docs/page.md", AbsSource: "/site/docs/page.md"}
	doc, err := NewParser().ParseMarkdownDoc(bytes.NewReader(input), md)
	require.NoError(t, err)

	assert.Equal(t, md, doc.Metadata)
	assert.Equal(t, input, doc.Source)

	fm, ok := doc.Root.FirstChild().(*frontmatter.Node)
	require.True(t, ok, "front matter is the first child")
	require.NoError(t, fm.Err)
	layout, _ := frontmatter.Read(doc.Root).Layout()
	assert.Equal(t, ".layouts.Docs", layout)

	headings := collect[*ast.Heading](doc.Root)
	require.Len(t, headings, 1)
	id, ok := headings[0].AttributeString("id")
	require.True(t, ok)
	assert.Equal(t, []byte("top"), id)

	calls := collect[*nodes.Call](doc.Root)
	require.Len(t, calls, 1)
	assert.Equal(t, `.components/widgets.Video("intro.mp4")`, calls[0].Expr)

	assert.Len(t, collect[*extast.TaskCheckBox](doc.Root), 2)
	assert.Len(t, collect[*extast.Table](doc.Root), 1)
	assert.Len(t, collect[*extast.FootnoteLink](doc.Root), 1)
	assert.Len(t, collect[*extast.Footnote](doc.Root), 1)
}

func TestCallNeedsAWholeLine(t *testing.T) {
	doc := NewParser().Parse([]byte("text {{{ Inline }}}\n\n{{{}}}\n\n{{{ Banner }}}\n"), MetaData{Source: "a.md"})

	calls := collect[*nodes.Call](doc.Root)
	require.Len(t, calls, 1)
	assert.Equal(t, "Banner", calls[0].Expr)
}

func TestDocumentWithoutFrontMatter(t *testing.T) {
	doc := NewParser().Parse([]byte("# Just a heading\n"), MetaData{Source: "a.md"})

	assert.Nil(t, frontmatter.Read(doc.Root))
	assert.Empty(t, collect[*frontmatter.Node](doc.Root))
}

func TestLineOf(t *testing.T) {
	doc := NewParser().Parse([]byte("# One\n\ntwo\nthree\n\n> four\n"), MetaData{Source: "a.md"})

	headings := collect[*ast.Heading](doc.Root)
	require.Len(t, headings, 1)
	assert.Equal(t, 1, doc.LineOf(headings[0]))

	paras := collect[*ast.Paragraph](doc.Root)
	require.Len(t, paras, 2)
	assert.Equal(t, 3, doc.LineOf(paras[0]))
	assert.Equal(t, 4, doc.LineOf(paras[0].LastChild()))

	quotes := collect[*ast.Blockquote](doc.Root)
	require.Len(t, quotes, 1)
	assert.Equal(t, 6, doc.LineOf(quotes[0]))

	assert.Equal(t, 0, doc.LineOf(ast.NewThematicBreak()))
	assert.Equal(t, 0, doc.LineOf(nil))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParseMarkdownDocReadError(t *testing.T) {
	_, err := NewParser().ParseMarkdownDoc(failingReader{}, MetaData{Source: "a.md"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.md")
}
