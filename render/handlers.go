package render

import (
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/jwtly10/litpage/frontmatter"
	"github.com/jwtly10/litpage/nodes"
)

// Handler turns one node into code.
type Handler func(s *Scope, n ast.Node) (Emission, error)

// KindStrong is the dispatch kind of an emphasis node of level 2 or more.
// goldmark uses one kind for both levels.
var KindStrong = ast.NewNodeKind("Strong")

// Handlers maps node kinds to handlers. A table must not be modified while a
// render using it is in flight; Clone one per goroutine that needs changes.
type Handlers struct {
	byKind map[ast.NodeKind]Handler

	// HeadingID derives anchor ids from heading text. nil disables
	// generated ids; explicit {#id} attributes still apply.
	HeadingID func(string) string
}

// NewHandlers returns a table holding the default handler of every kind the
// parser produces.
func NewHandlers() *Handlers {
	h := &Handlers{
		byKind:    make(map[ast.NodeKind]Handler),
		HeadingID: HeadingID,
	}

	h.Set(ast.KindText, DefaultText)
	h.Set(ast.KindString, DefaultText)
	h.Set(nodes.KindTextRun, DefaultText)
	h.Set(nodes.KindLiteral, DefaultLiteral)
	h.Set(nodes.KindLineBreak, DefaultLineBreak)

	h.Set(ast.KindHeading, DefaultHeading)
	h.Set(ast.KindParagraph, DefaultParagraph)
	h.Set(ast.KindTextBlock, DefaultParagraph)
	h.Set(ast.KindEmphasis, DefaultEmphasis)
	h.Set(KindStrong, DefaultStrong)
	h.Set(extast.KindStrikethrough, DefaultStrikethrough)
	h.Set(ast.KindBlockquote, DefaultBlockquote)
	h.Set(ast.KindThematicBreak, DefaultThematicBreak)

	h.Set(ast.KindLink, DefaultLink)
	h.Set(ast.KindAutoLink, DefaultAutoLink)
	h.Set(ast.KindImage, DefaultImage)

	h.Set(ast.KindList, DefaultList)
	h.Set(ast.KindListItem, DefaultListItem)
	h.Set(extast.KindTaskCheckBox, DefaultTaskCheckBox)

	h.Set(ast.KindCodeSpan, DefaultCodeSpan)
	h.Set(ast.KindFencedCodeBlock, DefaultCodeBlock)
	h.Set(ast.KindCodeBlock, DefaultCodeBlock)

	h.Set(extast.KindTable, DefaultTable)
	h.Set(extast.KindTableHeader, DefaultTableHeader)
	h.Set(extast.KindTableRow, DefaultTableRow)
	h.Set(extast.KindTableCell, DefaultTableCell)

	h.Set(ast.KindRawHTML, DefaultRawHTML)
	h.Set(ast.KindHTMLBlock, DefaultHTMLBlock)
	h.Set(nodes.KindCall, DefaultCall)

	h.Set(extast.KindFootnoteLink, DefaultFootnoteLink)
	h.Set(extast.KindFootnoteBacklink, DefaultFootnoteBacklink)
	h.Set(extast.KindFootnote, DefaultFootnote)
	h.Set(extast.KindFootnoteList, DefaultFootnoteList)

	h.Set(frontmatter.KindFrontMatter, DefaultFrontMatter)

	return h
}

// Set replaces the handler for kind. A nil handler removes it, so nodes of
// that kind are reported and skipped.
func (h *Handlers) Set(kind ast.NodeKind, fn Handler) *Handlers {
	if fn == nil {
		delete(h.byKind, kind)
		return h
	}
	h.byKind[kind] = fn
	return h
}

// Lookup returns the handler n dispatches to.
func (h *Handlers) Lookup(n ast.Node) (Handler, bool) {
	fn, ok := h.byKind[KindOf(n)]
	return fn, ok
}

func (h *Handlers) Clone() *Handlers {
	c := &Handlers{
		byKind:    make(map[ast.NodeKind]Handler, len(h.byKind)),
		HeadingID: h.HeadingID,
	}
	for k, fn := range h.byKind {
		c.byKind[k] = fn
	}
	return c
}

// KindOf is the dispatch kind of n.
func KindOf(n ast.Node) ast.NodeKind {
	if e, ok := n.(*ast.Emphasis); ok && e.Level >= 2 {
		return KindStrong
	}
	return n.Kind()
}
