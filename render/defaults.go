package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"

	"github.com/jwtly10/litpage/escape"
	"github.com/jwtly10/litpage/htmlgen"
	"github.com/jwtly10/litpage/nodes"
)

func DefaultText(s *Scope, n ast.Node) (Emission, error) {
	lit := literalOf(s.Source(), n)
	if lit == "" {
		return Skip(), nil
	}
	return Emit(s.UI("Text") + "(" + escape.Quoted(lit) + ")"), nil
}

// DefaultLiteral writes text verbatim as a raw string.
func DefaultLiteral(s *Scope, n ast.Node) (Emission, error) {
	lit := string(n.(*nodes.Literal).Value)
	if lit == "" {
		return Skip(), nil
	}
	return Emit(s.UI("Text") + "(" + escape.Raw(lit) + ")"), nil
}

func DefaultLineBreak(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("Br")), nil
}

// DefaultHeading emits H1..H6 with an anchor id unique within the document.
func DefaultHeading(s *Scope, n ast.Node) (Emission, error) {
	h := n.(*ast.Heading)

	var attrs []html.Attribute
	if explicit, ok := h.AttributeString("id"); ok {
		attrs = append(attrs, html.Attribute{Key: "id", Val: s.IDs.Claim(attrValue(explicit))})
	} else if s.HeadingID != nil {
		attrs = append(attrs, html.Attribute{Key: "id", Val: s.IDs.Claim(s.HeadingID(plainText(s.Source(), h)))})
	}
	attrs = append(attrs, nodeAttrs(h, "id")...)

	return Emit(s.Element(fmt.Sprintf("H%d", h.Level), attrs...)), nil
}

func DefaultParagraph(s *Scope, n ast.Node) (Emission, error) {
	return Emit(s.Element("P", nodeAttrs(n)...)), nil
}

func DefaultEmphasis(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("Em")), nil
}

func DefaultStrong(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("Strong")), nil
}

func DefaultStrikethrough(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("S")), nil
}

func DefaultBlockquote(s *Scope, n ast.Node) (Emission, error) {
	return Emit(s.Element("Blockquote", nodeAttrs(n)...)), nil
}

func DefaultThematicBreak(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("Hr")), nil
}

// DefaultLink emits a link to the destination. Destinations naming other
// documents have already been rewritten to their routes.
func DefaultLink(s *Scope, n ast.Node) (Emission, error) {
	l := n.(*ast.Link)
	return Emit(linkCall(s, string(l.Destination), string(l.Title))), nil
}

func DefaultAutoLink(s *Scope, n ast.Node) (Emission, error) {
	l := n.(*ast.AutoLink)
	src := s.Source()

	label := string(l.Label(src))
	dest := string(l.URL(src))
	if l.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
		dest = "mailto:" + dest
	}

	return EmitWithChildren(linkCall(s, dest, ""), ast.NewString([]byte(label))), nil
}

func linkCall(s *Scope, dest, title string) string {
	if s.Options.Enhanced {
		if title != "" {
			return s.Widgets("Link") + "(" + escape.Quoted(dest) + ", " + s.UI("Attrs") + "(" +
				htmlgen.Attrs([]html.Attribute{{Key: "title", Val: title}}) + "))"
		}
		return s.Widgets("Link") + "(" + escape.Quoted(dest) + ")"
	}

	attrs := []html.Attribute{{Key: "href", Val: dest}}
	if title != "" {
		attrs = append(attrs, html.Attribute{Key: "title", Val: title})
	}
	return s.Element("A", attrs...)
}

// DefaultImage emits an image. The alt text is the plain text of the
// image's children, which are not rendered.
func DefaultImage(s *Scope, n ast.Node) (Emission, error) {
	img := n.(*ast.Image)
	src := string(img.Destination)
	alt := plainText(s.Source(), img)
	title := string(img.Title)

	if s.Options.Enhanced {
		return EmitWithChildren(s.Widgets("Image") + "(" + escape.Quoted(src) + ", " + escape.Quoted(alt) + ")"), nil
	}

	attrs := []html.Attribute{{Key: "src", Val: src}, {Key: "alt", Val: alt}}
	if title != "" {
		attrs = append(attrs, html.Attribute{Key: "title", Val: title})
	}
	return EmitWithChildren(s.Element("Img", attrs...)), nil
}

func DefaultList(s *Scope, n ast.Node) (Emission, error) {
	l := n.(*ast.List)
	if !l.IsOrdered() {
		return Emit(s.Element("Ul", nodeAttrs(l)...)), nil
	}

	var attrs []html.Attribute
	if l.Start != 0 && l.Start != 1 {
		attrs = append(attrs, html.Attribute{Key: "start", Val: strconv.Itoa(l.Start)})
	}
	return Emit(s.Element("Ol", append(attrs, nodeAttrs(l)...)...)), nil
}

func DefaultListItem(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("Li")), nil
}

func DefaultTaskCheckBox(s *Scope, n ast.Node) (Emission, error) {
	checked := n.(*extast.TaskCheckBox).IsChecked
	if s.Options.Enhanced {
		return Emit(s.Widgets("Checkbox") + "(" + strconv.FormatBool(checked) + ")"), nil
	}

	attrs := []html.Attribute{{Key: "type", Val: "checkbox"}, {Key: "disabled"}}
	if checked {
		attrs = append(attrs, html.Attribute{Key: "checked"})
	}
	return Emit(s.Element("Input", attrs...)), nil
}

// DefaultCodeSpan emits inline code. The text is kept verbatim.
func DefaultCodeSpan(s *Scope, n ast.Node) (Emission, error) {
	code := s.Element("Code", nodeAttrs(n)...)
	if lit, ok := n.FirstChild().(*nodes.Literal); ok && n.ChildCount() == 1 {
		return EmitWithChildren(code, lit), nil
	}

	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(strings.ReplaceAll(rawValue(s.Source(), c), "\n", " "))
	}
	if b.Len() == 0 {
		return EmitWithChildren(code), nil
	}
	return EmitWithChildren(code, nodes.NewLiteral([]byte(b.String()))), nil
}

// DefaultCodeBlock emits a Pre wrapping a Code element tagged with the fence
// language.
func DefaultCodeBlock(s *Scope, n ast.Node) (Emission, error) {
	src := s.Source()

	var content bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		content.Write(seg.Value(src))
	}

	span := ast.NewCodeSpan()
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		if lang := fenced.Language(src); len(lang) > 0 {
			span.SetAttributeString("class", []byte("language-"+string(lang)))
		}
	}
	if content.Len() > 0 {
		span.AppendChild(span, nodes.NewLiteral(content.Bytes()))
	}

	return EmitWithChildren(s.Element("Pre", nodeAttrs(n)...), span), nil
}

func DefaultTable(s *Scope, n ast.Node) (Emission, error) {
	return Emit(s.Element("Table", nodeAttrs(n)...)), nil
}

// DefaultTableHeader emits a Thead holding one row of the header cells.
func DefaultTableHeader(s *Scope, n ast.Node) (Emission, error) {
	header := n.(*extast.TableHeader)
	thead := s.Element("Thead")

	if row, ok := header.FirstChild().(*extast.TableRow); ok && header.ChildCount() == 1 {
		return EmitWithChildren(thead, row), nil
	}

	row := extast.NewTableRow(header.Alignments)
	for c := header.FirstChild(); c != nil; {
		next := c.NextSibling()
		row.AppendChild(row, c)
		c = next
	}
	header.AppendChild(header, row)

	return EmitWithChildren(thead, row), nil
}

func DefaultTableRow(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("Tr")), nil
}

// DefaultTableCell emits Th under the header and Td elsewhere, with the
// column alignment as a text-align style.
func DefaultTableCell(s *Scope, n ast.Node) (Emission, error) {
	cell := n.(*extast.TableCell)

	name := "Td"
	for p := cell.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*extast.TableHeader); ok {
			name = "Th"
			break
		}
	}

	var attrs []html.Attribute
	if cell.Alignment != extast.AlignNone {
		attrs = append(attrs, html.Attribute{Key: "style", Val: "text-align: " + cell.Alignment.String()})
	}
	return Emit(s.Element(name, attrs...)), nil
}

// DefaultRawHTML emits inline HTML. A lone start tag opens a block that the
// matching end tag later in the paragraph closes.
func DefaultRawHTML(s *Scope, n ast.Node) (Emission, error) {
	raw := n.(*ast.RawHTML)

	var b strings.Builder
	for i := 0; i < raw.Segments.Len(); i++ {
		seg := raw.Segments.At(i)
		b.Write(seg.Value(s.Source()))
	}

	code, err := s.RawHTML(b.String())
	if err != nil {
		return Emission{}, err
	}
	return Emit(code), nil
}

func DefaultHTMLBlock(s *Scope, n ast.Node) (Emission, error) {
	block := n.(*ast.HTMLBlock)
	src := s.Source()

	var b strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	if block.HasClosure() {
		b.Write(block.ClosureLine.Value(src))
	}

	code, err := s.RawHTML(strings.TrimSpace(b.String()))
	if err != nil {
		return Emission{}, err
	}
	return Emit(code), nil
}

// DefaultCall emits the expression of a {{{ }}} block as a statement. A bare
// function reference is called with no arguments.
func DefaultCall(s *Scope, n ast.Node) (Emission, error) {
	expr := strings.TrimSpace(n.(*nodes.Call).Expr)
	if expr == "" {
		return Skip(), nil
	}
	call := s.Qualify(expr)
	if !strings.HasSuffix(call, ")") {
		call += "()"
	}
	return EmitWithChildren(call), nil
}

var footnoteLabels = NewKey[map[int]string]("footnote labels")

// footnoteLabel maps a footnote index to the label it was defined with.
func footnoteLabel(s *Scope, index int) string {
	labels := footnoteLabels.GetOrInit(s.Data, func() map[int]string {
		m := make(map[int]string)
		_ = ast.Walk(s.Doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if fn, ok := n.(*extast.Footnote); ok && entering {
				m[fn.Index] = string(fn.Ref)
			}
			return ast.WalkContinue, nil
		})
		return m
	})
	if label, ok := labels[index]; ok {
		return label
	}
	return strconv.Itoa(index)
}

// DefaultFootnoteLink emits a superscript link to the footnote.
func DefaultFootnoteLink(s *Scope, n ast.Node) (Emission, error) {
	label := footnoteLabel(s, n.(*extast.FootnoteLink).Index)

	link := ast.NewLink()
	link.Destination = []byte("#fn-" + label)
	link.AppendChild(link, ast.NewString([]byte(label)))

	return EmitWithChildren(s.Element("Sup"), link), nil
}

func DefaultFootnoteBacklink(*Scope, ast.Node) (Emission, error) {
	return Skip(), nil
}

func DefaultFootnote(s *Scope, n ast.Node) (Emission, error) {
	label := string(n.(*extast.Footnote).Ref)
	return Emit(s.Element("Div", html.Attribute{Key: "id", Val: "fn-" + label})), nil
}

func DefaultFootnoteList(s *Scope, _ ast.Node) (Emission, error) {
	return Emit(s.Element("Div", html.Attribute{Key: "class", Val: "footnotes"})), nil
}

// DefaultFrontMatter emits nothing; front matter reaches the output through
// the init hook and directives.
func DefaultFrontMatter(*Scope, ast.Node) (Emission, error) {
	return Skip(), nil
}

// literalOf is the display text of a text node.
func literalOf(src []byte, n ast.Node) string {
	switch t := n.(type) {
	case *nodes.TextRun:
		return string(t.Value)
	case *nodes.Literal:
		return string(t.Value)
	case *ast.String:
		return string(t.Value)
	case *ast.Text:
		v := t.Segment.Value(src)
		if t.IsRaw() || inCode(t) {
			return string(v)
		}
		return string(cook(v))
	}
	return ""
}

// rawValue is like literalOf but never resolves escapes or entities.
func rawValue(src []byte, n ast.Node) string {
	if t, ok := n.(*ast.Text); ok {
		return string(t.Segment.Value(src))
	}
	return literalOf(src, n)
}

func cook(v []byte) []byte {
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(v)))
}

func inCode(n ast.Node) bool {
	_, ok := n.Parent().(*ast.CodeSpan)
	return ok
}

// plainText concatenates the text below n.
func plainText(src []byte, n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c.(type) {
		case *ast.Text, *ast.String, *nodes.TextRun, *nodes.Literal:
			b.WriteString(literalOf(src, c))
		case *nodes.LineBreak:
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// nodeAttrs converts the {...} attributes of a node, in source order.
func nodeAttrs(n ast.Node, skip ...string) []html.Attribute {
	var out []html.Attribute
next:
	for _, a := range n.Attributes() {
		name := string(a.Name)
		for _, s := range skip {
			if name == s {
				continue next
			}
		}
		out = append(out, html.Attribute{Key: name, Val: attrValue(a.Value)})
	}
	return out
}

func attrValue(v interface{}) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
