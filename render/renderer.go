// Package render turns a parsed markdown document into the Go source of a
// page component.
//
// A document renders to one file: a generated-code header, the package
// clause, imports, an optional init hook registering the document's front
// matter, directives naming the page's route and layout, and a single
// component function whose body is built from calls into the UI runtime.
// Each node of the tree is handed to the Handler registered for its kind;
// the renderer takes care of nesting, indentation and imports.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/jwtly10/litpage"
	"github.com/jwtly10/litpage/escape"
	"github.com/jwtly10/litpage/frontmatter"
	"github.com/jwtly10/litpage/site"
)

var ErrUnbalanced = errors.New("unbalanced output")

type Renderer struct {
	opts     Options
	handlers *Handlers
}

// New returns a renderer using handlers, or the defaults when nil.
func New(opts Options, handlers *Handlers) *Renderer {
	if handlers == nil {
		handlers = NewHandlers()
	}
	return &Renderer{opts: opts.withDefaults(), handlers: handlers}
}

// Options returns the renderer's configuration with defaults applied.
func (r *Renderer) Options() Options { return r.opts }

// Render generates the Go source for doc. The document must have been
// registered in cache; Render panics otherwise. Recoverable problems are
// logged as warnings and leave the output usable. The tree is normalized in
// place.
func (r *Renderer) Render(doc *litpage.Document, cache *site.Cache) (string, error) {
	entry := cache.MustEntry(doc.Metadata.Source)

	Normalize(doc.Root, doc.Source)

	v := &visitor{
		r:       r,
		doc:     doc,
		entry:   entry,
		cache:   cache,
		logger:  r.opts.Logger,
		data:    NewData(),
		ids:     NewIDSet(),
		imports: make(map[string]struct{}),
	}

	fm := v.frontMatter()
	layout, wrapper := v.chooseWrapper(fm)

	v.indent = 1
	if wrapper != "" {
		v.line(withBody(v.callExpr(wrapper)))
		v.indent++
	}
	if err := v.visitChildren(doc.Root); err != nil {
		return "", fmt.Errorf("rendering %s: %w", entry.Path, err)
	}
	if wrapper != "" {
		v.indent--
		v.line("})")
	}
	v.indent--
	if v.indent != 0 || len(v.open) != 0 {
		return "", fmt.Errorf("rendering %s: %w: indent %d, %d open", entry.Path, ErrUnbalanced, v.indent, len(v.open))
	}

	hook := v.hook(fm)
	for _, imp := range fm.Imports() {
		v.use(r.opts.expand(imp))
	}
	for _, imp := range r.opts.Imports {
		v.use(r.opts.expand(imp))
	}

	var out strings.Builder
	fmt.Fprintf(&out, "// Code generated by litpage from %s. DO NOT EDIT.\n\n", entry.Path)
	fmt.Fprintf(&out, "package %s\n\n", entry.Package)

	if imports := v.importList(); len(imports) > 0 {
		out.WriteString("import (\n")
		for _, imp := range imports {
			out.WriteString("\t" + escape.Quoted(imp) + "\n")
		}
		out.WriteString(")\n\n")
	}

	if hook != "" {
		out.WriteString(hook)
		out.WriteString("\n")
	}

	if route, ok := entry.Route(); ok {
		out.WriteString("//litpage:page " + route + "\n")
		switch {
		case layout != "":
			out.WriteString("//litpage:layout " + r.opts.expandRef(layout) + "\n")
		case wrapper != "":
			out.WriteString("//litpage:layout none\n")
		}
	}

	fmt.Fprintf(&out, "func %s() {\n", v.functionName(fm))
	out.WriteString(v.body.String())
	out.WriteString("}\n")

	return out.String(), nil
}

type visitor struct {
	r      *Renderer
	doc    *litpage.Document
	entry  *site.Entry
	cache  *site.Cache
	logger *slog.Logger

	data    *Data
	ids     *IDSet
	imports map[string]struct{}

	body   strings.Builder
	indent int
	// closers of the constructs opened by handlers, innermost last
	open []string
	// len(open) when each children block in progress started
	floors []int
}

func (v *visitor) frontMatter() *frontmatter.Data {
	for c := v.doc.Root.FirstChild(); c != nil; c = c.NextSibling() {
		if n, ok := c.(*frontmatter.Node); ok {
			if n.Err != nil {
				v.warn("ignoring invalid front matter", n, "error", n.Err)
				return nil
			}
			break
		}
	}
	return frontmatter.Read(v.doc.Root)
}

// chooseWrapper picks between a layout and a root wrapper function. Any
// layout, from front matter or the defaults, beats any root; fragments get
// neither.
func (v *visitor) chooseWrapper(fm *frontmatter.Data) (layout, wrapper string) {
	if !v.entry.Routable() {
		return "", ""
	}

	fmLayout, hasLayout := fm.Layout()
	fmRoot, hasRoot := fm.Root()

	layout = v.r.opts.Layout
	if hasLayout {
		layout = fmLayout
	}
	if layout != "" {
		if hasRoot {
			v.logger.Warn("front matter sets root but a layout applies, using the layout",
				"path", v.entry.Path, "layout", layout, "root", fmRoot)
		}
		return layout, ""
	}

	if hasRoot {
		return "", fmRoot
	}
	return "", v.r.opts.Root
}

func (v *visitor) functionName(fm *frontmatter.Data) string {
	if name, ok := fm.FunName(); ok {
		return name
	}
	if v.r.opts.FunctionName != "" {
		return v.r.opts.FunctionName
	}

	name := v.entry.Name
	if name == "" {
		name = "Page"
	}
	if v.entry.Routable() && !strings.HasSuffix(name, "Page") {
		name += "Page"
	}
	return name
}

// hook returns the init function registering the document's front matter,
// or "" when there is none to register.
func (v *visitor) hook(fm *frontmatter.Data) string {
	if fm == nil || !v.entry.Routable() || !v.r.opts.DataHooks {
		return ""
	}

	pkg := v.use(v.r.opts.DataPackage)

	var b strings.Builder
	b.WriteString("func init() {\n")
	fmt.Fprintf(&b, "\t%s.RegisterData(%s, func(d *%s.Data) {\n", pkg, escape.Quoted(v.entry.Path), pkg)
	writeData(&b, pkg, fm.UserData(), 2)
	b.WriteString("\t})\n")
	b.WriteString("}\n")
	return b.String()
}

func writeData(b *strings.Builder, pkg string, m *frontmatter.Map, depth int) {
	tabs := strings.Repeat("\t", depth)
	for _, key := range m.Keys() {
		value, _ := m.Get(key)
		switch t := value.(type) {
		case frontmatter.Scalar:
			fmt.Fprintf(b, "%sd.Add(%s, %s)\n", tabs, escape.Quoted(key), escape.Quoted(string(t)))
		case frontmatter.List:
			if !scalars(t) {
				fmt.Fprintf(b, "%sd.AddItems(%s, func(l *%s.List) {\n", tabs, escape.Quoted(key), pkg)
				writeItems(b, pkg, t, depth+1)
				fmt.Fprintf(b, "%s})\n", tabs)
				continue
			}
			args := []string{escape.Quoted(key)}
			for _, item := range t {
				args = append(args, escape.Quoted(item.String()))
			}
			fmt.Fprintf(b, "%sd.AddList(%s)\n", tabs, strings.Join(args, ", "))
		case *frontmatter.Map:
			fmt.Fprintf(b, "%sd.AddMap(%s, func(d *%s.Data) {\n", tabs, escape.Quoted(key), pkg)
			writeData(b, pkg, t, depth+1)
			fmt.Fprintf(b, "%s})\n", tabs)
		}
	}
}

// writeItems emits a list holding maps or nested lists item by item.
func writeItems(b *strings.Builder, pkg string, items frontmatter.List, depth int) {
	tabs := strings.Repeat("\t", depth)
	for _, item := range items {
		switch t := item.(type) {
		case frontmatter.Scalar:
			fmt.Fprintf(b, "%sl.Add(%s)\n", tabs, escape.Quoted(string(t)))
		case frontmatter.List:
			fmt.Fprintf(b, "%sl.AddList(func(l *%s.List) {\n", tabs, pkg)
			writeItems(b, pkg, t, depth+1)
			fmt.Fprintf(b, "%s})\n", tabs)
		case *frontmatter.Map:
			fmt.Fprintf(b, "%sl.AddMap(func(d *%s.Data) {\n", tabs, pkg)
			writeData(b, pkg, t, depth+1)
			fmt.Fprintf(b, "%s})\n", tabs)
		}
	}
}

func scalars(l frontmatter.List) bool {
	for _, item := range l {
		if _, ok := item.(frontmatter.Scalar); !ok {
			return false
		}
	}
	return true
}

func (v *visitor) children(n ast.Node) []ast.Node {
	var out []ast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

func (v *visitor) visitChildren(n ast.Node) error {
	return v.visitAll(v.children(n))
}

// visitAll renders siblings. Constructs they open must also be closed by
// them; whatever is still open at the end is closed here.
func (v *visitor) visitAll(nodes []ast.Node) error {
	floor := len(v.open)
	v.floors = append(v.floors, floor)
	defer func() { v.floors = v.floors[:len(v.floors)-1] }()

	for _, n := range nodes {
		if err := v.visit(n); err != nil {
			return err
		}
	}
	for len(v.open) > floor {
		closer := v.pop()
		v.logger.Warn("closing unterminated html element", "path", v.entry.Path, "line", v.lastLine(nodes))
		v.line(closer)
	}
	return nil
}

func (v *visitor) visit(n ast.Node) error {
	if link, ok := n.(*ast.Link); ok {
		if err := v.rewriteLink(link); err != nil {
			return err
		}
	}

	if passthroughInTightList(n) {
		return v.visitChildren(n)
	}

	handler, ok := v.r.handlers.Lookup(n)
	if !ok {
		v.warn("skipping unsupported node", n, "kind", KindOf(n).String())
		return nil
	}

	em, err := handler(v.scope(), n)
	if err != nil {
		return err
	}

	kids := v.children(n)
	if override, ok := em.Children(); ok {
		kids = override
	}

	if em.passthrough {
		return v.visitAll(kids)
	}

	code := strings.TrimRight(em.Code, " \t\n")
	switch {
	case strings.TrimSpace(code) == "":
		return nil

	case strings.HasPrefix(code, "}"):
		if len(v.open) <= v.floor() {
			v.warn("dropping unmatched closing html element", n)
			return nil
		}
		v.pop()
		v.line(code)
		return nil

	case strings.HasSuffix(code, "{"):
		v.line(code)
		v.push(closerFor(code))
		// the construct stays open for the following siblings
		for _, k := range kids {
			if err := v.visit(k); err != nil {
				return err
			}
		}
		return nil
	}

	if len(kids) == 0 {
		v.line(code)
		return nil
	}

	opener := withBody(code)
	v.line(opener)
	v.indent++
	if err := v.visitAll(kids); err != nil {
		return err
	}
	v.indent--
	v.line(closerFor(opener))
	return nil
}

func (v *visitor) rewriteLink(link *ast.Link) error {
	dest := string(link.Destination)
	resolved, found, err := ResolveLink(v.cache, v.entry.Path, dest)
	if err != nil {
		return err
	}
	if !found {
		v.warn("link to a document that is not a page", link, "link", dest)
		return nil
	}
	link.Destination = []byte(resolved)
	return nil
}

func (v *visitor) scope() *Scope {
	return &Scope{
		Data:      v.data,
		IDs:       v.ids,
		Indent:    v.indent,
		Doc:       v.doc,
		Options:   &v.r.opts,
		HeadingID: v.r.handlers.HeadingID,
		v:         v,
	}
}

// line writes code at the current indentation. Only the first line of code
// is indented; handlers indent the rest themselves.
func (v *visitor) line(code string) {
	v.body.WriteString(strings.Repeat("\t", v.indent))
	v.body.WriteString(code)
	v.body.WriteByte('\n')
}

func (v *visitor) push(closer string) {
	v.open = append(v.open, closer)
	v.indent++
}

func (v *visitor) pop() string {
	closer := v.open[len(v.open)-1]
	v.open = v.open[:len(v.open)-1]
	v.indent--
	return closer
}

// floor is the number of constructs opened outside the children currently
// being visited; those cannot be closed from here.
func (v *visitor) floor() int {
	if len(v.floors) == 0 {
		return 0
	}
	return v.floors[len(v.floors)-1]
}

func (v *visitor) warn(msg string, n ast.Node, args ...any) {
	attrs := append([]any{"path", v.entry.Path, "line", v.doc.LineOf(n)}, args...)
	v.logger.Warn(msg, attrs...)
}

func (v *visitor) lastLine(nodes []ast.Node) int {
	if len(nodes) == 0 {
		return 0
	}
	return v.doc.LineOf(nodes[len(nodes)-1])
}

// use records an import and returns the name it is referred to by.
func (v *visitor) use(importPath string) string {
	v.imports[importPath] = struct{}{}
	return qualifier(importPath)
}

func (v *visitor) importList() []string {
	out := make([]string, 0, len(v.imports))
	for imp := range v.imports {
		if imp != "" {
			out = append(out, imp)
		}
	}
	sort.Strings(out)
	return out
}

// qualify rewrites the function reference at the start of expr to its
// package qualified form, recording the import.
func (v *visitor) qualify(expr string) string {
	ref, rest := expr, ""
	if i := strings.IndexAny(expr, "( "); i >= 0 {
		ref, rest = expr[:i], expr[i:]
	}

	importPath, name := splitRef(ref)
	if importPath == "" {
		return expr
	}
	return v.use(v.r.opts.expand(importPath)) + "." + name + rest
}

// callExpr is qualify for a reference that is called with no arguments.
func (v *visitor) callExpr(ref string) string {
	call := v.qualify(ref)
	if !strings.HasSuffix(call, ")") {
		call += "()"
	}
	return call
}

// withBody turns a complete call into the opening of a call taking a
// closure as its last argument.
func withBody(code string) string {
	switch {
	case strings.HasSuffix(code, "()"):
		return strings.TrimSuffix(code, ")") + "func() {"
	case strings.HasSuffix(code, ")"):
		return strings.TrimSuffix(code, ")") + ", func() {"
	default:
		return code + " {"
	}
}

func closerFor(opener string) string {
	if strings.HasSuffix(opener, "func() {") {
		return "})"
	}
	return "}"
}

// passthroughInTightList reports whether n is the paragraph of an item in a
// tight list, which renders its children without a wrapper.
func passthroughInTightList(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
	default:
		return false
	}
	item, ok := n.Parent().(*ast.ListItem)
	if !ok {
		return false
	}
	list, ok := item.Parent().(*ast.List)
	return ok && list.IsTight
}
