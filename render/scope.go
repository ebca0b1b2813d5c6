package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"

	"github.com/jwtly10/litpage"
	"github.com/jwtly10/litpage/htmlgen"
)

// Scope is handed to a handler for one node. Data and IDs are shared by every
// handler call of the same document; the rest describes the call site.
type Scope struct {
	// Shared bag for state handlers keep across the document
	Data *Data
	// Heading anchor ids claimed so far
	IDs *IDSet
	// Indentation depth the handler's code will be written at
	Indent int
	// The document being rendered
	Doc *litpage.Document
	// Caller configuration; read only
	Options *Options
	// Generator for heading anchor ids, nil disables them
	HeadingID func(string) string

	v *visitor
}

// Path is the site-relative path of the document being rendered.
func (s *Scope) Path() string { return s.Doc.Metadata.Source }

// Source is the markdown the document tree points into.
func (s *Scope) Source() []byte { return s.Doc.Source }

// UI returns name qualified by the UI runtime package and records the import.
func (s *Scope) UI(name string) string {
	return s.v.use(s.Options.UIPackage) + "." + name
}

// Widgets returns name qualified by the widgets package and records the import.
func (s *Scope) Widgets(name string) string {
	return s.v.use(s.Options.WidgetsPackage) + "." + name
}

// Import records an import path. A leading "." is relative to the project
// package.
func (s *Scope) Import(path string) {
	s.v.use(s.Options.expand(path))
}

// Qualify turns a function reference such as ".components/widgets.Video"
// into a call expression ("widgets.Video") and records its import.
func (s *Scope) Qualify(ref string) string {
	return s.v.qualify(ref)
}

// Element returns a call to the UI function name, with attrs as a single
// Attrs argument when there are any. The call is complete; the renderer adds
// a closure for children.
func (s *Scope) Element(name string, attrs ...html.Attribute) string {
	if len(attrs) == 0 {
		return s.UI(name) + "()"
	}
	return s.UI(name) + "(" + s.UI("Attrs") + "(" + htmlgen.Attrs(attrs) + "))"
}

// HTML returns a generator for raw HTML bound to the UI package. The import
// is not recorded; use [Scope.RawHTML] unless the caller records it.
func (s *Scope) HTML() *htmlgen.Generator {
	return htmlgen.New(qualifier(s.Options.UIPackage))
}

// RawHTML renders an HTML fragment and records the UI import only when the
// fragment produced code.
func (s *Scope) RawHTML(src string) (string, error) {
	code, err := s.HTML().Fragment(src, s.Indent)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(code) != "" {
		s.v.use(s.Options.UIPackage)
	}
	return code, nil
}

// Tabs returns the indentation for a line extra levels below the handler's.
func (s *Scope) Tabs(extra int) string {
	return strings.Repeat("\t", s.Indent+extra)
}

// Warn reports a recoverable problem with n through the diagnostic logger.
func (s *Scope) Warn(msg string, n ast.Node, args ...any) {
	s.v.warn(msg, n, args...)
}

// Logger is the diagnostic sink of the render.
func (s *Scope) Logger() *slog.Logger {
	return s.v.logger
}

// Data is a bag of values keyed by typed Keys.
type Data struct {
	values map[any]any
}

func NewData() *Data {
	return &Data{values: make(map[any]any)}
}

// Key identifies a value of type T in a Data bag. Keys compare by identity,
// so two keys with the same name never collide.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

func (k *Key[T]) String() string { return k.name }

func (k *Key[T]) Get(d *Data) (T, bool) {
	v, ok := d.values[k]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func (k *Key[T]) Set(d *Data, v T) {
	d.values[k] = v
}

// GetOrInit returns the stored value, storing create() first if there is none.
func (k *Key[T]) GetOrInit(d *Data, create func() T) T {
	if v, ok := k.Get(d); ok {
		return v
	}
	v := create()
	k.Set(d, v)
	return v
}

// IDSet hands out unique ids within one document.
type IDSet struct {
	seen map[string]struct{}
}

func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[string]struct{})}
}

// Claim returns id if unused, otherwise the first free id-2, id-3, ...
func (s *IDSet) Claim(id string) string {
	if _, ok := s.seen[id]; !ok {
		s.seen[id] = struct{}{}
		return id
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", id, i)
		if _, ok := s.seen[candidate]; !ok {
			s.seen[candidate] = struct{}{}
			return candidate
		}
	}
}

// Emission is what a handler produces for a node.
type Emission struct {
	// Code is a single statement, an opening construct ending in "{", or a
	// closing construct starting with "}". Blank code skips the node.
	Code string

	children    []ast.Node
	override    bool
	passthrough bool
}

// Emit writes code and descends into the node's own children.
func Emit(code string) Emission {
	return Emission{Code: code}
}

// EmitWithChildren writes code and descends into children instead of the
// node's own. With no children the code is written as a leaf.
func EmitWithChildren(code string, children ...ast.Node) Emission {
	return Emission{Code: code, children: children, override: true}
}

// Passthrough writes nothing for the node but still renders its children
// in place.
func Passthrough() Emission {
	return Emission{passthrough: true}
}

// Skip drops the node and its children.
func Skip() Emission {
	return Emission{}
}

// Children returns the substitute children, if the handler set any.
func (e Emission) Children() ([]ast.Node, bool) {
	return e.children, e.override
}
