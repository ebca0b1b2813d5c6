// Package frontmatter reads the key/value block at the top of a document.
//
// The block is parsed by goldmark-meta and surfaced in the tree as a single
// FrontMatter node. Data gives typed access to the reserved keys that steer
// code generation; everything else is user data forwarded to the page's
// init hook untouched.
package frontmatter

import (
	"github.com/yuin/goldmark/ast"
)

// Reserved keys.
const (
	KeyRoot          = "root"
	KeyLayout        = "layout"
	KeyFunName       = "funName"
	KeyImports       = "imports"
	KeyRouteOverride = "routeOverride"
)

var reserved = map[string]struct{}{
	KeyRoot:          {},
	KeyLayout:        {},
	KeyFunName:       {},
	KeyImports:       {},
	KeyRouteOverride: {},
}

// Data is the front matter of one document. A nil *Data behaves as an empty
// block.
type Data struct {
	values *Map
}

// NewData wraps an already parsed map.
func NewData(m *Map) *Data {
	if m == nil {
		m = &Map{}
	}
	return &Data{values: m}
}

// Read returns the front matter of the tree rooted at root, or nil when the
// document has none. A block that failed to parse counts as absent.
func Read(root ast.Node) *Data {
	var found *Node
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fm, ok := n.(*Node); ok {
			found = fm
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if found == nil || found.Err != nil {
		return nil
	}
	return NewData(found.Values)
}

// Values returns every key, reserved ones included.
func (d *Data) Values() *Map {
	if d == nil {
		return &Map{}
	}
	return d.values
}

// Root is the root wrapper function reference.
func (d *Data) Root() (string, bool) { return d.scalar(KeyRoot) }

// Layout is the layout reference.
func (d *Data) Layout() (string, bool) { return d.scalar(KeyLayout) }

// FunName overrides the generated function name.
func (d *Data) FunName() (string, bool) { return d.scalar(KeyFunName) }

// RouteOverride replaces the route derived from the document path.
func (d *Data) RouteOverride() (string, bool) { return d.scalar(KeyRouteOverride) }

// Imports lists extra imports. A single scalar counts as a one-element list;
// any other shape, or a list holding non-scalars, reads as absent.
func (d *Data) Imports() []string {
	if d == nil {
		return nil
	}
	v, ok := d.values.Get(KeyImports)
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case Scalar:
		if t == "" {
			return nil
		}
		return []string{string(t)}
	case List:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(Scalar)
			if !ok {
				return nil
			}
			out = append(out, string(s))
		}
		return out
	default:
		return nil
	}
}

// UserData returns the entries that are not reserved keys, in source order.
func (d *Data) UserData() *Map {
	out := &Map{}
	if d == nil {
		return out
	}
	for _, k := range d.values.Keys() {
		if _, ok := reserved[k]; ok {
			continue
		}
		v, _ := d.values.Get(k)
		out.Set(k, v)
	}
	return out
}

func (d *Data) scalar(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.values.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(Scalar)
	if !ok || s == "" {
		return "", false
	}
	return string(s), true
}
