// Package site holds the metadata of every document in a build: the Go
// package each one lands in, its route, and whether it is a page at all.
//
// A Cache is filled once by a discovery pass before any document is
// rendered, so that links can resolve to documents rendered later. After
// that it is only read, from as many goroutines as needed.
package site

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jwtly10/litpage"
	"github.com/jwtly10/litpage/frontmatter"
)

var (
	ErrDuplicatePath  = errors.New("document registered twice")
	ErrDuplicateRoute = errors.New("route claimed by more than one document")
	ErrInvalidRoute   = errors.New("invalid route")
)

// DefaultRootPackage is the package name of documents at the site root.
const DefaultRootPackage = "pages"

var (
	segmentPattern = `(?:[A-Za-z0-9._~-]+|\{[A-Za-z_][A-Za-z0-9_]*\})`
	routeRegex     = regexp.MustCompile(`^/(?:` + segmentPattern + `(?:/` + segmentPattern + `)*/?)?$`)
	paramRegex     = regexp.MustCompile(`^\{[A-Za-z_][A-Za-z0-9_]*\}$`)
)

type Options struct {
	// Package name for documents at the site root
	RootPackage string
}

// Entry is the metadata of one document. It is immutable once registered.
type Entry struct {
	// Path relative to the site root, slash separated
	Path string
	// Directory part of Path, "" at the root
	Dir string
	// Go package name of the generated file
	Package string
	// Exported identifier derived from the file name
	Name string

	Doc         *litpage.Document
	FrontMatter *frontmatter.Data

	routeWithSlug    string
	routeWithoutSlug string
	route            string
	routable         bool
}

// RouteWithSlug is the path-derived route including the document's own
// slug. ok is false for fragments.
func (e *Entry) RouteWithSlug() (route string, ok bool) {
	return e.routeWithSlug, e.routable
}

// RouteWithoutSlug is the route of the directory holding the document.
func (e *Entry) RouteWithoutSlug() (route string, ok bool) {
	return e.routeWithoutSlug, e.routable
}

// Route is the effective route, after the document's routeOverride.
func (e *Entry) Route() (route string, ok bool) {
	return e.route, e.routable
}

// Routable reports whether the document is a page.
func (e *Entry) Routable() bool { return e.routable }

// IsDynamic reports whether the effective route has a {param} segment.
func (e *Entry) IsDynamic() bool {
	return e.routable && IsDynamic(e.route)
}

type Cache struct {
	opts Options

	mu      sync.RWMutex
	entries map[string]*Entry
	routes  map[string]string
}

func New(opts Options) *Cache {
	if opts.RootPackage == "" {
		opts.RootPackage = DefaultRootPackage
	}
	return &Cache{
		opts:    opts,
		entries: make(map[string]*Entry),
		routes:  make(map[string]string),
	}
}

// Register computes and stores the metadata of doc. A path may only be
// registered once, and no two pages may share an effective route.
func (c *Cache) Register(doc *litpage.Document) (*Entry, error) {
	p := path.Clean(strings.TrimPrefix(doc.Metadata.Source, "/"))

	e := &Entry{
		Path:        p,
		Doc:         doc,
		FrontMatter: frontmatter.Read(doc.Root),
	}

	dir, file := path.Split(p)
	e.Dir = strings.TrimSuffix(dir, "/")
	stem := strings.TrimSuffix(file, path.Ext(file))
	e.Name = litpage.Identifier(stem)

	e.Package = c.opts.RootPackage
	if e.Dir != "" {
		if name := litpage.PackageName(path.Base(e.Dir)); name != "" {
			e.Package = name
		}
	}

	e.routeWithSlug, e.routeWithoutSlug, e.routable = pathRoutes(e.Dir, stem)
	if e.routable {
		e.route = e.routeWithSlug
		if override, ok := e.FrontMatter.RouteOverride(); ok {
			e.route = applyOverride(e.routeWithoutSlug, override)
		}
		if !routeRegex.MatchString(e.route) {
			return nil, fmt.Errorf("%w %q for %s", ErrInvalidRoute, e.route, p)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[p]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, p)
	}
	if e.routable {
		if other, ok := c.routes[e.route]; ok {
			return nil, fmt.Errorf("%w: %s is claimed by %s and %s", ErrDuplicateRoute, e.route, other, p)
		}
		c.routes[e.route] = p
	}
	c.entries[p] = e

	return e, nil
}

// Entry returns the metadata registered for p.
func (c *Cache) Entry(p string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path.Clean(p)]
	return e, ok
}

// MustEntry is like Entry but panics when p was never registered. Rendering
// a document the discovery pass did not see is a programming error.
func (c *Cache) MustEntry(p string) *Entry {
	e, ok := c.Entry(p)
	if !ok {
		panic(fmt.Sprintf("site: no metadata registered for %q; the discovery pass must run before rendering", p))
	}
	return e
}

// ResolveSibling resolves ref relative to the directory of from and returns
// the document it names, if it was discovered.
func (c *Cache) ResolveSibling(from, ref string) (*Entry, bool) {
	target, ok := Join(from, ref)
	if !ok {
		return nil, false
	}
	return c.Entry(target)
}

// Entries returns every entry sorted by path.
func (c *Cache) Entries() []*Entry {
	c.mu.RLock()
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Join resolves ref against the directory of from. Fragments and queries are
// dropped, "/" anchors ref at the site root. ok is false when the result
// escapes the root.
func Join(from, ref string) (string, bool) {
	ref, _ = SplitFragment(ref)
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	if ref == "" {
		return "", false
	}

	var p string
	if strings.HasPrefix(ref, "/") {
		p = path.Clean(strings.TrimPrefix(ref, "/"))
	} else {
		p = path.Join(path.Dir(from), ref)
	}

	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

// SplitFragment splits ref into the part before any '?' or '#' and the
// remainder, separator included.
func SplitFragment(ref string) (string, string) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i], ref[i:]
	}
	return ref, ""
}

// IsDynamic reports whether route has a {param} segment.
func IsDynamic(route string) bool {
	for _, seg := range strings.Split(route, "/") {
		if paramRegex.MatchString(seg) {
			return true
		}
	}
	return false
}

// ValidRoute reports whether route is well formed.
func ValidRoute(route string) bool {
	return routeRegex.MatchString(route)
}

func pathRoutes(dir, stem string) (withSlug, withoutSlug string, routable bool) {
	if strings.HasPrefix(stem, "_") {
		return "", "", false
	}

	var segs []string
	if dir != "" {
		for _, d := range strings.Split(dir, "/") {
			segs = append(segs, routeSegment(d))
		}
	}

	withoutSlug = "/"
	if len(segs) > 0 {
		withoutSlug += strings.Join(segs, "/") + "/"
	}

	if strings.EqualFold(stem, "index") {
		return withoutSlug, withoutSlug, true
	}
	return withoutSlug + routeSegment(stem), withoutSlug, true
}

func routeSegment(s string) string {
	if paramRegex.MatchString(s) {
		return s
	}
	return litpage.KebabCase(s)
}

func applyOverride(withoutSlug, override string) string {
	if strings.HasPrefix(override, "/") {
		return override
	}
	return withoutSlug + override
}
