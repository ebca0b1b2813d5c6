package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwtly10/litpage"
	"github.com/jwtly10/litpage/site"
)

// ErrDynamicRoute is returned when a document links to a page whose route
// has parameters, which a static link cannot fill in.
var ErrDynamicRoute = errors.New("link to a dynamic route")

// LinkError describes a link that cannot be rendered.
type LinkError struct {
	// Document holding the link
	Path string
	// Destination as written
	Link string
	// Document the link resolved to
	Target string
	Route  string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: link %q points at %s, whose route %s has parameters", e.Path, e.Link, e.Target, e.Route)
}

func (e *LinkError) Unwrap() error { return ErrDynamicRoute }

// ResolveLink rewrites a link destination written in the document at from.
// Destinations naming another markdown document become that document's
// route, fragment kept. found is false when dest names a document that was
// not discovered or is not a page; dest is then returned unchanged. Links to
// dynamic routes fail with a *LinkError.
func ResolveLink(cache *site.Cache, from, dest string) (resolved string, found bool, err error) {
	if !IsDocumentLink(dest) {
		return dest, true, nil
	}

	target, ok := cache.ResolveSibling(from, dest)
	if !ok || !target.Routable() {
		return dest, false, nil
	}

	route, _ := target.Route()
	if site.IsDynamic(route) {
		return dest, true, &LinkError{Path: from, Link: dest, Target: target.Path, Route: route}
	}

	_, fragment := site.SplitFragment(dest)
	return route + fragment, true, nil
}

// IsDocumentLink reports whether dest refers to a markdown document of the
// site rather than an external resource.
func IsDocumentLink(dest string) bool {
	p, _ := site.SplitFragment(dest)
	if p == "" || strings.Contains(p, "://") {
		return false
	}
	if i := strings.Index(p, ":"); i > 0 && !strings.Contains(p[:i], "/") {
		// mailto:, tel:, ...
		return false
	}
	return strings.HasSuffix(strings.ToLower(p), litpage.SourceExt)
}
