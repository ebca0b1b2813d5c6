package render

import (
	"log/slog"
	"path"
	"strings"
)

// Import paths of the runtime generated code calls into.
const (
	DefaultUIPackage      = "github.com/jwtly10/litpage/runtime/ui"
	DefaultWidgetsPackage = "github.com/jwtly10/litpage/runtime/widgets"
	DefaultDataPackage    = "github.com/jwtly10/litpage/runtime/page"
)

type Options struct {
	// Import path of the site module. References starting with "." are
	// resolved against it.
	ProjectPackage string

	// Default root wrapper, a function reference such as ".layouts.Shell"
	Root string
	// Default layout reference
	Layout string
	// Imports added to every generated file
	Imports []string
	// Name of the component function when front matter does not set one
	FunctionName string

	// Emit widget calls for links, images and task checkboxes
	Enhanced bool
	// Emit an init hook registering front-matter data
	DataHooks bool

	UIPackage      string
	WidgetsPackage string
	DataPackage    string

	// Diagnostic sink. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.UIPackage == "" {
		o.UIPackage = DefaultUIPackage
	}
	if o.WidgetsPackage == "" {
		o.WidgetsPackage = DefaultWidgetsPackage
	}
	if o.DataPackage == "" {
		o.DataPackage = DefaultDataPackage
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// expand resolves the "." project shortcut of an import path.
func (o *Options) expand(importPath string) string {
	if !strings.HasPrefix(importPath, ".") {
		return importPath
	}
	rest := strings.TrimLeft(strings.TrimPrefix(importPath, "."), "/")
	if rest == "" {
		return o.ProjectPackage
	}
	return path.Join(o.ProjectPackage, rest)
}

// splitRef splits a function reference into its import path and the
// identifier after the last dot of the final path element.
// ".components/widgets.Video" gives (".components/widgets", "Video");
// a bare "Video" gives ("", "Video").
func splitRef(ref string) (importPath, name string) {
	slash := strings.LastIndex(ref, "/")
	dot := strings.LastIndex(ref, ".")
	if dot <= slash {
		return "", ref
	}
	if dot == 0 {
		// ".Video" names the project package itself
		return ".", ref[1:]
	}
	return ref[:dot], ref[dot+1:]
}

// expandRef returns ref with its "." shortcut resolved, in the
// importpath.Name form directives use.
func (o *Options) expandRef(ref string) string {
	importPath, name := splitRef(ref)
	if importPath == "" {
		return name
	}
	return o.expand(importPath) + "." + name
}

// qualifier is the package name an import path is referred to by.
func qualifier(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		// major version suffix
		base = path.Base(path.Dir(importPath))
	}
	return strings.NewReplacer("-", "", ".", "").Replace(base)
}
