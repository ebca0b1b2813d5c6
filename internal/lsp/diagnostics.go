package lsp

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/go-lsp"
)

const diagnosticSource = "litpage"

// finding is one warning logged while a document was rendered.
type finding struct {
	Level   slog.Level
	Message string
	Path    string
	// 1-based, 0 when unknown
	Line   int
	Detail []string
}

// collector is a slog.Handler that keeps the warnings of a render instead
// of writing them, so they can be published as diagnostics.
type collector struct {
	mu       *sync.Mutex
	findings *[]finding
	attrs    []slog.Attr
}

func newCollector() *collector {
	return &collector{mu: &sync.Mutex{}, findings: &[]finding{}}
}

func (c *collector) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn
}

func (c *collector) Handle(_ context.Context, r slog.Record) error {
	f := finding{Level: r.Level, Message: r.Message}
	add := func(a slog.Attr) bool {
		v := a.Value.Resolve()
		switch {
		case a.Key == "path":
			f.Path = v.String()
		case a.Key == "line" && v.Kind() == slog.KindInt64:
			f.Line = int(v.Int64())
		default:
			f.Detail = append(f.Detail, a.Key+"="+v.String())
		}
		return true
	}
	for _, a := range c.attrs {
		add(a)
	}
	r.Attrs(add)

	c.mu.Lock()
	*c.findings = append(*c.findings, f)
	c.mu.Unlock()
	return nil
}

func (c *collector) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &collector{
		mu:       c.mu,
		findings: c.findings,
		attrs:    append(append([]slog.Attr{}, c.attrs...), attrs...),
	}
}

func (c *collector) WithGroup(string) slog.Handler { return c }

// For returns the findings about the document at path, in line order.
func (c *collector) For(path string) []finding {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []finding
	for _, f := range *c.findings {
		if f.Path == path {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

func (f finding) Diagnostic() lsp.Diagnostic {
	msg := f.Message
	if len(f.Detail) > 0 {
		msg += " (" + strings.Join(f.Detail, ", ") + ")"
	}

	severity := lsp.DiagnosticSeverity(lsp.Warning)
	if f.Level >= slog.LevelError {
		severity = lsp.Error
	}

	return lsp.Diagnostic{
		Range:    lineRange(f.Line),
		Severity: severity,
		Source:   diagnosticSource,
		Message:  msg,
	}
}

// errorDiagnostic reports err against the first line of the document.
func errorDiagnostic(err error) lsp.Diagnostic {
	return lsp.Diagnostic{
		Range:    lineRange(0),
		Severity: lsp.Error,
		Source:   diagnosticSource,
		Message:  err.Error(),
	}
}

// lineRange spans the whole of a 1-based line; 0 maps to the first line.
func lineRange(line int) lsp.Range {
	if line > 0 {
		line--
	}
	return lsp.Range{
		Start: lsp.Position{Line: line, Character: 0},
		End:   lsp.Position{Line: line + 1, Character: 0},
	}
}
