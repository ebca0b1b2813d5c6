package lsp

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sourcegraph/go-lsp"

	"github.com/jwtly10/litpage/internal/transformer"
	"github.com/jwtly10/litpage/render"
)

type DocumentServiceOptions struct {
	// Build settings. A relative SourceRoot is resolved against the
	// workspace the client opens.
	Transform transformer.TransformOptions
}

func (o DocumentServiceOptions) Validate() error {
	if o.Transform.Render.ProjectPackage == "" {
		return fmt.Errorf("project package is required")
	}
	if o.Transform.SourceRoot == "" {
		return fmt.Errorf("source root is required")
	}

	return nil
}

// DocumentService renders open documents to find what is wrong with them.
// Every check loads the whole site afresh, with open buffers taking the
// place of the files on disk, so links to unsaved documents resolve.
type DocumentService struct {
	opts DocumentServiceOptions

	mu   sync.Mutex
	root string
	// Open buffers, keyed by absolute path
	buffers map[string][]byte
}

func NewDocumentService(opts DocumentServiceOptions) (*DocumentService, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document service options: %w", err)
	}

	root, err := filepath.Abs(opts.Transform.SourceRoot)
	if err != nil {
		return nil, err
	}

	return &DocumentService{
		opts:    opts,
		root:    root,
		buffers: make(map[string][]byte),
	}, nil
}

// SetWorkspace anchors a relative source root at the workspace directory.
func (s *DocumentService) SetWorkspace(dir string) {
	if filepath.IsAbs(s.opts.Transform.SourceRoot) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = filepath.Join(dir, s.opts.Transform.SourceRoot)
	slog.Debug("source root set", "root", s.root)
}

// SourceRoot returns the absolute root of the markdown tree.
func (s *DocumentService) SourceRoot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Update records the current text of an open document.
func (s *DocumentService) Update(uri lsp.DocumentURI, text string) error {
	path, err := s.URIToPath(uri)
	if err != nil {
		return fmt.Errorf("invalid document URI: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffers[path] = []byte(text)
	return nil
}

// Close forgets the buffer of a document; disk content is used again.
func (s *DocumentService) Close(uri lsp.DocumentURI) error {
	path, err := s.URIToPath(uri)
	if err != nil {
		return fmt.Errorf("invalid document URI: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, path)
	return nil
}

// Diagnose renders the document at uri and returns the problems found. The
// result is empty, never nil, so it can be published to clear earlier
// diagnostics. Documents outside the source root have none.
func (s *DocumentService) Diagnose(uri lsp.DocumentURI) ([]lsp.Diagnostic, error) {
	diagnostics := []lsp.Diagnostic{}

	path, err := s.URIToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid document URI: %w", err)
	}

	root, overlay := s.snapshot()
	rel, ok := relativeTo(root, path)
	if !ok || !transformer.IsSource(rel) {
		return diagnostics, nil
	}

	col := newCollector()
	opts := s.opts.Transform
	opts.SourceRoot = root
	opts.NoBackup = true
	opts.Render.Logger = slog.New(col)
	tr := transformer.NewTransformer(opts)

	sources, err := tr.Sources(overlay)
	if err != nil {
		return append(diagnostics, errorDiagnostic(err)), nil
	}

	cache, err := tr.LoadSite(sources)
	if err != nil {
		return append(diagnostics, errorDiagnostic(err)), nil
	}
	if _, ok := cache.Entry(rel); !ok {
		// ignored by .gitignore, not part of the site
		return diagnostics, nil
	}

	if _, err := tr.Generate(cache, rel); err != nil {
		d := errorDiagnostic(err)
		if line := errorLine(err, overlay[rel]); line > 0 {
			d.Range = lineRange(line)
		}
		diagnostics = append(diagnostics, d)
	}

	for _, f := range col.For(rel) {
		diagnostics = append(diagnostics, f.Diagnostic())
	}

	slog.Debug("diagnosed document", "path", rel, "diagnostics", len(diagnostics))
	return diagnostics, nil
}

func (s *DocumentService) snapshot() (string, map[string][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overlay := make(map[string][]byte, len(s.buffers))
	for path, text := range s.buffers {
		if rel, ok := relativeTo(s.root, path); ok {
			overlay[rel] = text
		}
	}
	return s.root, overlay
}

// errorLine finds the line of source a render error is about, 0 if unknown.
func errorLine(err error, source []byte) int {
	var linkErr *render.LinkError
	if !errors.As(err, &linkErr) || source == nil {
		return 0
	}
	i := bytes.Index(source, []byte(linkErr.Link))
	if i < 0 {
		return 0
	}
	return bytes.Count(source[:i], []byte("\n")) + 1
}

func relativeTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// URIToPath converts an LSP URI to a filesystem path
func (s *DocumentService) URIToPath(uri lsp.DocumentURI) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// PathToURI converts a filesystem path to an LSP URI
func (s *DocumentService) PathToURI(path string) lsp.DocumentURI {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return lsp.DocumentURI(u.String())
}
