package transformer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwtly10/litpage"
	"github.com/jwtly10/litpage/render"
	"github.com/jwtly10/litpage/site"
)

type TransformOptions struct {
	// Root of the markdown tree
	SourceRoot string
	// Root of the generated Go tree
	OutputRoot string
	// Discovery cap, zero for none
	MaxFiles int
	// If true, no backup will be created
	NoBackup bool

	Site   site.Options
	Render render.Options
	// Handler table, the defaults when nil
	Handlers *render.Handlers
}

func (t *TransformOptions) Pretty() string {
	return fmt.Sprintf("source=%s output=%s backup=%s enhanced=%s data_hooks=%s",
		t.SourceRoot,
		t.OutputRoot,
		boolToText(!t.NoBackup),
		boolToText(t.Render.Enhanced),
		boolToText(t.Render.DataHooks))
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type Transformer struct {
	parser   *litpage.Parser
	renderer *render.Renderer
	backup   *litpage.BackupManager

	opts TransformOptions
}

// NewTransformer creates a new Transformer instance with the specified options [TransformOptions]
func NewTransformer(opts TransformOptions) *Transformer {
	return &Transformer{
		parser:   litpage.NewParser(),
		renderer: render.New(opts.Render, opts.Handlers),
		backup:   litpage.NewBackupManager(),
		opts:     opts,
	}
}

func (t *Transformer) Options() TransformOptions { return t.opts }

type MarkdownSource struct {
	Content  io.Reader
	Metadata litpage.MetaData
}

// Output is one rendered document.
type Output struct {
	// Source path relative to the source root
	Source string
	// Absolute path the code is written to
	OutPath string
	Code    string
}

// Sources discovers every markdown file under the source root. Files named
// in overlay are read from it instead of disk, keyed by their path relative
// to the root, so unsaved editor buffers take part in a build.
func (t *Transformer) Sources(overlay map[string][]byte) ([]MarkdownSource, error) {
	files, err := FindSources(t.opts.SourceRoot, t.opts.MaxFiles)
	if err != nil {
		return nil, err
	}

	sources := make([]MarkdownSource, 0, len(files))
	for _, rel := range files {
		abs := filepath.Join(t.opts.SourceRoot, filepath.FromSlash(rel))

		content, ok := overlay[rel]
		if !ok {
			content, err = os.ReadFile(abs)
			if err != nil {
				return nil, fmt.Errorf("error reading file: %w", err)
			}
		}

		sources = append(sources, MarkdownSource{
			Content: bytes.NewReader(content),
			Metadata: litpage.MetaData{
				Source:    rel,
				AbsSource: abs,
			},
		})
	}
	return sources, nil
}

// LoadSite parses every source and registers it in a new metadata cache.
// This is the discovery pass: it must complete before any document is
// rendered. Every registration error is reported, not just the first.
func (t *Transformer) LoadSite(sources []MarkdownSource) (*site.Cache, error) {
	cache := site.New(t.opts.Site)

	var errs []error
	for _, src := range sources {
		if src.Metadata.Source == "" {
			return nil, fmt.Errorf("source metadata is required for transformation")
		}

		doc, err := t.parser.ParseMarkdownDoc(src.Content, src.Metadata)
		if err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}

		if _, err := cache.Register(doc); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	slog.Debug("site loaded", "documents", cache.Len())
	return cache, nil
}

// Generate renders the document registered at path.
func (t *Transformer) Generate(cache *site.Cache, path string) (Output, error) {
	entry, ok := cache.Entry(path)
	if !ok {
		return Output{}, fmt.Errorf("%s was not discovered under %s", path, t.opts.SourceRoot)
	}

	code, err := t.renderer.Render(entry.Doc, cache)
	if err != nil {
		return Output{}, err
	}

	return Output{
		Source:  entry.Path,
		OutPath: t.OutputPath(entry.Path),
		Code:    code,
	}, nil
}

// OutputPath is where the code generated from the source at rel lands.
func (t *Transformer) OutputPath(rel string) string {
	return filepath.Join(t.opts.OutputRoot, filepath.FromSlash(litpage.ResolveOutputPath(rel)))
}

// Write saves out to disk, backing up an existing file first unless
// backups are disabled.
func (t *Transformer) Write(out Output) error {
	if !t.opts.NoBackup {
		if _, err := t.backup.CreateBackupOf(out.OutPath); err != nil {
			return fmt.Errorf("backup error: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(out.OutPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(out.OutPath, []byte(out.Code), 0644); err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	return nil
}
