package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwtly10/litpage/internal/transformer"
	"github.com/jwtly10/litpage/site"
)

const defaultWorkers = 4

var (
	ErrBuildFailed     = errors.New("build failed")
	ErrOutputCollision = errors.New("documents generate the same output file")
	ErrOutsideRoot     = errors.New("file is outside the source root")
)

type TranspileResult struct {
	Path     string
	OutPath  string
	Duration time.Duration
}

type ProcessResult struct {
	Path     string
	Output   transformer.Output
	Duration time.Duration
	Error    error
}

// Route is a page of the site and the document it comes from.
type Route struct {
	Route   string
	Path    string
	Dynamic bool
}

type Processor struct {
	transformer *transformer.Transformer
	opts        transformer.TransformOptions
	workers     int
}

func NewProcessor(opts transformer.TransformOptions, workers int) *Processor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Processor{
		transformer: transformer.NewTransformer(opts),
		opts:        opts,
		workers:     workers,
	}
}

// Build renders every document under the source root and writes the
// results. Rendering completes for every document before anything is
// written, so a failing document leaves the output tree untouched.
func (p *Processor) Build(ctx context.Context) ([]TranspileResult, error) {
	startTime := time.Now()
	slog.Debug("starting build", "options", p.opts.Pretty())

	cache, err := p.loadSite(nil)
	if err != nil {
		return nil, err
	}

	entries := cache.Entries()
	slog.Debug("found files to process", "count", len(entries), "duration", time.Since(startTime))

	results := p.renderAll(ctx, cache, entries)

	var errs []error
	for _, result := range results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("failed to process %s: %w", result.Path, result.Error))
			slog.Debug("failed to process file", "path", result.Path, "error", result.Error)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: encountered %d errors, nothing was written: %w", ErrBuildFailed, len(errs), errors.Join(errs...))
	}

	if err := checkCollisions(results); err != nil {
		return nil, err
	}

	transpileResults := make([]TranspileResult, 0, len(results))
	for _, result := range results {
		if err := p.transformer.Write(result.Output); err != nil {
			return transpileResults, fmt.Errorf("failed to write %s: %w", result.Output.OutPath, err)
		}

		relOut, err := filepath.Rel(p.opts.OutputRoot, result.Output.OutPath)
		if err != nil {
			relOut = result.Output.OutPath
		}

		transpileResults = append(transpileResults, TranspileResult{
			Path:     result.Path,
			OutPath:  filepath.ToSlash(relOut),
			Duration: result.Duration,
		})

		slog.Debug("file transpiled",
			"source", result.Path,
			"output", relOut,
		)
	}

	slog.Debug("build completed", "duration", time.Since(startTime), "processed", len(transpileResults))
	return transpileResults, nil
}

// RenderFile renders the single document at path without writing it. The
// whole site is still loaded so links resolve.
func (p *Processor) RenderFile(path string) (transformer.Output, error) {
	rel, err := p.relativeSource(path)
	if err != nil {
		return transformer.Output{}, err
	}

	cache, err := p.loadSite(nil)
	if err != nil {
		return transformer.Output{}, err
	}

	return p.transformer.Generate(cache, rel)
}

// Routes lists the pages of the site, sorted by route.
func (p *Processor) Routes() ([]Route, error) {
	cache, err := p.loadSite(nil)
	if err != nil {
		return nil, err
	}

	var routes []Route
	for _, e := range cache.Entries() {
		route, ok := e.Route()
		if !ok {
			continue
		}
		routes = append(routes, Route{Route: route, Path: e.Path, Dynamic: e.IsDynamic()})
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })
	return routes, nil
}

func (p *Processor) loadSite(overlay map[string][]byte) (*site.Cache, error) {
	sources, err := p.transformer.Sources(overlay)
	if err != nil {
		return nil, err
	}
	return p.transformer.LoadSite(sources)
}

func (p *Processor) renderAll(ctx context.Context, cache *site.Cache, entries []*site.Entry) []ProcessResult {
	jobs := make(chan int, len(entries))
	results := make([]ProcessResult, len(entries))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.processEntry(ctx, cache, entries[idx])
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func (p *Processor) processEntry(ctx context.Context, cache *site.Cache, entry *site.Entry) ProcessResult {
	startTime := time.Now()
	result := ProcessResult{Path: entry.Path}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	slog.Debug("processing file", "path", entry.Path)

	out, err := p.transformer.Generate(cache, entry.Path)
	if err != nil {
		result.Error = err
		return result
	}

	result.Output = out
	result.Duration = time.Since(startTime)
	slog.Debug("file processed",
		"path", entry.Path,
		"duration", result.Duration)

	return result
}

func (p *Processor) relativeSource(path string) (string, error) {
	if !transformer.IsSource(path) {
		return "", fmt.Errorf("%w: %s", transformer.ErrNotMarkdownFile, path)
	}

	absRoot, err := filepath.Abs(p.opts.SourceRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return filepath.ToSlash(rel), nil
}

func checkCollisions(results []ProcessResult) error {
	seen := make(map[string]string, len(results))
	for _, r := range results {
		if other, ok := seen[r.Output.OutPath]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputCollision, other, r.Path, r.Output.OutPath)
		}
		seen[r.Output.OutPath] = r.Path
	}
	return nil
}
