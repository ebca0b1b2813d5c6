package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jwtly10/litpage/internal/transformer"
)

const watchDebounce = 150 * time.Millisecond

// Watch builds the site, then rebuilds it whenever a markdown file or
// directory under the source root changes, until ctx is done. Every build
// is a full one. onBuild receives the outcome of each build; a failed build
// does not stop watching.
func (p *Processor) Watch(ctx context.Context, onBuild func([]TranspileResult, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, p.opts.SourceRoot); err != nil {
		return err
	}

	onBuild(p.Build(ctx))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !p.relevant(watcher, ev) {
				continue
			}
			slog.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-timer.C:
			onBuild(p.Build(ctx))
		}
	}
}

// relevant reports whether ev can change the build, starting to watch
// directories as they appear.
func (p *Processor) relevant(watcher *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := watchTree(watcher, ev.Name); err != nil {
				slog.Warn("failed to watch directory", "path", ev.Name, "error", err)
			}
			return true
		}
	}

	// removed directories can only be recognised by their lack of extension
	return transformer.IsSource(ev.Name) || filepath.Base(ev.Name) == ".gitignore" ||
		(ev.Has(fsnotify.Remove|fsnotify.Rename) && filepath.Ext(ev.Name) == "")
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
