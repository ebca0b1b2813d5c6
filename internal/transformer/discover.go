package transformer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/jwtly10/litpage"
)

var (
	ErrNoSources       = errors.New("no markdown sources found")
	ErrTooManySources  = errors.New("max files limit reached")
	ErrNotMarkdownFile = errors.New("not a markdown file")
)

// FindSources walks the tree under root and returns the markdown files in
// it, relative to root and slash separated, in lexical order.
//
// .gitignore files anywhere in the tree (and .git/info/exclude) are honoured,
// and .git itself is never entered. At most maxFiles files are accepted;
// zero means no limit.
func FindSources(root string, maxFiles int) ([]string, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, fmt.Errorf("reading ignore files: %w", err)
	}
	patterns = append(patterns, gitignore.ParsePattern(".git/", nil))
	matcher := gitignore.NewMatcher(patterns)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matcher.Match(strings.Split(rel, "/"), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !IsSource(rel) {
			return nil
		}
		if maxFiles > 0 && len(files) >= maxFiles {
			return fmt.Errorf("%w (%d)", ErrTooManySources, maxFiles)
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoSources, root)
	}

	return files, nil
}

// IsSource reports whether path names a markdown source.
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), litpage.SourceExt)
}
