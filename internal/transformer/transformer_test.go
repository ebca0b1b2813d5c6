package transformer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtly10/litpage/site"
)

var siteFiles = map[string]string{
	"Index.md": "# Home\n\nRead [the post](blog/HelloWorld.md).\n",
	"blog/HelloWorld.md": `---
title: Hello
---

# Hello

Back [home](../Index.md).
`,
	"blog/_Sidebar.md": "Side notes\n",
}

func TestTransformerGenerate(t *testing.T) {
	src := newTestDir(t)
	out := newTestDir(t)
	setupFiles(t, siteFiles, src)

	tr := NewTransformer(testOptions(src, out))

	sources, err := tr.Sources(nil)
	require.NoError(t, err)
	require.Len(t, sources, 3)

	cache, err := tr.LoadSite(sources)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.Len())

	tests := []struct {
		source  string
		outPath string
		want    []string
	}{
		{
			source:  "Index.md",
			outPath: "index_md.go",
			want:    []string{"package pages", "//litpage:page /\n", "func IndexPage() {", `widgets.Link("/blog/hello-world", `},
		},
		{
			source:  "blog/HelloWorld.md",
			outPath: "blog/hello_world_md.go",
			want:    []string{"package blog", "//litpage:page /blog/hello-world\n", `d.Add("title", "Hello")`, `widgets.Link("/", `},
		},
		{
			source:  "blog/_Sidebar.md",
			outPath: "blog/sidebar_md.go",
			want:    []string{"package blog", "func Sidebar() {"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := tr.Generate(cache, tt.source)
			require.NoError(t, err)

			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, filepath.Join(out.path, filepath.FromSlash(tt.outPath)), got.OutPath)
			for _, w := range tt.want {
				assert.Contains(t, got.Code, w)
			}
		})
	}

	t.Run("fragment has no directives", func(t *testing.T) {
		got, err := tr.Generate(cache, "blog/_Sidebar.md")
		require.NoError(t, err)
		assert.NotContains(t, got.Code, "//litpage:")
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := tr.Generate(cache, "Missing.md")
		require.Error(t, err)
	})
}

func TestTransformerOverlay(t *testing.T) {
	src := newTestDir(t)
	out := newTestDir(t)
	setupFiles(t, siteFiles, src)

	tr := NewTransformer(testOptions(src, out))

	sources, err := tr.Sources(map[string][]byte{
		"Index.md": []byte("---\nfunName: Landing\n---\n\n# Unsaved\n"),
	})
	require.NoError(t, err)

	cache, err := tr.LoadSite(sources)
	require.NoError(t, err)

	got, err := tr.Generate(cache, "Index.md")
	require.NoError(t, err)
	assert.Contains(t, got.Code, "func Landing() {")
	assert.Contains(t, got.Code, `id=\"unsaved\"`)
}

func TestLoadSiteReportsEveryConflict(t *testing.T) {
	src := newTestDir(t)
	out := newTestDir(t)
	setupFiles(t, map[string]string{
		"A.md": "---\nrouteOverride: /same\n---\n",
		"B.md": "---\nrouteOverride: /same\n---\n",
		"C.md": "---\nrouteOverride: /{bad\n---\n",
	}, src)

	tr := NewTransformer(testOptions(src, out))
	sources, err := tr.Sources(nil)
	require.NoError(t, err)

	_, err = tr.LoadSite(sources)
	require.Error(t, err)
	assert.ErrorIs(t, err, site.ErrDuplicateRoute)
	assert.ErrorIs(t, err, site.ErrInvalidRoute)
}

func TestTransformerWrite(t *testing.T) {
	tests := []struct {
		name       string
		noBackup   bool
		existing   bool
		wantBackup bool
	}{
		{name: "new file", noBackup: false, existing: false, wantBackup: false},
		{name: "existing file with backup", noBackup: false, existing: true, wantBackup: true},
		{name: "existing file without backup", noBackup: true, existing: true, wantBackup: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestDir(t)
			out := newTestDir(t)

			opts := testOptions(src, out)
			opts.NoBackup = tt.noBackup
			tr := NewTransformer(opts)

			target := tr.OutputPath("blog/HelloWorld.md")
			if tt.existing {
				out.createFile("blog/hello_world_md.go", "old")
			}

			require.NoError(t, tr.Write(Output{Source: "blog/HelloWorld.md", OutPath: target, Code: "package blog\n"}))

			content, err := os.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, "package blog\n", string(content))

			entries, err := os.ReadDir(filepath.Dir(target))
			require.NoError(t, err)

			var backups []string
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".bak") {
					backups = append(backups, e.Name())
				}
			}
			if tt.wantBackup {
				require.Len(t, backups, 1)
				old, err := os.ReadFile(filepath.Join(filepath.Dir(target), backups[0]))
				require.NoError(t, err)
				assert.Equal(t, "old", string(old))
			} else {
				assert.Empty(t, backups)
			}
		})
	}
}

func TestPretty(t *testing.T) {
	opts := TransformOptions{SourceRoot: "md", OutputRoot: "pages"}
	opts.Render.Enhanced = true
	assert.Equal(t, "source=md output=pages backup=yes enhanced=yes data_hooks=no", opts.Pretty())
}
