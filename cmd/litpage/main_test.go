package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtly10/litpage"
)

func newProject(t *testing.T) (configPath, dir string) {
	t.Helper()

	dir = t.TempDir()
	files := map[string]string{
		"litpage.yaml":                "project_package: example.com/site\nsource_dir: markdown\noutput_dir: pages\n",
		"markdown/Index.md":           "# Home\n\n[Post](blog/HelloWorld.md)\n",
		"markdown/blog/HelloWorld.md": "---\ntitle: Hello\n---\n\n# Hello\n",
		"markdown/docs/{slug}.md":     "# Doc\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return filepath.Join(dir, "litpage.yaml"), dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBuildCommand(t *testing.T) {
	cfg, dir := newProject(t)

	stdout, _, err := run(t, "build", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, stdout, "wrote Index.md -> index_md.go")
	assert.Contains(t, stdout, "wrote blog/HelloWorld.md -> blog/hello_world_md.go")
	assert.Contains(t, stdout, "Built 3 pages")

	code, err := os.ReadFile(filepath.Join(dir, "pages", "blog", "hello_world_md.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "//litpage:page /blog/hello-world")
}

func TestBuildCommandOutFlag(t *testing.T) {
	cfg, _ := newProject(t)
	out := filepath.Join(t.TempDir(), "gen")

	_, _, err := run(t, "build", "--config", cfg, "--out", out)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "index_md.go"))
	require.NoError(t, err)
}

func TestRenderCommand(t *testing.T) {
	cfg, dir := newProject(t)

	stdout, _, err := run(t, "render", "--config", cfg, filepath.Join(dir, "markdown", "Index.md"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "// Code generated by litpage from Index.md. DO NOT EDIT.")
	assert.Contains(t, stdout, `widgets.Link("/blog/hello-world", `)

	_, err = os.Stat(filepath.Join(dir, "pages"))
	assert.True(t, os.IsNotExist(err))
}

func TestRoutesCommand(t *testing.T) {
	cfg, _ := newProject(t)

	stdout, _, err := run(t, "routes", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, stdout, "ROUTE")
	assert.Regexp(t, `/blog/hello-world\s+blog/HelloWorld.md`, stdout)
	assert.Regexp(t, `/docs/\{slug\}\s+docs/\{slug\}.md\s+dynamic`, stdout)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "litpage "+litpage.Version+"\n", stdout)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "litpage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_dir: md\n"), 0644))

	_, _, err := run(t, "build", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project_package is required")
}
