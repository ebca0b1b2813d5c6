package transformer

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwtly10/litpage/render"
)

type testDir struct {
	path string
	t    *testing.T
}

func newTestDir(t *testing.T) *testDir {
	t.Helper()

	return &testDir{
		path: t.TempDir(),
		t:    t,
	}
}

// createFile writes content to name, a slash separated path under the
// directory, creating parent directories as needed.
func (td *testDir) createFile(name, content string) string {
	td.t.Helper()

	path := filepath.Join(td.path, filepath.FromSlash(name))
	require.NoError(td.t, os.MkdirAll(filepath.Dir(path), 0755))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		td.t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// setupFiles creates every file of files, keyed by slash separated path.
func setupFiles(t *testing.T, files map[string]string, destDir *testDir) {
	t.Helper()

	for name, content := range files {
		destDir.createFile(name, content)
	}
}

func testOptions(src, out *testDir) TransformOptions {
	return TransformOptions{
		SourceRoot: src.path,
		OutputRoot: out.path,
		NoBackup:   true,
		Render: render.Options{
			ProjectPackage: "example.com/site",
			Enhanced:       true,
			DataHooks:      true,
			Logger:         slog.New(slog.NewTextHandler(os.Stderr, nil)),
		},
	}
}
