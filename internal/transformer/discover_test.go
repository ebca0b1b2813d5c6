package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSources(t *testing.T) {
	dir := newTestDir(t)
	setupFiles(t, map[string]string{
		"Index.md":             "# Home\n",
		"blog/HelloWorld.md":   "# Hello\n",
		"blog/_Sidebar.md":     "side\n",
		"blog/notes.txt":       "not markdown\n",
		"drafts/Wip.md":        "# Wip\n",
		"blog/old/Archived.md": "# Old\n",
		"README.MD":            "# Readme\n",
		".git/HEAD.md":         "never read\n",
		".gitignore":           "drafts/\n",
		"blog/.gitignore":      "old/\n",
	}, dir)

	files, err := FindSources(dir.path, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Index.md",
		"README.MD",
		"blog/HelloWorld.md",
		"blog/_Sidebar.md",
	}, files)
}

func TestFindSourcesLimits(t *testing.T) {
	t.Run("no sources", func(t *testing.T) {
		dir := newTestDir(t)
		dir.createFile("notes.txt", "x")

		_, err := FindSources(dir.path, 0)
		require.ErrorIs(t, err, ErrNoSources)
	})

	t.Run("too many sources", func(t *testing.T) {
		dir := newTestDir(t)
		setupFiles(t, map[string]string{
			"A.md": "a",
			"B.md": "b",
			"C.md": "c",
		}, dir)

		_, err := FindSources(dir.path, 2)
		require.ErrorIs(t, err, ErrTooManySources)

		files, err := FindSources(dir.path, 3)
		require.NoError(t, err)
		assert.Len(t, files, 3)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindSources("/nonexistent/litpage/root", 0)
		require.Error(t, err)
	})
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("a/B.md"))
	assert.True(t, IsSource("B.MD"))
	assert.False(t, IsSource("B.markdown"))
	assert.False(t, IsSource("md"))
}
