package litpage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		mdPath string
		want   string
	}{
		{
			name:   "simple",
			mdPath: "about.md",
			want:   "about_md.go",
		},
		{
			name:   "camel_case",
			mdPath: "blog/HelloWorld.md",
			want:   "blog/hello_world_md.go",
		},
		{
			name:   "kebab_case",
			mdPath: "docs/getting-started.md",
			want:   "docs/getting_started_md.go",
		},
		{
			name:   "fragment_underscore_dropped",
			mdPath: "partials/_Sidebar.md",
			want:   "partials/sidebar_md.go",
		},
		{
			name:   "index",
			mdPath: "blog/index.md",
			want:   "blog/index_md.go",
		},
		{
			name:   "dynamic_segment",
			mdPath: "posts/{slug}.md",
			want:   "posts/slug_md.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveOutputPath(tt.mdPath))
		})
	}
}

func TestNaming(t *testing.T) {
	tests := []struct {
		in         string
		kebab      string
		snake      string
		identifier string
	}{
		{in: "HelloWorld", kebab: "hello-world", snake: "hello_world", identifier: "HelloWorld"},
		{in: "hello_world", kebab: "hello-world", snake: "hello_world", identifier: "HelloWorld"},
		{in: "APIDocs", kebab: "api-docs", snake: "api_docs", identifier: "APIDocs"},
		{in: "v2Intro", kebab: "v2-intro", snake: "v2_intro", identifier: "V2Intro"},
		{in: "2024-recap", kebab: "2024-recap", snake: "2024_recap", identifier: "Page2024Recap"},
		{in: "", kebab: "", snake: "", identifier: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.kebab, KebabCase(tt.in))
			require.Equal(t, tt.snake, SnakeCase(tt.in))
			require.Equal(t, tt.identifier, Identifier(tt.in))
		})
	}
}

func TestPackageName(t *testing.T) {
	require.Equal(t, "blog", PackageName("Blog"))
	require.Equal(t, "gettingstarted", PackageName("getting-started"))
	require.Equal(t, "p2024", PackageName("2024"))
	require.Equal(t, "slug", PackageName("{slug}"))
	require.Equal(t, "", PackageName(""))
}
