package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwtly10/litpage"
)

func doc(t *testing.T, p, content string) *litpage.Document {
	t.Helper()
	return litpage.NewParser().Parse([]byte(content), litpage.MetaData{Source: p})
}

func TestRegisterComputesMetadata(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		content     string
		pkg         string
		ident       string
		withSlug    string
		withoutSlug string
		route       string
		routable    bool
	}{
		{
			name: "root page", path: "About.md",
			pkg: "pages", ident: "About",
			withSlug: "/about", withoutSlug: "/", route: "/about", routable: true,
		},
		{
			name: "nested camel case", path: "blog/HelloWorld.md",
			pkg: "blog", ident: "HelloWorld",
			withSlug: "/blog/hello-world", withoutSlug: "/blog/", route: "/blog/hello-world", routable: true,
		},
		{
			name: "index", path: "docs/index.md",
			pkg: "docs", ident: "Index",
			withSlug: "/docs/", withoutSlug: "/docs/", route: "/docs/", routable: true,
		},
		{
			name: "root index", path: "index.md",
			pkg: "pages", ident: "Index",
			withSlug: "/", withoutSlug: "/", route: "/", routable: true,
		},
		{
			name: "fragment", path: "partials/_Sidebar.md",
			pkg: "partials", ident: "Sidebar",
			routable: false,
		},
		{
			name: "absolute override", path: "b.md", content: "---\nrouteOverride: /custom\n---\n",
			pkg: "pages", ident: "B",
			withSlug: "/b", withoutSlug: "/", route: "/custom", routable: true,
		},
		{
			name: "relative override", path: "blog/Post.md", content: "---\nrouteOverride: renamed\n---\n",
			pkg: "blog", ident: "Post",
			withSlug: "/blog/post", withoutSlug: "/blog/", route: "/blog/renamed", routable: true,
		},
		{
			name: "dynamic file", path: "posts/{slug}.md",
			pkg: "posts", ident: "Slug",
			withSlug: "/posts/{slug}", withoutSlug: "/posts/", route: "/posts/{slug}", routable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{})
			e, err := c.Register(doc(t, tt.path, tt.content))
			require.NoError(t, err)

			assert.Equal(t, tt.pkg, e.Package)
			assert.Equal(t, tt.ident, e.Name)
			assert.Equal(t, tt.routable, e.Routable())

			withSlug, ok := e.RouteWithSlug()
			assert.Equal(t, tt.routable, ok)
			assert.Equal(t, tt.withSlug, withSlug)

			withoutSlug, _ := e.RouteWithoutSlug()
			assert.Equal(t, tt.withoutSlug, withoutSlug)

			route, _ := e.Route()
			assert.Equal(t, tt.route, route)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := New(Options{})
	_, err := c.Register(doc(t, "a.md", ""))
	require.NoError(t, err)

	_, err = c.Register(doc(t, "a.md", ""))
	require.ErrorIs(t, err, ErrDuplicatePath)

	_, err = c.Register(doc(t, "b.md", "---\nrouteOverride: /a\n---\n"))
	require.ErrorIs(t, err, ErrDuplicateRoute)
	assert.Contains(t, err.Error(), "a.md")
	assert.Contains(t, err.Error(), "b.md")

	// fragments do not claim routes
	_, err = c.Register(doc(t, "_a.md", ""))
	require.NoError(t, err)
}

func TestRegisterRejectsInvalidOverride(t *testing.T) {
	c := New(Options{})
	_, err := c.Register(doc(t, "a.md", "---\nrouteOverride: /has space\n---\n"))
	require.ErrorIs(t, err, ErrInvalidRoute)
}

func TestResolveSibling(t *testing.T) {
	c := New(Options{})
	for _, p := range []string{"a.md", "b.md", "blog/post.md", "blog/drafts/idea.md"} {
		_, err := c.Register(doc(t, p, ""))
		require.NoError(t, err)
	}

	tests := []struct {
		from string
		ref  string
		want string
	}{
		{from: "a.md", ref: "./b.md", want: "b.md"},
		{from: "a.md", ref: "b.md", want: "b.md"},
		{from: "a.md", ref: "b.md#section", want: "b.md"},
		{from: "blog/post.md", ref: "../a.md", want: "a.md"},
		{from: "blog/post.md", ref: "drafts/./idea.md", want: "blog/drafts/idea.md"},
		{from: "blog/drafts/idea.md", ref: "/b.md", want: "b.md"},
		{from: "a.md", ref: "missing.md"},
		{from: "a.md", ref: "../outside.md"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.ref, func(t *testing.T) {
			e, ok := c.ResolveSibling(tt.from, tt.ref)
			if tt.want == "" {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Path)
		})
	}
}

func TestMustEntryPanicsForUnregisteredPath(t *testing.T) {
	c := New(Options{})
	require.Panics(t, func() { c.MustEntry("nope.md") })
}

func TestEntriesSorted(t *testing.T) {
	c := New(Options{})
	for _, p := range []string{"z.md", "a.md", "m/x.md"} {
		_, err := c.Register(doc(t, p, ""))
		require.NoError(t, err)
	}

	var paths []string
	for _, e := range c.Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"a.md", "m/x.md", "z.md"}, paths)
	assert.Equal(t, 3, c.Len())
}

func TestIsDynamic(t *testing.T) {
	assert.True(t, IsDynamic("/posts/{slug}"))
	assert.True(t, IsDynamic("/{lang}/about"))
	assert.False(t, IsDynamic("/posts/slug"))
	assert.False(t, IsDynamic("/"))
}
