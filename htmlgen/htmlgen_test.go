package htmlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func TestFragmentRendersNestedElements(t *testing.T) {
	g := New("ui")

	got, err := g.Fragment(`<div class="note" id="n1"><p>Hello <b>world</b></p></div>`, 1)
	require.NoError(t, err)

	want := lines(
		`ui.Tag("div", ui.Attrs("class=\"note\" id=\"n1\""), func() {`,
		"\t\tui.Tag(\"p\", func() {",
		"\t\t\tui.Text(`Hello `)",
		"\t\t\tui.Tag(\"b\", func() {",
		"\t\t\t\tui.Text(`world`)",
		"\t\t\t})",
		"\t\t})",
		"\t})",
	)
	assert.Equal(t, want, got)
}

func TestFragmentSingleTags(t *testing.T) {
	g := New("ui")

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "open tag", src: `<span class="x">`, want: `ui.Tag("span", ui.Attrs("class=\"x\""), func() {`},
		{name: "close tag", src: `</span>`, want: `})`},
		{name: "void tag", src: `<br>`, want: `ui.Tag("br")`},
		{name: "self closing", src: `<br/>`, want: `ui.Tag("br")`},
		{name: "comment", src: `<!-- hidden -->`, want: ``},
		{name: "bare attribute keeps order", src: `<input type="checkbox" disabled>`, want: `ui.Tag("input", ui.Attrs("type=\"checkbox\" disabled"))`},
		{name: "attribute value escaped", src: `<a title="say &quot;hi&quot;" href="/x">`, want: `ui.Tag("a", ui.Attrs("title=\"say &#34;hi&#34;\" href=\"/x\""), func() {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Fragment(tt.src, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTextStripsLeadingNewlineAndFormattingWhitespace(t *testing.T) {
	g := New("ui")

	got, err := g.Fragment("<div>\n  <pre>\nline one\n`quoted`</pre>\n</div>", 0)
	require.NoError(t, err)

	want := lines(
		`ui.Tag("div", func() {`,
		"\tui.Tag(\"pre\", func() {",
		"\t\tui.Text(`line one\n` + \"`\" + `quoted` + \"`\")",
		"\t})",
		"})",
	)
	assert.Equal(t, want, got)
}

func TestRenderKeepsElementOrder(t *testing.T) {
	g := New("h")
	nodes := []*html.Node{
		{Type: html.ElementNode, Data: "hr"},
		{Type: html.CommentNode, Data: "x"},
		{Type: html.ElementNode, Data: "br"},
	}

	assert.Equal(t, lines("\th.Tag(\"hr\")", "\th.Tag(\"br\")"), g.Render(nodes, 1))
}

func TestAttrs(t *testing.T) {
	got := Attrs([]html.Attribute{
		{Key: "b", Val: "2"},
		{Key: "a", Val: "1"},
		{Key: "hidden"},
	})
	assert.Equal(t, `"b=\"2\" a=\"1\" hidden"`, got)
}
