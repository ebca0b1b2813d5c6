package litpage

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/jwtly10/litpage/frontmatter"
	"github.com/jwtly10/litpage/nodes"
)

type Parser struct {
	gm goldmark.Markdown
}

// NewParser returns a parser with every extension the renderer understands:
// GFM tables, strikethrough, task lists and autolinks, footnotes, heading
// attributes, front matter and `{{{ }}}` calls.
func NewParser() *Parser {
	return &Parser{
		gm: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				frontmatter.Extension,
				nodes.CallExtension,
			),
			goldmark.WithParserOptions(
				parser.WithAttribute(),
			),
		),
	}
}

// ParseMarkdownDoc parses a markdown document into a Document
func (p *Parser) ParseMarkdownDoc(r io.Reader, md MetaData) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", md.Source, err)
	}

	return p.Parse(content, md), nil
}

// Parse parses content that is already in memory
func (p *Parser) Parse(content []byte, md MetaData) *Document {
	slog.Debug("parsing markdown document", "path", md.Source, "bytes", len(content))

	root := p.gm.Parser().Parse(text.NewReader(content))

	return &Document{
		Metadata: md,
		Source:   content,
		Root:     root,
	}
}
