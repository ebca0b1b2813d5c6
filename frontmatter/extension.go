package frontmatter

import (
	meta "github.com/yuin/goldmark-meta"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindFrontMatter is the node kind of a front-matter block.
var KindFrontMatter = ast.NewNodeKind("FrontMatter")

// Node carries the parsed front matter. It has no children and renders to
// nothing; it only holds side information.
type Node struct {
	ast.BaseBlock
	Values *Map
	// Err is set when the YAML block could not be parsed.
	Err error
}

// NewNode returns a front-matter node holding values.
func NewNode(values *Map) *Node {
	return &Node{Values: values}
}

func (n *Node) Kind() ast.NodeKind { return KindFrontMatter }

func (n *Node) Dump(source []byte, level int) {
	kv := map[string]string{"Keys": n.Values.String()}
	if n.Err != nil {
		kv["Err"] = n.Err.Error()
	}
	ast.DumpHelper(n, source, level, kv, nil)
}

type extension struct{}

// Extension parses a leading `---` YAML block and inserts a Node for it as
// the first child of the document.
var Extension goldmark.Extender = &extension{}

func (e *extension) Extend(m goldmark.Markdown) {
	meta.Meta.Extend(m)
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&transformer{}, 10),
		),
	)
}

type transformer struct{}

func (t *transformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	items, err := meta.TryGetItems(pc)
	if err == nil && items == nil {
		return
	}

	n := NewNode(FromMapSlice(items))
	n.Err = err
	if err != nil {
		// goldmark-meta leaves a block that failed to parse in the tree
		if block, ok := doc.FirstChild().(*ast.TextBlock); ok {
			doc.RemoveChild(doc, block)
		}
	}
	if first := doc.FirstChild(); first != nil {
		doc.InsertBefore(doc, first, n)
	} else {
		doc.AppendChild(doc, n)
	}
}
