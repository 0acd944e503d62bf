package content

import (
	"bytes"
	"sync"

	figure "github.com/mangoumbrella/goldmark-figure"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// markdownBufferPool reuses render buffers across posts.
var markdownBufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 32*1024))
	},
}

// MarkdownRender is the result of converting a markdown body.
type MarkdownRender struct {
	HTML    string
	Excerpt string
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		// GFM: tables, autolinks, task lists, strikethrough
		extension.GFM,
		extension.Footnote,
		emoji.Emoji,
		figure.Figure,
		&AlertExtension{},
	),
	goldmark.WithRendererOptions(
		// Raw HTML in markdown passes through
		html.WithUnsafe(),
	),
)

// RenderMarkdown converts a markdown body to HTML and derives its
// excerpt from the first paragraph (or the whole document), truncated
// at 280 characters.
func RenderMarkdown(source string) (MarkdownRender, error) {
	src := []byte(source)

	doc := markdown.Parser().Parse(text.NewReader(src))
	excerpt := extractExcerpt(doc, src)

	buf, ok := markdownBufferPool.Get().(*bytes.Buffer)
	if !ok {
		buf = new(bytes.Buffer)
	}
	buf.Reset()
	defer markdownBufferPool.Put(buf)

	if err := markdown.Renderer().Render(buf, src, doc); err != nil {
		return MarkdownRender{}, err
	}

	return MarkdownRender{HTML: buf.String(), Excerpt: excerpt}, nil
}

func extractExcerpt(doc ast.Node, source []byte) string {
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if node.Kind() == ast.KindParagraph {
			return truncateExcerpt(collectText(node, source), excerptLimit)
		}
	}
	return truncateExcerpt(collectText(doc, source), excerptLimit)
}

// collectText gathers the inline text of a node, mapping soft and hard
// breaks to single spaces.
func collectText(node ast.Node, source []byte) string {
	var b bytes.Buffer
	collect(node, source, &b)
	return string(bytes.TrimSpace(b.Bytes()))
}

func collect(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteByte(' ')
		}
	case *ast.CodeSpan:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
	case *ast.FencedCodeBlock:
		writeLines(n, source, buf)
		buf.WriteByte(' ')
	case *ast.CodeBlock:
		writeLines(n, source, buf)
		buf.WriteByte(' ')
	default:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			collect(child, source, buf)
		}
	}
}

func writeLines(node ast.Node, source []byte, buf *bytes.Buffer) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
}
