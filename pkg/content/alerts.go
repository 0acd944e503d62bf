package content

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// alertTitles maps the recognized callout markers to display titles.
var alertTitles = map[string]string{
	"note":      "Note",
	"tip":       "Tip",
	"important": "Important",
	"warning":   "Warning",
	"caution":   "Caution",
}

// KindAlert is the AST node kind for alert callouts.
var KindAlert = ast.NewNodeKind("Alert")

// Alert is a blockquote promoted to a GitHub-style callout, produced by
// a leading [!NOTE]-style marker line.
type Alert struct {
	ast.BaseBlock
	AlertType string
}

// Kind returns the kind of this node.
func (n *Alert) Kind() ast.NodeKind {
	return KindAlert
}

// Dump dumps the node for debugging.
func (n *Alert) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Type": n.AlertType}, nil)
}

// AlertExtension rewrites marked blockquotes into alert callouts.
type AlertExtension struct{}

// Extend registers the alert transformer and renderer.
func (e *AlertExtension) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&alertTransformer{}, 500),
	))
	md.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&alertRenderer{}, 500),
	))
}

type alertTransformer struct{}

// Transform promotes every blockquote whose first paragraph line is an
// alert marker.
func (t *alertTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var quotes []*ast.Blockquote
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if quote, ok := node.(*ast.Blockquote); ok && entering {
			quotes = append(quotes, quote)
		}
		return ast.WalkContinue, nil
	})

	for _, quote := range quotes {
		promoteAlert(quote, source)
	}
}

func promoteAlert(quote *ast.Blockquote, source []byte) {
	paragraph, ok := quote.FirstChild().(*ast.Paragraph)
	if !ok {
		return
	}

	marker := firstLineText(paragraph, source)
	if !strings.HasPrefix(marker, "[!") || !strings.HasSuffix(marker, "]") {
		return
	}
	alertType := strings.ToLower(marker[2 : len(marker)-1])
	if _, known := alertTitles[alertType]; !known {
		return
	}

	stripMarker(paragraph, source, marker)
	if paragraph.ChildCount() == 0 {
		quote.RemoveChild(quote, paragraph)
	}

	alert := &Alert{AlertType: alertType}
	for child := quote.FirstChild(); child != nil; {
		next := child.NextSibling()
		alert.AppendChild(alert, child)
		child = next
	}

	parent := quote.Parent()
	parent.ReplaceChild(parent, quote, alert)
}

// firstLineText returns the trimmed text of a paragraph's first line.
func firstLineText(paragraph *ast.Paragraph, source []byte) string {
	if paragraph.Lines().Len() == 0 {
		return ""
	}
	segment := paragraph.Lines().At(0)
	return strings.TrimSpace(string(segment.Value(source)))
}

// stripMarker removes the inline nodes making up the marker line. The
// marker sits alone on the first line, so leading children concatenate
// to it exactly.
func stripMarker(paragraph *ast.Paragraph, source []byte, marker string) {
	consumed := 0
	for child := paragraph.FirstChild(); child != nil && consumed < len(marker); {
		next := child.NextSibling()
		textNode, ok := child.(*ast.Text)
		if !ok {
			return
		}
		consumed += len(textNode.Segment.Value(source))
		paragraph.RemoveChild(paragraph, child)
		child = next
	}
}

type alertRenderer struct{}

// RegisterFuncs registers the alert render function.
func (r *alertRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAlert, r.renderAlert)
}

func (r *alertRenderer) renderAlert(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	alert, ok := node.(*Alert)
	if !ok {
		return ast.WalkContinue, nil
	}

	if entering {
		_, _ = w.WriteString(`<div class="markdown-alert markdown-alert-` + alert.AlertType + "\">\n")
		_, _ = w.WriteString(`<p class="markdown-alert-title">` + alertTitles[alert.AlertType] + "</p>\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}
