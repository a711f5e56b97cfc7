package sink

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mind-engage/mindengage-qformat/internal/render"
)

const htmlStyle = `
body { font-family: "Open Sans", Helvetica, Arial, sans-serif; font-size: 11pt; margin: 2cm; }
.questions, .col { white-space: pre-wrap; }
.right { float: right; }
.columns { display: flex; }
.col { flex: 1; }
`

// htmlSink builds a static page as a node tree and serializes it on Finalize,
// so every text run is escaped by the renderer.
type htmlSink struct {
	doc    *html.Node
	main   *html.Node
	strong *html.Node
}

func NewHTML(o Options) DocumentSink {
	title := o.Title
	if title == "" {
		title = "Questions"
	}
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := elem(atom.Html)
	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	t := elem(atom.Title)
	t.AppendChild(textNode(title))
	head.AppendChild(t)
	style := elem(atom.Style)
	style.AppendChild(textNode(htmlStyle))
	head.AppendChild(style)

	body := elem(atom.Body)
	main := elem(atom.Div, class("questions"))
	body.AppendChild(main)
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)

	return &htmlSink{doc: doc, main: main}
}

func (h *htmlSink) parent() *html.Node {
	if h.strong != nil {
		return h.strong
	}
	return h.main
}

func (h *htmlSink) WriteText(content string, align render.Align, newline bool) error {
	p := h.parent()
	if align == render.AlignRight {
		span := elem(atom.Span, class("right"))
		span.AppendChild(textNode(content))
		p.AppendChild(span)
	} else if content != "" {
		p.AppendChild(textNode(content))
	}
	if newline {
		p.AppendChild(textNode("\n"))
	}
	return nil
}

func (h *htmlSink) WriteTwoColumn(left, right string) error {
	h.strong = nil
	cols := elem(atom.Div, class("columns"))
	for _, s := range []string{left, right} {
		c := elem(atom.Div, class("col"))
		c.AppendChild(textNode(s))
		cols.AppendChild(c)
	}
	h.main.AppendChild(cols)
	return nil
}

func (h *htmlSink) SetFont(w render.Weight) error {
	switch w {
	case render.Bold:
		if h.strong == nil {
			h.strong = elem(atom.Strong)
			h.main.AppendChild(h.strong)
		}
	default:
		h.strong = nil
	}
	return nil
}

func (h *htmlSink) WriteComment(text string) error {
	h.main.AppendChild(&html.Node{Type: html.CommentNode, Data: " " + strings.ReplaceAll(text, "--", "- -") + " "})
	return nil
}

func (h *htmlSink) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, h.doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func elem(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func class(v string) html.Attribute { return html.Attribute{Key: "class", Val: v} }

func textNode(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }
