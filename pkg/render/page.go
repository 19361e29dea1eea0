package render

import (
	"io"

	"github.com/patagonia-pages/bookpage/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// Links contains link tags other than stylesheets (icons, preloads).
	Links []LinkTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Scripts are rendered at the end of the body.
	Scripts []ScriptTag

	// BodyAttrs are set on the body element.
	BodyAttrs []vdom.Attr
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Property string // OpenGraph
	Content  string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel      string
	Href     string
	Type     string
	Hreflang string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src   string
	Defer bool
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	sw := &stickyWriter{w: w}
	sw.WriteString("<!DOCTYPE html>\n")
	if err := r.renderNode(sw, r.pageTree(page, lang), 0); err != nil {
		return err
	}
	sw.WriteString("\n")
	return sw.err
}

// pageTree builds the document around the page body.
func (r *Renderer) pageTree(page PageData, lang string) *vdom.VNode {
	head := []any{
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
	}
	if page.Title != "" {
		head = append(head, vdom.Title(page.Title))
	}
	for _, m := range page.Meta {
		head = append(head, vdom.Meta(
			vdom.AttrIf(m.Name != "", vdom.Name(m.Name)),
			vdom.AttrIf(m.Property != "", vdom.AttrOf("property", m.Property)),
			vdom.Content(m.Content),
		))
	}
	for _, l := range page.Links {
		head = append(head, vdom.Link(
			vdom.Rel(l.Rel),
			vdom.Href(l.Href),
			vdom.AttrIf(l.Type != "", vdom.Type(l.Type)),
			vdom.AttrIf(l.Hreflang != "", vdom.AttrOf("hreflang", l.Hreflang)),
		))
	}
	for _, href := range page.StyleSheets {
		head = append(head, vdom.Link(vdom.Rel("stylesheet"), vdom.Href(href)))
	}

	body := make([]any, 0, len(page.BodyAttrs)+1+len(page.Scripts))
	for _, a := range page.BodyAttrs {
		body = append(body, a)
	}
	body = append(body, page.Body)
	for _, s := range page.Scripts {
		body = append(body, vdom.Script(vdom.Src(s.Src), vdom.AttrIf(s.Defer, vdom.Defer())))
	}

	return vdom.Html(vdom.Lang(lang), vdom.Head(head...), vdom.Body(body...))
}
