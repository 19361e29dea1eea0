// Package render provides server-side rendering of vdom trees.
//
// The renderer converts VNode trees into HTML:
//
//   - HTML5 element rendering with void elements left unclosed
//   - Text and attribute escaping
//   - Boolean attributes (disabled, required, ...)
//   - Attributes in sorted order, so equal trees give equal bytes
//   - Full documents with DOCTYPE, head and body
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Body:        bodyNode,
//	    Title:       "Un Andrés Más",
//	    Lang:        "es",
//	    StyleSheets: []string{"/static/site.css"},
//	}
//	err := renderer.RenderPage(w, page)
//
// Raw HTML can be inserted using KindRaw nodes, but should only be used
// with trusted content.
package render
