// This file re-exports vdom element constructors for the el package.
package el

import "github.com/patagonia-pages/bookpage/pkg/vdom"

func IsVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}
func Html(args ...any) *VNode {
	return vdom.Html(args...)
}
func Head(args ...any) *VNode {
	return vdom.Head(args...)
}
func Body(args ...any) *VNode {
	return vdom.Body(args...)
}
func Title(args ...any) *VNode {
	return vdom.Title(args...)
}
func Meta(args ...any) *VNode {
	return vdom.Meta(args...)
}
func Link(args ...any) *VNode {
	return vdom.Link(args...)
}
func Script(args ...any) *VNode {
	return vdom.Script(args...)
}
func Header(args ...any) *VNode {
	return vdom.Header(args...)
}
func Footer(args ...any) *VNode {
	return vdom.Footer(args...)
}
func Main(args ...any) *VNode {
	return vdom.Main(args...)
}
func Nav(args ...any) *VNode {
	return vdom.Nav(args...)
}
func Section(args ...any) *VNode {
	return vdom.Section(args...)
}
func Article(args ...any) *VNode {
	return vdom.Article(args...)
}
func H1(args ...any) *VNode {
	return vdom.H1(args...)
}
func H2(args ...any) *VNode {
	return vdom.H2(args...)
}
func H3(args ...any) *VNode {
	return vdom.H3(args...)
}
func Div(args ...any) *VNode {
	return vdom.Div(args...)
}
func P(args ...any) *VNode {
	return vdom.P(args...)
}
func Span(args ...any) *VNode {
	return vdom.Span(args...)
}
func Blockquote(args ...any) *VNode {
	return vdom.Blockquote(args...)
}
func Ul(args ...any) *VNode {
	return vdom.Ul(args...)
}
func Li(args ...any) *VNode {
	return vdom.Li(args...)
}
func Hr(args ...any) *VNode {
	return vdom.Hr(args...)
}
func Figure(args ...any) *VNode {
	return vdom.Figure(args...)
}
func Br(args ...any) *VNode {
	return vdom.Br(args...)
}
func A(args ...any) *VNode {
	return vdom.A(args...)
}
func Strong(args ...any) *VNode {
	return vdom.Strong(args...)
}
func Em(args ...any) *VNode {
	return vdom.Em(args...)
}
func Small(args ...any) *VNode {
	return vdom.Small(args...)
}
func Img(args ...any) *VNode {
	return vdom.Img(args...)
}
func Picture(args ...any) *VNode {
	return vdom.Picture(args...)
}
func Source(args ...any) *VNode {
	return vdom.Source(args...)
}
func Svg(args ...any) *VNode {
	return vdom.Svg(args...)
}
func Path(args ...any) *VNode {
	return vdom.Path(args...)
}
func Form(args ...any) *VNode {
	return vdom.Form(args...)
}
func Input(args ...any) *VNode {
	return vdom.Input(args...)
}
func Button(args ...any) *VNode {
	return vdom.Button(args...)
}
func Label(args ...any) *VNode {
	return vdom.Label(args...)
}
func Noscript(args ...any) *VNode {
	return vdom.Noscript(args...)
}
