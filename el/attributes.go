// This file re-exports vdom attribute helpers for the el package.
package el

import "github.com/patagonia-pages/bookpage/pkg/vdom"

func Key(key any) Attr {
	return vdom.Key(key)
}
func AttrOf(key string, value any) Attr {
	return vdom.AttrOf(key, value)
}
func ID(id string) Attr {
	return vdom.ID(id)
}
func Class(classes ...string) Attr {
	return vdom.Class(classes...)
}
func ClassIf(cond bool, class string) Attr {
	return vdom.ClassIf(cond, class)
}
func StyleAttr(style string) Attr {
	return vdom.StyleAttr(style)
}
func Data(key, value string) Attr {
	return vdom.Data(key, value)
}
func TestID(id string) Attr {
	return vdom.TestID(id)
}
func Role(role string) Attr {
	return vdom.Role(role)
}
func AriaLabel(label string) Attr {
	return vdom.AriaLabel(label)
}
func AriaHidden(hidden bool) Attr {
	return vdom.AriaHidden(hidden)
}
func AriaExpanded(expanded bool) Attr {
	return vdom.AriaExpanded(expanded)
}
func AriaLive(mode string) Attr {
	return vdom.AriaLive(mode)
}
func AriaControls(id string) Attr {
	return vdom.AriaControls(id)
}
func Lang(lang string) Attr {
	return vdom.Lang(lang)
}
func Href(url string) Attr {
	return vdom.Href(url)
}
func Target(target string) Attr {
	return vdom.Target(target)
}
func Rel(rel string) Attr {
	return vdom.Rel(rel)
}
func Name(name string) Attr {
	return vdom.Name(name)
}
func Type(t string) Attr {
	return vdom.Type(t)
}
func Value(v string) Attr {
	return vdom.Value(v)
}
func Placeholder(text string) Attr {
	return vdom.Placeholder(text)
}
func Required() Attr {
	return vdom.Required()
}
func Disabled(disabled bool) Attr {
	return vdom.Disabled(disabled)
}
func Action(url string) Attr {
	return vdom.Action(url)
}
func Method(m string) Attr {
	return vdom.Method(m)
}
func Autocomplete(v string) Attr {
	return vdom.Autocomplete(v)
}
func Src(url string) Attr {
	return vdom.Src(url)
}
func SrcSet(set string) Attr {
	return vdom.SrcSet(set)
}
func Alt(text string) Attr {
	return vdom.Alt(text)
}
func Loading(mode string) Attr {
	return vdom.Loading(mode)
}
func Decoding(mode string) Attr {
	return vdom.Decoding(mode)
}
func Width(w int) Attr {
	return vdom.Width(w)
}
func Height(h int) Attr {
	return vdom.Height(h)
}
func ViewBox(box string) Attr {
	return vdom.ViewBox(box)
}
func Fill(fill string) Attr {
	return vdom.Fill(fill)
}
func D(d string) Attr {
	return vdom.D(d)
}
func Charset(cs string) Attr {
	return vdom.Charset(cs)
}
func Content(c string) Attr {
	return vdom.Content(c)
}
func Defer() Attr {
	return vdom.Defer()
}
