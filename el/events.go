// This file re-exports vdom live event bindings for the el package.
package el

import "github.com/patagonia-pages/bookpage/pkg/vdom"

func OnClick(name string) Attr {
	return vdom.OnClick(name)
}
func OnInput(name string) Attr {
	return vdom.OnInput(name)
}
func OnSubmit(name string) Attr {
	return vdom.OnSubmit(name)
}
func Arg(key, value string) Attr {
	return vdom.Arg(key, value)
}
