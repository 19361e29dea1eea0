package vdom

import (
	"fmt"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key sets the identity of a node among its siblings.
func Key(key any) Attr { return attr("key", fmt.Sprint(key)) }

// AttrOf sets an arbitrary attribute.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
// Empty class names are skipped.
func Class(classes ...string) Attr {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return attr("class", strings.Join(parts, " "))
}

// ClassIf adds class when cond holds.
func ClassIf(cond bool, class string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(class)
}

// StyleAttr sets the style attribute (named to avoid conflict with a Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TestID sets the data-testid hook used by tests and browser automation.
func TestID(id string) Attr { return Data("testid", id) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", fmt.Sprint(hidden)) }

// AriaExpanded sets the aria-expanded attribute.
func AriaExpanded(expanded bool) Attr { return attr("aria-expanded", fmt.Sprint(expanded)) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// AriaControls sets the aria-controls attribute.
func AriaControls(id string) Attr { return attr("aria-controls", id) }

// Language attributes

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Required marks a form control as required.
func Required() Attr { return attr("required", true) }

// Disabled sets the disabled attribute when disabled is true.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Action sets the form action.
func Action(url string) Attr { return attr("action", url) }

// Method sets the form method.
func Method(m string) Attr { return attr("method", m) }

// Autocomplete sets the autocomplete attribute.
func Autocomplete(v string) Attr { return attr("autocomplete", v) }

// Media attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// SrcSet sets the srcset attribute.
func SrcSet(set string) Attr { return attr("srcset", set) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Loading sets the loading attribute ("lazy" or "eager").
func Loading(mode string) Attr { return attr("loading", mode) }

// Decoding sets the decoding attribute.
func Decoding(mode string) Attr { return attr("decoding", mode) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// ViewBox sets the SVG viewBox attribute.
func ViewBox(box string) Attr { return attr("viewBox", box) }

// Fill sets the SVG fill attribute.
func Fill(fill string) Attr { return attr("fill", fill) }

// D sets the SVG path data.
func D(d string) Attr { return attr("d", d) }

// Document metadata attributes

// Charset sets the charset attribute.
func Charset(cs string) Attr { return attr("charset", cs) }

// Content sets the content attribute of a meta element.
func Content(c string) Attr { return attr("content", c) }

// Defer sets the defer attribute of a script element.
func Defer() Attr { return attr("defer", true) }
