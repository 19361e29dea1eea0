// Package vdom provides the node tree the site's pages are built from.
//
// A VNode is an element, a text node, a fragment, or raw HTML. Elements
// are created with variadic factory functions that accept attributes,
// child nodes, and strings in any order:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P("Content"),
//	    OnClick("menu"),
//	)
//
// Nil arguments are ignored, which keeps conditional content inline:
//
//	Nav(
//	    If(open, Div(ID("menu"))),
//	)
//
// # Live Events
//
// The live client script reads data-live-* attributes to decide which
// DOM events to forward to the server. OnClick, OnInput and OnSubmit set
// them; Arg attaches extra event fields.
package vdom
