// Package el provides the UI DSL used by the page sections.
//
// It re-exports the element constructors, attribute helpers, live event
// bindings, and node helpers of github.com/patagonia-pages/bookpage/pkg/vdom
// so that section code can dot-import a single package:
//
//	import . "github.com/patagonia-pages/bookpage/el"
//
//	Section(ID("about"), TestID("section-about-book"),
//	    H2(Class("heading"), Text(t.AboutBook.Heading)),
//	)
package el
