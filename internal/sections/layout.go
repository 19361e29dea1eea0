package sections

import (
	. "github.com/patagonia-pages/bookpage/el"
)

// sectionOpts styles a content section.
type sectionOpts struct {
	id       string
	testID   string
	maxWidth string // "narrow", "medium" or "wide"
	card     bool   // card background instead of page background
	centered bool
}

// section wraps children in a padded, width-limited page section.
func section(o sectionOpts, children ...any) *VNode {
	bg := "bg-page"
	if o.card {
		bg = "bg-card"
	}
	width := o.maxWidth
	if width == "" {
		width = "wide"
	}

	inner := append([]any{
		Class("container", "container-"+width, classWhen(o.centered, "text-center")),
	}, children...)

	return Section(
		ID(o.id),
		Class("section", bg),
		TestID(o.testID),
		Div(inner...),
	)
}

// sectionHeading renders a section title.
func sectionHeading(testID, text string) *VNode {
	return H2(Class("section-heading"), TestID(testID), Text(text))
}
