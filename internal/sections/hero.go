package sections

import (
	"context"

	. "github.com/patagonia-pages/bookpage/el"
	"github.com/patagonia-pages/bookpage/internal/language"
)

// Hero renders the title banner with the pre-order call to action.
func Hero(ctx context.Context, v View) *VNode {
	t := language.Use(ctx).T

	return Section(
		Class("hero"),
		TestID("section-hero"),
		Div(
			Class("hero-image"),
			StyleAttr("background-image: url('"+v.asset("images/hero.jpg")+"')"),
			AriaHidden(true),
		),
		Div(Class("hero-overlay")),

		Div(Class("hero-content"),
			H1(Class("hero-title"), TestID("text-book-title"), Text(t.Hero.Title)),
			P(Class("hero-subtitle"), TestID("text-book-subtitle"), Text(t.Hero.Subtitle)),
			A(
				Href("#preorder"),
				Class("button button-lg hero-button"),
				OnClick("navigate"),
				Arg("anchor", "preorder"),
				TestID("button-hero-preorder"),
				Text(t.Hero.PreorderButton),
			),
		),
	)
}
