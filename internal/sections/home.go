package sections

import (
	"context"

	. "github.com/patagonia-pages/bookpage/el"
)

// RootID is the id of the element the live client replaces on re-render.
const RootID = "app"

// Home composes the landing page.
func Home(ctx context.Context, v View) *VNode {
	return Div(
		ID(RootID),
		Class("page"),
		Navigation(ctx, v),
		Main(
			Hero(ctx, v),
			AboutBook(ctx, v),
			AboutAuthor(ctx, v),
			PreOrder(ctx, v),
		),
		SiteFooter(ctx, v),
		Toaster(v),
	)
}
