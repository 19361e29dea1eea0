package sections

import (
	"context"
	"strings"

	. "github.com/patagonia-pages/bookpage/el"
	"github.com/patagonia-pages/bookpage/internal/language"
)

// AboutAuthor renders the author photo, biography and attribution line.
func AboutAuthor(ctx context.Context, v View) *VNode {
	t := language.Use(ctx).T

	return section(sectionOpts{id: "author", testID: "section-about-author", maxWidth: "medium", card: true, centered: true},
		H2(Class("section-heading", "mb-8"), TestID("text-author-heading"), Text(t.AboutAuthor.Heading)),

		Div(Class("avatar"),
			Picture(
				Source(SrcSet(v.asset("images/author.webp")), Type("image/webp")),
				Img(
					Src(v.asset("images/author.jpg")),
					Alt(v.Site.AuthorName+" - Author"),
					Class("avatar-image"),
					Loading("lazy"),
					TestID("img-author-photo"),
				),
			),
			Span(Class("avatar-fallback"), AriaHidden(true), Text(initials(v.Site.AuthorName))),
		),

		Div(Class("prose"),
			P(TestID("text-author-bio-1"), Text(t.AboutAuthor.Bio1)),
			Attribution(t.AboutAuthor.Attribution),
		),
	)
}

// Attribution renders "Label: Name" with the name emphasized. Text
// without a colon is rendered as is.
func Attribution(text string) *VNode {
	label, name, ok := strings.Cut(text, ":")
	if !ok {
		return P(Class("attribution"), TestID("text-author-attribution"), Text(text))
	}
	return P(Class("attribution"), TestID("text-author-attribution"),
		Text(label+": "),
		Span(Class("attribution-name"), Text(strings.TrimSpace(name))),
	)
}

// initials returns the first letters of the first two words of name.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		for _, r := range w {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}
