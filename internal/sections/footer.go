package sections

import (
	"context"

	. "github.com/patagonia-pages/bookpage/el"
	"github.com/patagonia-pages/bookpage/internal/language"
)

// SiteFooter renders the footer with the tagline, social links and
// contact email.
func SiteFooter(ctx context.Context, v View) *VNode {
	t := language.Use(ctx).T

	return Footer(Class("footer"), TestID("section-footer"),
		Div(Class("container footer-grid"),
			Div(Class("footer-brand"),
				H3(Class("footer-title"), TestID("text-footer-title"), Text(v.Site.Title)),
				P(Class("muted small"), Text(t.Footer.Tagline)),
			),
			Div(Class("footer-social"),
				Range(v.Site.Social, func(l SocialLink, _ int) *VNode {
					return A(
						Key(l.Name),
						Href(l.Href),
						Target("_blank"),
						Rel("noopener noreferrer"),
						Class("icon-button"),
						AriaLabel("Follow on "+l.Name),
						TestID(l.TestID),
						socialIcon(l.Name),
					)
				}),
			),
			Div(Class("footer-contact"),
				P(Class("muted small"), TestID("text-copyright"), Text(t.Footer.Copyright)),
				A(
					Href("mailto:"+v.Site.Email),
					Class("muted small link"),
					TestID("link-email"),
					Text(v.Site.Email),
				),
			),
		),
	)
}
