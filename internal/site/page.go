package site

import (
	"context"

	"github.com/patagonia-pages/bookpage/internal/config"
	"github.com/patagonia-pages/bookpage/internal/sections"
	"github.com/patagonia-pages/bookpage/internal/visitor"
	"github.com/patagonia-pages/bookpage/pkg/assets"
	"github.com/patagonia-pages/bookpage/pkg/render"
	"github.com/patagonia-pages/bookpage/pkg/vdom"
)

// SiteValues converts the site configuration to render values.
func SiteValues(cfg *config.Config) sections.Site {
	social := make([]sections.SocialLink, 0, len(cfg.Social))
	for _, l := range cfg.Social {
		social = append(social, sections.SocialLink{Name: l.Name, Href: l.Href, TestID: l.TestID})
	}
	return sections.Site{
		Title:        cfg.Site.Title,
		Email:        cfg.Site.Email,
		AuthorName:   cfg.Site.AuthorName,
		Social:       social,
		PreorderForm: cfg.Site.PreorderForm,
		PreorderURL:  cfg.Site.PreorderURL,
	}
}

// PageOptions controls the document around the page root.
type PageOptions struct {
	Assets assets.Resolver
	Base   string

	// Live adds the live client and the session id. Static exports leave
	// it off.
	Live bool
}

// Document returns the full page of sess.
func Document(ctx context.Context, sess *visitor.Session, opts PageOptions) render.PageData {
	t := sess.Language.Catalog()
	page := render.PageData{
		Body:  sess.Page(ctx),
		Title: sess.View().Site.Title,
		Lang:  sess.Lang(),
		Meta: []render.MetaTag{
			{Name: "description", Content: t.Hero.Subtitle},
			{Property: "og:title", Content: t.Hero.Title},
			{Property: "og:description", Content: t.Hero.Subtitle},
		},
		Links: []render.LinkTag{
			{Rel: "icon", Href: opts.Assets.Path("favicon.svg"), Type: "image/svg+xml"},
		},
		StyleSheets: []string{opts.Assets.Path("css/site.css")},
		BodyAttrs:   []vdom.Attr{vdom.Data("base", opts.Base)},
	}
	if opts.Live {
		page.Scripts = []render.ScriptTag{{Src: opts.Assets.Path("js/live.js"), Defer: true}}
		page.BodyAttrs = append(page.BodyAttrs, vdom.Data("session", sess.ID))
	}
	return page
}
