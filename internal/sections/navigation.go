package sections

import (
	"context"

	. "github.com/patagonia-pages/bookpage/el"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/language"
	"github.com/patagonia-pages/bookpage/internal/nav"
)

// Navigation renders the fixed top bar: the site title linking to the
// top, the section links, the language toggle and the mobile menu.
func Navigation(ctx context.Context, v View) *VNode {
	lang := language.Use(ctx)
	variant := v.Nav.Variant()

	textStyle := "nav-link nav-link-light"
	logoStyle := "nav-logo nav-logo-light"
	barStyle := "navigation"
	if v.Nav.Scrolled {
		textStyle = "nav-link nav-link-dark"
		logoStyle = "nav-logo nav-logo-dark"
		barStyle = "navigation navigation-scrolled"
	}

	return Nav(
		Class(barStyle),
		TestID("navigation"),
		Div(Class("container"),
			Div(Class("nav-bar"),
				A(
					Href("#"),
					Class(logoStyle),
					OnClick("top"),
					TestID("link-logo"),
					Text(v.Site.Title),
				),

				Div(Class("nav-desktop"),
					Range(nav.Anchors(), func(a nav.Anchor, _ int) *VNode {
						return A(
							Key(a.ID),
							Href("#"+a.ID),
							Class(textStyle),
							OnClick("navigate"),
							Arg("anchor", a.ID),
							TestID("link-nav-"+a.ID),
							Text(lang.T.NavLabel(a.Key)),
						)
					}),
					LanguageToggle(ctx, v, variant),
				),

				Div(Class("nav-mobile"),
					LanguageToggle(ctx, v, variant),
					Button(
						Type("button"),
						Class("icon-button", classWhen(!v.Nav.Scrolled, "icon-button-light")),
						OnClick("menu"),
						AriaLabel("Toggle menu"),
						AriaExpanded(v.Nav.MenuOpen),
						AriaControls("mobile-menu"),
						TestID("button-mobile-menu"),
						IfElse(v.Nav.MenuOpen, closeIcon(), menuIcon()),
					),
				),
			),

			If(v.Nav.MenuOpen, Div(
				ID("mobile-menu"),
				Class("mobile-menu"),
				TestID("mobile-menu"),
				Div(Class("mobile-menu-links"),
					Range(nav.Anchors(), func(a nav.Anchor, _ int) *VNode {
						return A(
							Key(a.ID),
							Href("#"+a.ID),
							Class("mobile-link"),
							OnClick("navigate"),
							Arg("anchor", a.ID),
							TestID("link-mobile-"+a.ID),
							Text(lang.T.NavLabel(a.Key)),
						)
					}),
				),
			)),
		),
	)
}

// LanguageToggle renders the button switching to the other language. It
// shows the code of the language it switches to. Without scripting it
// submits a form to the language route; static pages link instead.
func LanguageToggle(ctx context.Context, v View, variant nav.Variant) *VNode {
	lang := language.Use(ctx)
	other := lang.Language.Other()
	class := Class("language-toggle", classWhen(variant == nav.VariantLight, "language-toggle-light"))

	if v.Static {
		return A(
			Href(v.URL(LanguagePath(other))),
			AttrOf("hreflang", other.String()),
			class,
			AriaLabel("Switch to "+other.Name()),
			TestID("button-language-toggle"),
			Text(toggleLabel(other)),
		)
	}

	return Form(
		Method("post"),
		Action(v.URL("language")),
		Class("language-toggle-form"),
		Input(Type("hidden"), Name("lang"), Value(other.String())),
		Button(
			Type("submit"),
			class,
			OnClick("toggle_lang"),
			AriaLabel("Switch to "+other.Name()),
			TestID("button-language-toggle"),
			Text(toggleLabel(other)),
		),
	)
}

func toggleLabel(l i18n.Language) string {
	switch l {
	case i18n.Spanish:
		return "ES"
	default:
		return "EN"
	}
}

// classWhen returns class when cond holds and "" otherwise, for use
// inside Class.
func classWhen(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}
