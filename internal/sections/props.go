package sections

import (
	"strings"

	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/nav"
	"github.com/patagonia-pages/bookpage/internal/waitlist"
	"github.com/patagonia-pages/bookpage/pkg/toast"
)

// SocialLink is a footer link to a social profile.
type SocialLink struct {
	Name   string `json:"name"`
	Href   string `json:"href"`
	TestID string `json:"testId"`
}

// Site holds the values of the page that do not change per language.
type Site struct {
	Title string
	Email string
	// AuthorName is used in image descriptions.
	AuthorName string
	Social     []SocialLink

	// PreorderForm renders the waitlist form. When false the call to action
	// is a link to PreorderURL.
	PreorderForm bool
	PreorderURL  string
}

// DefaultSocialLinks returns the footer links. Profiles are not public
// yet, so every link points at "#".
func DefaultSocialLinks() []SocialLink {
	return []SocialLink{
		{Name: "Instagram", Href: "#", TestID: "link-instagram"},
		{Name: "Facebook", Href: "#", TestID: "link-facebook"},
		{Name: "X", Href: "#", TestID: "link-twitter"},
	}
}

// DefaultSite returns the site values of the book.
func DefaultSite() Site {
	return Site{
		Title:        "Un Andrés Más",
		Email:        "hello@unandreasmas.com",
		AuthorName:   "Andrés David Serrano",
		Social:       DefaultSocialLinks(),
		PreorderForm: true,
	}
}

// Assets maps logical asset names to public URLs.
type Assets interface {
	Path(name string) string
}

// View is everything a page render needs besides the language.
type View struct {
	Site   Site
	Assets Assets

	// Base is the path prefix of the site, "/" when served at the root.
	Base string

	// Static renders the page for static hosting: the language toggle
	// links to the page of the other language and the carousel shows
	// every slide without controls.
	Static bool

	Nav      nav.Snapshot
	Form     waitlist.Snapshot
	Toasts   []toast.Record
	Carousel int
}

// URL joins the site base and p.
func (v View) URL(path string) string {
	base := v.Base
	if base == "" {
		base = "/"
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// LanguagePath returns the path of the static page of lang, relative to
// the base: "" for the default language, "es/" for Spanish.
func LanguagePath(lang i18n.Language) string {
	if lang == i18n.DefaultLanguage {
		return ""
	}
	return lang.String() + "/"
}

// asset resolves an asset name, falling back to the static path.
func (v View) asset(name string) string {
	if v.Assets == nil {
		return v.URL("static/" + name)
	}
	return v.Assets.Path(name)
}
