package i18n

import (
	"embed"
	"fmt"
	"path"
	"reflect"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/patagonia-pages/bookpage/internal/errors"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Catalog is the full set of user-facing strings for one language.
// The msg tags name the message IDs in the locale files.
type Catalog struct {
	Nav         NavStrings         `msg:"nav"`
	Hero        HeroStrings        `msg:"hero"`
	AboutBook   AboutBookStrings   `msg:"aboutBook"`
	AboutAuthor AboutAuthorStrings `msg:"aboutAuthor"`
	Preorder    PreorderStrings    `msg:"preorder"`
	Footer      FooterStrings      `msg:"footer"`
}

type NavStrings struct {
	AboutBook string `msg:"aboutBook"`
	Author    string `msg:"author"`
	Preorder  string `msg:"preorder"`
}

type HeroStrings struct {
	Title          string `msg:"title"`
	Subtitle       string `msg:"subtitle"`
	PreorderButton string `msg:"preorderButton"`
}

type AboutBookStrings struct {
	Heading       string `msg:"heading"`
	Paragraph1    string `msg:"paragraph1"`
	Paragraph2    string `msg:"paragraph2"`
	StatMiles     string `msg:"statMiles"`
	StatCountries string `msg:"statCountries"`
	StatJourney   string `msg:"statJourney"`
	Available     string `msg:"available"`
	PreviousSlide string `msg:"previousSlide"`
	NextSlide     string `msg:"nextSlide"`
}

type AboutAuthorStrings struct {
	Heading     string `msg:"heading"`
	Bio1        string `msg:"bio1"`
	Attribution string `msg:"attribution"`
}

type PreorderStrings struct {
	Heading            string `msg:"heading"`
	Description        string `msg:"description"`
	EmailPlaceholder   string `msg:"emailPlaceholder"`
	JoinButton         string `msg:"joinButton"`
	JoiningButton      string `msg:"joiningButton"`
	WaitlistCount      string `msg:"waitlistCount"`
	SuccessTitle       string `msg:"successTitle"`
	SuccessDescription string `msg:"successDescription"`
	ExternalButton     string `msg:"externalButton"`
}

type FooterStrings struct {
	Tagline   string `msg:"tagline"`
	Copyright string `msg:"copyright"`
}

// NavLabel returns the navigation label for a section anchor key
// ("aboutBook", "author", "preorder").
func (c *Catalog) NavLabel(key string) string {
	switch key {
	case "aboutBook":
		return c.Nav.AboutBook
	case "author":
		return c.Nav.Author
	case "preorder":
		return c.Nav.Preorder
	}
	return key
}

// Table maps every supported language to its catalog.
type Table struct {
	catalogs map[Language]*Catalog
}

// Catalog returns the catalog for lang, falling back to the default language.
func (t *Table) Catalog(lang Language) *Catalog {
	if c, ok := t.catalogs[lang]; ok {
		return c
	}
	return t.catalogs[DefaultLanguage]
}

// Languages returns the languages present in the table.
func (t *Table) Languages() []Language {
	out := make([]Language, 0, len(t.catalogs))
	for _, l := range Supported() {
		if _, ok := t.catalogs[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// NewTable builds a table from already materialized catalogs.
func NewTable(catalogs map[Language]*Catalog) *Table {
	cp := make(map[Language]*Catalog, len(catalogs))
	for k, v := range catalogs {
		cp[k] = v
	}
	return &Table{catalogs: cp}
}

// localeFile returns the embedded file name for a language.
func localeFile(lang Language) string {
	return path.Join("locales", "active."+lang.String()+".toml")
}

// Load reads the embedded locale files and materializes one catalog per
// supported language. A message missing from any language is an error.
func Load() (*Table, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, lang := range Supported() {
		if _, err := bundle.LoadMessageFileFS(localeFS, localeFile(lang)); err != nil {
			return nil, errors.New("E004").
				WithDetailf("loading %s", localeFile(lang)).
				Wrap(err)
		}
	}

	catalogs := make(map[Language]*Catalog, len(Supported()))
	for _, lang := range Supported() {
		c, err := materialize(goi18n.NewLocalizer(bundle, lang.String()))
		if err != nil {
			return nil, errors.New("E004").
				WithDetailf("language %q", lang).
				Wrap(err)
		}
		catalogs[lang] = c
	}

	return &Table{catalogs: catalogs}, nil
}

// MustLoad is like Load but panics on error.
func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// materialize fills a Catalog by localizing every tagged leaf field.
func materialize(loc *goi18n.Localizer) (*Catalog, error) {
	c := &Catalog{}
	var firstErr error
	walk(reflect.ValueOf(c).Elem(), "", func(id string, field reflect.Value) {
		if firstErr != nil {
			return
		}
		msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id})
		if err != nil {
			firstErr = fmt.Errorf("message %q: %w", id, err)
			return
		}
		field.SetString(msg)
	})
	return c, firstErr
}

// walk visits every string leaf of a catalog value with its dotted ID.
func walk(v reflect.Value, prefix string, visit func(id string, field reflect.Value)) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := sf.Tag.Get("msg")
		if name == "" {
			continue
		}
		id := name
		if prefix != "" {
			id = prefix + "." + name
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Struct:
			walk(fv, id, visit)
		case reflect.String:
			visit(id, fv)
		}
	}
}
