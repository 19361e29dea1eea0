package i18n

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	en := table.Catalog(English)
	es := table.Catalog(Spanish)

	if en.Nav.AboutBook != "About the Book" {
		t.Errorf("en nav.aboutBook = %q", en.Nav.AboutBook)
	}
	if es.Nav.AboutBook != "Sobre el Libro" {
		t.Errorf("es nav.aboutBook = %q", es.Nav.AboutBook)
	}
	if es.Preorder.SuccessTitle != "¡Estás en la lista!" {
		t.Errorf("es preorder.successTitle = %q", es.Preorder.SuccessTitle)
	}
	if en.Hero.Title != es.Hero.Title {
		t.Errorf("hero title should not be translated: %q vs %q", en.Hero.Title, es.Hero.Title)
	}
}

func TestCatalogFallsBackToDefault(t *testing.T) {
	table := MustLoad()
	if got := table.Catalog(Language("fr")); got != table.Catalog(English) {
		t.Error("unknown language should fall back to the English catalog")
	}
}

func TestCatalogsHaveNoEmptyLeaves(t *testing.T) {
	table := MustLoad()
	for _, lang := range table.Languages() {
		c := table.Catalog(lang)
		walk(reflect.ValueOf(c).Elem(), "", func(id string, f reflect.Value) {
			if f.String() == "" {
				t.Errorf("%s: message %q is empty", lang, id)
			}
		})
	}
}

func TestCatalogParity(t *testing.T) {
	table := MustLoad()
	if diff := Parity(table.Catalog(English), table.Catalog(Spanish)); len(diff) != 0 {
		t.Errorf("catalogs diverge at %v", diff)
	}

	enKeys := Keys(table.Catalog(English))
	esKeys := Keys(table.Catalog(Spanish))
	if !reflect.DeepEqual(enKeys, esKeys) {
		t.Errorf("key structure differs:\n en=%v\n es=%v", enKeys, esKeys)
	}
}

func TestParityReportsDivergence(t *testing.T) {
	a := &Catalog{}
	a.Hero.Title = "x"
	a.Footer.Tagline = "y"
	b := &Catalog{}
	b.Hero.Title = "x"

	diff := Parity(a, b)
	if len(diff) != 1 || diff[0] != "footer.tagline" {
		t.Errorf("Parity = %v, want [footer.tagline]", diff)
	}
}

func TestSourceParity(t *testing.T) {
	problems, err := SourceParity()
	if err != nil {
		t.Fatalf("SourceParity() error = %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("locale files diverge:\n%s", strings.Join(problems, "\n"))
	}
}

func TestKeysAreSectionScoped(t *testing.T) {
	sections := map[string]bool{
		"nav": true, "hero": true, "aboutBook": true,
		"aboutAuthor": true, "preorder": true, "footer": true,
	}
	for _, id := range Keys(&Catalog{}) {
		section, _, ok := strings.Cut(id, ".")
		if !ok || !sections[section] {
			t.Errorf("message %q is not scoped to a known section", id)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Language
		wantOK bool
	}{
		{"en", English, true},
		{"es", Spanish, true},
		{"ES", "", false},
		{"fr", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Parse(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		signal string
		want   Language
	}{
		{"", English},
		{"en-US", English},
		{"en-US,en;q=0.9,es;q=0.8", English},
		{"es", Spanish},
		{"es-CO", Spanish},
		{"es-419,es;q=0.9,en;q=0.8", Spanish},
		{"en;q=0.5,es-MX;q=0.9", Spanish},
		{"es_CO.UTF-8", Spanish},
		{"pt-BR", English},
		{"not a locale", English},
	}
	for _, tt := range tests {
		t.Run(tt.signal, func(t *testing.T) {
			if got := Detect(tt.signal); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.signal, got, tt.want)
			}
		})
	}
}

func TestLanguageHelpers(t *testing.T) {
	if English.Other() != Spanish || Spanish.Other() != English {
		t.Error("Other() should toggle between en and es")
	}
	if Spanish.Name() != "Spanish" || English.Name() != "English" {
		t.Error("Name() returned unexpected names")
	}
	if Spanish.Tag().String() != "es" {
		t.Errorf("Spanish.Tag() = %v", Spanish.Tag())
	}
}

func TestStats(t *testing.T) {
	if got := Stats(English).Distance; got != "15,000" {
		t.Errorf("en distance = %q", got)
	}
	if got := Stats(Spanish).Distance; got != "24,000" {
		t.Errorf("es distance = %q", got)
	}
	s := Stats(Language("fr"))
	if s.Distance != "15,000" || s.Countries != 7 || s.Journeys != 1 {
		t.Errorf("fallback stats = %+v", s)
	}
}

func TestNavLabel(t *testing.T) {
	c := MustLoad().Catalog(Spanish)
	if got := c.NavLabel("author"); got != "Autor" {
		t.Errorf("NavLabel(author) = %q", got)
	}
	if got := c.NavLabel("missing"); got != "missing" {
		t.Errorf("NavLabel(missing) = %q", got)
	}
}
