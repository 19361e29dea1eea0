package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported UI language.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// DefaultLanguage is used when neither a stored preference nor a Spanish
// locale signal is present.
const DefaultLanguage = English

// Supported returns the supported languages in display order.
func Supported() []Language {
	return []Language{English, Spanish}
}

// Parse converts a language code to a Language.
// Only the exact codes "en" and "es" are accepted.
func Parse(s string) (Language, bool) {
	switch Language(s) {
	case English, Spanish:
		return Language(s), true
	}
	return "", false
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// Tag returns the BCP 47 tag of the language.
func (l Language) Tag() language.Tag {
	if l == Spanish {
		return language.Spanish
	}
	return language.English
}

// Other returns the language a toggle switches to.
func (l Language) Other() Language {
	if l == English {
		return Spanish
	}
	return English
}

// Name returns the English name of the language.
func (l Language) Name() string {
	if l == Spanish {
		return "Spanish"
	}
	return "English"
}

// Detect selects a language from a locale signal such as an Accept-Language
// header or a POSIX locale ("es_CO.UTF-8"). Spanish is chosen when the
// preferred locale is Spanish, English otherwise.
func Detect(signal string) Language {
	signal = strings.TrimSpace(signal)
	if signal == "" {
		return DefaultLanguage
	}
	if i := strings.IndexByte(signal, '.'); i > 0 && !strings.ContainsAny(signal, ",;") {
		signal = signal[:i]
	}
	signal = strings.ReplaceAll(signal, "_", "-")

	tags, _, err := language.ParseAcceptLanguage(signal)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	base, _ := tags[0].Base()
	if base.String() == "es" {
		return Spanish
	}
	return DefaultLanguage
}
