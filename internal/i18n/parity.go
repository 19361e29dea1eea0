package i18n

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/BurntSushi/toml"
)

// Keys returns every message ID of a catalog, in declaration order.
func Keys(c *Catalog) []string {
	var keys []string
	walk(reflect.ValueOf(c).Elem(), "", func(id string, _ reflect.Value) {
		keys = append(keys, id)
	})
	return keys
}

// Parity compares two catalogs leaf by leaf and returns the IDs where one
// side has a value and the other does not. An empty result means the two
// catalogs have identical key structure.
func Parity(a, b *Catalog) []string {
	values := func(c *Catalog) map[string]string {
		m := make(map[string]string)
		walk(reflect.ValueOf(c).Elem(), "", func(id string, f reflect.Value) {
			m[id] = f.String()
		})
		return m
	}
	va, vb := values(a), values(b)

	var diff []string
	for id, s := range va {
		if (s == "") != (vb[id] == "") {
			diff = append(diff, id)
		}
	}
	sort.Strings(diff)
	return diff
}

// SourceParity compares the message IDs declared in the embedded locale
// files against the catalog definition. It reports IDs that are declared in
// one file but not in another, and IDs the Catalog type expects but no file
// declares.
func SourceParity() ([]string, error) {
	expected := make(map[string]bool)
	for _, id := range Keys(&Catalog{}) {
		expected[id] = true
	}

	declared := make(map[Language]map[string]bool)
	for _, lang := range Supported() {
		data, err := localeFS.ReadFile(localeFile(lang))
		if err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", localeFile(lang), err)
		}
		ids := make(map[string]bool, len(raw))
		for id := range raw {
			ids[id] = true
		}
		declared[lang] = ids
	}

	seen := make(map[string]bool)
	var problems []string
	report := func(p string) {
		if !seen[p] {
			seen[p] = true
			problems = append(problems, p)
		}
	}
	for _, lang := range Supported() {
		for id := range declared[lang] {
			if !expected[id] {
				report(fmt.Sprintf("%s: unexpected message %q", lang, id))
			}
		}
		for id := range expected {
			if !declared[lang][id] {
				report(fmt.Sprintf("%s: missing message %q", lang, id))
			}
		}
	}
	sort.Strings(problems)
	return problems, nil
}
