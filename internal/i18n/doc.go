// Package i18n holds the translation table of the site.
//
// Each supported Language has exactly one Catalog: an immutable, typed tree of
// user-facing strings grouped by page section (navigation, hero, about the
// book, about the author, pre-order, footer). Catalogs are defined as TOML
// message files embedded in the binary, loaded through a go-i18n bundle and
// materialized once by Load:
//
//	table, err := i18n.Load()
//	t := table.Catalog(i18n.Spanish)
//	fmt.Println(t.Hero.Subtitle)
//
// All catalogs share the same key structure. Parity reports the paths where
// two catalogs diverge; the tests run it over the full tree.
package i18n
