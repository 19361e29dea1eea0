// Package language owns the active language of a visitor session.
//
// A Provider is the single source of truth for the active language and its
// catalog. It is created once per session: the persisted "language"
// preference wins, otherwise the locale signal (Accept-Language) decides.
// SetLanguage persists the choice, updates the document lang attribute and
// notifies every subscriber synchronously.
//
// Components reach the provider through the context of the render:
//
//	ctx = language.WithProvider(ctx, p)
//	...
//	v := language.Use(ctx)
//	Text(v.T.Hero.Title)
//
// Use panics with error E001 when no provider is attached; that is a
// programming error caught in development. Lookup is the non-panicking form.
package language
