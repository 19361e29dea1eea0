// Package errors provides coded, actionable errors for the book site.
//
// Every error carries a registered code (e.g. "E001") that maps to a
// category, a short message and a longer explanation. Callers add detail,
// a fix suggestion, or a wrapped cause with the builder methods:
//
//	err := errors.New("E002").
//	    WithDetail(`language "fr" is not supported`).
//	    WithSuggestion("Use one of: en, es")
//
// # Categories
//
//   - config: invalid configuration file, environment or flags
//   - runtime: programmer errors such as reading the language outside a provider
//   - validation: bad user input (unknown language, unknown anchor)
//   - export: static build and upload failures
//   - session: session lifecycle failures
//
// Format renders an error for terminal display; StatusCode maps a category to
// the HTTP status a handler should answer with.
package errors
