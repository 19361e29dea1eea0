// Package sections renders the landing page of the book.
//
// Each section is a function of the request context and a View. Language
// comes from the provider attached to the context (language.Use), so a
// section rendered outside a provider panics with E001. Everything else,
// such as navigation, form, toast and carousel state, is passed in the View
// by the session.
//
// Interactive elements carry live bindings (see vdom.OnClick) and, where
// the interaction makes sense without scripting, a plain form fallback
// posting to the site's no-JS routes.
package sections
