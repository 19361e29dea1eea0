// Package visitor holds the state of one browser tab.
//
// A Session owns the language provider, toast store, waitlist form,
// navigation state and preview carousel of a visitor. Every change to any
// of them re-renders the page root and sends it to the live connections
// attached to the session:
//
//	sess := visitor.New(id, deps, visitor.Request{Stored: cookie, Locale: acceptLanguage})
//	detach := sess.Attach(conn)
//	defer detach()
//
//	replies, err := sess.HandleEvent(ctx, visitor.Event{Name: "toggle_lang"})
//
// Sessions are created and expired by pkg/session.
package visitor
