// Package toast provides the transient notifications of a visitor session.
//
// A Store is a small queue of toast records shared by every view of a
// session. At most Limit records are visible; adding a record beyond the
// limit evicts the oldest. Dismissing a record closes it (Open=false) so the
// client can play its exit animation, and the record is removed once
// RemoveDelay has elapsed.
//
//	store := toast.New()
//	h := store.Toast(toast.Payload{Title: "You're on the list!"})
//	desc := "We'll notify you."
//	h.Update(toast.Patch{Description: &desc})
//	h.Dismiss()
//
// Every mutation is delivered synchronously to all subscribers with the same
// snapshot. The state transitions are those of Reduce, a pure reducer that
// can be tested on its own.
//
// # Client-Side Handler
//
// Records reach the browser as "site:toast" events (see Event):
//
//	window.addEventListener("site:toast", (e) => {
//	    const { id, level, title, message, open } = e.detail;
//	    showToast(id, level, title, message, open);
//	});
package toast
