package sections

import (
	. "github.com/patagonia-pages/bookpage/el"
	"github.com/patagonia-pages/bookpage/pkg/toast"
)

// Toaster renders the toast viewport. Closed records stay in the tree
// with data-state="closed" until the store removes them, so the client
// can animate them out.
func Toaster(v View) *VNode {
	return Div(
		ID("toaster"),
		Class("toaster"),
		Role("region"),
		AriaLive("polite"),
		TestID("toaster"),
		Range(v.Toasts, func(r toast.Record, _ int) *VNode {
			return toastItem(v, r)
		}),
	)
}

func toastItem(v View, r toast.Record) *VNode {
	state := "open"
	if !r.Open {
		state = "closed"
	}

	return Div(
		Key(r.ID),
		Class("toast", "toast-"+string(r.Level)),
		Role("status"),
		Data("state", state),
		TestID("toast-"+r.ID),
		Div(Class("toast-body"),
			If(r.Title != "", Div(Class("toast-title"), Text(r.Title))),
			If(r.Description != "", Div(Class("toast-description"), Text(r.Description))),
		),
		Form(
			Method("post"),
			Action(v.URL("toast/dismiss")),
			Input(Type("hidden"), Name("id"), Value(r.ID)),
			Button(
				Type("submit"),
				Class("toast-close"),
				OnClick("dismiss"),
				Arg("id", r.ID),
				AriaLabel("Close"),
				TestID("button-toast-close"),
				closeIcon(),
			),
		),
	)
}
