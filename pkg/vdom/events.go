package vdom

// LivePrefix is the attribute prefix read by the live client script.
const LivePrefix = "data-live-"

// ArgPrefix is the attribute prefix of extra event fields.
const ArgPrefix = "data-arg-"

// live binds a DOM event to a named live event.
func live(trigger, name string) Attr {
	return attr(LivePrefix+trigger, name)
}

// OnClick forwards click events as the named live event.
func OnClick(name string) Attr { return live("click", name) }

// OnInput forwards input events as the named live event, with the
// control's value.
func OnInput(name string) Attr { return live("input", name) }

// OnSubmit forwards form submission as the named live event. The client
// prevents the native submission only while connected.
func OnSubmit(name string) Attr { return live("submit", name) }

// Arg attaches a field to the live event sent by the element.
// Example: Arg("anchor", "about") → data-arg-anchor="about"
func Arg(key, value string) Attr { return attr(ArgPrefix+key, value) }
