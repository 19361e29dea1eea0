// Package waitlist implements the pre-order waitlist form of a session.
//
// A Form holds the typed email and whether a submission is in flight.
// HandleSubmit starts a Task that waits Delay and then confirms the
// submission with a success toast in the active language. There is no
// backend yet; the delay stands in for the request.
package waitlist
