package sections

import (
	"context"

	. "github.com/patagonia-pages/bookpage/el"
	"github.com/patagonia-pages/bookpage/internal/language"
)

// PreOrder renders the call to action. With the form enabled it is the
// waitlist form; otherwise a link to the external pre-order form, opened
// in a new tab.
func PreOrder(ctx context.Context, v View) *VNode {
	t := language.Use(ctx).T

	var action *VNode
	if v.Site.PreorderForm {
		action = WaitlistForm(ctx, v)
	} else {
		action = Div(Class("preorder-link-wrap"),
			A(
				Href(v.Site.PreorderURL),
				Target("_blank"),
				Rel("noopener noreferrer"),
				Class("button button-lg"),
				TestID("link-preorder-form"),
				Text(t.Preorder.ExternalButton),
			),
		)
	}

	return section(sectionOpts{id: "preorder", testID: "section-preorder", maxWidth: "narrow", centered: true},
		H2(Class("section-heading", "mb-4"), TestID("text-preorder-heading"), Text(t.Preorder.Heading)),
		P(Class("lead"), TestID("text-preorder-description"), Text(t.Preorder.Description)),
		action,
		P(Class("muted small"), TestID("text-waitlist-count"), Text(t.Preorder.WaitlistCount)),
	)
}

// WaitlistForm renders the email form. The submit button is disabled and
// shows the joining label while a submission is in flight.
func WaitlistForm(ctx context.Context, v View) *VNode {
	t := language.Use(ctx).T
	submitting := v.Form.Submitting

	label := t.Preorder.JoinButton
	if submitting {
		label = t.Preorder.JoiningButton
	}

	return Form(
		Method("post"),
		Action(v.URL("waitlist")),
		Class("preorder-form"),
		OnSubmit("submit"),
		TestID("form-preorder"),
		Input(
			Type("email"),
			Name("email"),
			Placeholder(t.Preorder.EmailPlaceholder),
			Value(v.Form.Email),
			Required(),
			Autocomplete("email"),
			Class("input"),
			OnInput("email"),
			TestID("input-email"),
		),
		Button(
			Type("submit"),
			Disabled(submitting),
			Class("button"),
			TestID("button-submit-preorder"),
			Text(label),
		),
	)
}
