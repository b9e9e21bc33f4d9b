package pages

import (
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/frontdoor/internal/view"
	"github.com/nfrund/frontdoor/internal/view/dto/auth"
	"github.com/nfrund/frontdoor/web/src/templates/components"
)

// AuthCardID is the element id htmx swaps when the card re-renders.
const AuthCardID = "auth-card"

// LoginContent is the body of the login page.
func LoginContent(flashes view.FlashData, card auth.LoginCardData) cmp.Node {
	return g.Div(
		g.Class("container"),
		components.Flashes(flashes),
		LoginCard(card),
	)
}

// LoginCard renders the login/register form. It is also the fragment
// returned for every form action.
func LoginCard(d auth.LoginCardData) cmp.Node {
	title := "Login"
	if d.Register {
		title = "Register"
	}

	return g.Div(
		g.ID(AuthCardID),
		g.Class("card"),
		g.H1(cmp.Text(title)),
		cmp.If(d.Error != "",
			g.P(g.Class("form-error"), g.Role("alert"), cmp.Text(d.Error)),
		),
		g.FormEl(
			g.Action("/login"),
			g.Method("post"),
			hx.Post("/login"),
			hx.Target("#"+AuthCardID),
			hx.Swap("outerHTML"),
			cmp.Attr("hx-disabled-elt", "find button[type='submit']"),
			g.Input(g.Type("hidden"), g.Name("form_id"), g.Value(d.FormID)),
			g.Input(g.Type("hidden"), g.Name("mode"), g.Value(d.Mode())),
			cmp.If(d.Register,
				field("Full Name", g.Input(g.Type("text"), g.Name("full_name"), g.Value(d.FullName), g.AutoComplete("name"))),
			),
			field("Email", g.Input(g.Type("email"), g.Name("email"), g.Value(d.Email), g.AutoComplete("email"))),
			field("Password", g.Input(g.Type("password"), g.Name("password"), g.AutoComplete(passwordAutocomplete(d.Register)))),
			g.Button(
				g.Type("submit"),
				g.Class("btn btn-primary"),
				cmp.If(d.Submitting, g.Disabled()),
				g.Span(g.Class("label-idle"), cmp.Text(d.SubmitLabel())),
				g.Span(g.Class("label-busy"), cmp.Text("Please wait...")),
			),
		),
		g.FormEl(
			g.Class("toggle"),
			g.Action("/login/mode"),
			g.Method("post"),
			hx.Post("/login/mode"),
			hx.Target("#"+AuthCardID),
			hx.Swap("outerHTML"),
			g.Input(g.Type("hidden"), g.Name("form_id"), g.Value(d.FormID)),
			g.Input(g.Type("hidden"), g.Name("mode"), g.Value(d.Mode())),
			g.Button(g.Type("submit"), g.Class("btn-link"), cmp.Text(d.ToggleLabel())),
		),
	)
}

func field(label string, input cmp.Node) cmp.Node {
	return g.Label(
		g.Class("field"),
		g.Span(cmp.Text(label)),
		input,
	)
}

func passwordAutocomplete(register bool) string {
	if register {
		return "new-password"
	}
	return "current-password"
}
