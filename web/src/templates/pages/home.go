package pages

import (
	"fmt"

	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/frontdoor/internal/view/dto/auth"
)

// HomeCardID is the element id htmx swaps on the home screen.
const HomeCardID = "home-card"

// HomeLoading is the home page body before the greeting has resolved. It
// asks for the greeting as soon as it is on screen.
func HomeLoading() cmp.Node {
	return g.Div(
		g.ID(HomeCardID),
		g.Class("card"),
		hx.Get("/home/greeting"),
		hx.Trigger("load"),
		hx.Swap("outerHTML"),
		g.P(g.Class("muted"), cmp.Text("Loading...")),
	)
}

// HomeCard renders the greeting for a signed-in user.
func HomeCard(d auth.HomeCardData) cmp.Node {
	return g.Div(
		g.ID(HomeCardID),
		g.Class("card"),
		g.H1(cmp.Text(fmt.Sprintf("Hey, %s!", d.Name))),
		g.P(cmp.Text("You're successfully logged in.")),
		cmp.If(d.Message != "",
			g.P(g.Class("form-error"), g.Role("alert"), cmp.Text(d.Message)),
		),
		g.FormEl(
			g.Action("/logout"),
			g.Method("post"),
			hx.Post("/logout"),
			hx.Target("#"+HomeCardID),
			hx.Swap("outerHTML"),
			cmp.Attr("hx-disabled-elt", "find button"),
			g.Button(g.Type("submit"), g.Class("btn btn-danger"), cmp.Text("Logout")),
		),
	)
}
