package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/frontdoor/internal/view"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base is the document shell every full page renders inside. screen names
// the gatekeeper screen the page belongs to; the session script opens the
// live session socket for it.
func Base(title, screen string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return h.Doctype(
			h.HTML(
				h.Lang("en"),
				h.Head(
					h.Meta(h.Charset("utf-8")),
					h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
					h.TitleEl(gomponents.Text(CalculateTitle(title))),
					h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
					h.Script(h.Src(htmxSrc), h.Defer()),
					h.Script(h.Src("/static/session.js"), h.Defer()),
				),
				h.Body(
					gomponents.Attr("data-screen", screen),
					h.Main(
						h.Class("page"),
						view.Node(ctx, body),
					),
				),
			),
		).Render(w)
	})
}
