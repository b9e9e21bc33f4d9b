package components

import (
	"maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/frontdoor/internal/view"
)

// Flashes renders the pending flash messages, or nothing when there are none.
func Flashes(data view.FlashData) gomponents.Node {
	if len(data.Success) == 0 && len(data.Error) == 0 {
		return nil
	}
	return Div(
		ID("flashes"),
		gomponents.Map(data.Success, func(msg string) gomponents.Node {
			return Div(Class("flash flash-success"), Role("status"), gomponents.Text(msg))
		}),
		gomponents.Map(data.Error, func(msg string) gomponents.Node {
			return Div(Class("flash flash-error"), Role("alert"), gomponents.Text(msg))
		}),
	)
}
