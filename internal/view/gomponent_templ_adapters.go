package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// nodeComponent lets a gomponents.Node sit inside a templ layout.
type nodeComponent struct {
	node gomponents.Node
}

func (a nodeComponent) Render(_ context.Context, w io.Writer) error {
	if a.node == nil {
		return nil
	}
	return a.node.Render(w)
}

// Component converts a gomponents Node into a templ.Component so pages built
// with gomponents can be passed to the templ base layout.
func Component(node gomponents.Node) templ.Component {
	return nodeComponent{node: node}
}

// componentNode lets a templ.Component sit inside a gomponents tree. The
// context given at construction is passed through on render.
type componentNode struct {
	ctx       context.Context
	component templ.Component
}

func (a componentNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// Node converts a templ.Component into a gomponents Node bound to ctx.
func Node(ctx context.Context, component templ.Component) gomponents.Node {
	return componentNode{ctx: ctx, component: component}
}
