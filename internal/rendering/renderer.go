// Package rendering turns templ components and gomponents nodes into HTTP
// responses.
package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders any supported component: a templ.Component or a value
// with Render(io.Writer) error such as gomponents.Node.
type Renderer interface {
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes component as a complete HTML document response.
	RenderPage(c echo.Context, status int, component any) error

	// RenderFragment writes component as a partial response for htmx to swap.
	RenderFragment(c echo.Context, status int, component any) error
}

// UniversalRenderer is the Renderer used by every handler. It also satisfies
// echo.Renderer.
type UniversalRenderer struct {
	buffers sync.Pool
}

var (
	_ Renderer      = (*UniversalRenderer)(nil)
	_ echo.Renderer = (*UniversalRenderer)(nil)
)

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{
		buffers: sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
}

type nodeRenderer interface {
	Render(w io.Writer) error
}

func renderTo(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case nodeRenderer:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type: %T", component)
	}
}

// RenderComponent renders component into a new byte slice.
func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	buf := r.buffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		r.buffers.Put(buf)
	}()

	if err := renderTo(ctx, component, buf); err != nil {
		return nil, fmt.Errorf("render component: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// RenderPage renders to memory before writing, so a failed render leaves the
// response uncommitted for echo's error handler.
func (r *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	return r.write(c, status, component)
}

// RenderFragment is RenderPage for htmx swaps. Responses vary on HX-Request
// because the same URL also serves full pages.
func (r *UniversalRenderer) RenderFragment(c echo.Context, status int, component any) error {
	c.Response().Header().Add(echo.HeaderVary, "HX-Request")
	return r.write(c, status, component)
}

func (r *UniversalRenderer) write(c echo.Context, status int, component any) error {
	ctx := c.Request().Context()
	body, err := r.RenderComponent(ctx, component)
	if err != nil {
		slog.ErrorContext(ctx, "Render failed", "event", "render_failure", "path", c.Path(), "error", err)
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render implements echo.Renderer for c.Render(status, name, component).
// The component travels in data and name is ignored.
func (r *UniversalRenderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return renderTo(c.Request().Context(), data, w)
}
