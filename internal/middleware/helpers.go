package middleware

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// LayoutInjector is a function that copies layout-relevant data from the Echo
// context (populated by auth middleware) into Go's context.Context so Templ
// templates can read it. Registered once at startup in app/routes.go.
//
// This callback pattern avoids the middleware package importing any plugin types.
var LayoutInjector func(echo.Context, context.Context) context.Context

// Render writes a Templ component to the response with the given status code.
// Before rendering, it runs the LayoutInjector (if registered) to copy
// session data into the Go context for Templ templates to access.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	ctx := c.Request().Context()

	if LayoutInjector != nil {
		ctx = LayoutInjector(c, ctx)
	}

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(statusCode)
	return component.Render(ctx, c.Response().Writer)
}

// RenderToString renders a Templ component to a string. The chooser modal
// shell is delivered inside a JSON envelope rather than as a direct HTML
// response, so its markup has to be captured instead of streamed.
func RenderToString(c echo.Context, component templ.Component) (string, error) {
	ctx := c.Request().Context()

	if LayoutInjector != nil {
		ctx = LayoutInjector(c, ctx)
	}

	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
