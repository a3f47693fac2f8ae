// Package app assembles the application: the Echo instance, the global
// middleware stack, the central error handler, and the dependency wiring
// for every plugin and widget.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/curiocms/curio/internal/apperror"
	"github.com/curiocms/curio/internal/config"
	"github.com/curiocms/curio/internal/middleware"
	"github.com/curiocms/curio/internal/templates/pages"
)

// App holds the assembled application.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client
	Echo   *echo.Echo
}

// New assembles the application: middleware stack, error handler, and all
// plugin routes.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client) *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = errorHandler

	middleware.TrustedProxies(e, cfg.TrustedProxies)

	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.CSRF())

	e.Static("/static", "static")

	a := &App{Config: cfg, DB: db, Redis: rdb, Echo: e}
	a.registerRoutes()
	return a
}

// Start begins serving HTTP on the configured port.
func (a *App) Start() error {
	return a.Echo.Start(fmt.Sprintf(":%d", a.Config.Port))
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// errorHandler is the central Echo error handler. It maps AppErrors to their
// status codes, logs internals, and picks the response shape by client: JSON
// for the chooser's XHR requests, a rendered error page for browsers.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := apperror.SafeMessage(err)

	switch e := err.(type) {
	case *apperror.AppError:
		code = e.Code
		if e.Internal != nil {
			slog.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", code,
				"error", e.Internal,
			)
		}
	case *echo.HTTPError:
		code = e.Code
		if msg, ok := e.Message.(string); ok {
			message = msg
		}
	default:
		slog.Error("unhandled error",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	if isXHR(c) || c.Request().Header.Get("Accept") == "application/json" {
		_ = c.JSON(code, map[string]string{
			"error":   http.StatusText(code),
			"message": message,
		})
		return
	}

	if renderErr := middleware.Render(c, code, pages.ErrorPage(code, message)); renderErr != nil {
		slog.Error("rendering error page failed", "error", renderErr)
	}
}

func isXHR(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}
