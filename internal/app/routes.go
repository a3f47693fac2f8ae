package app

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiocms/curio/internal/middleware"
	"github.com/curiocms/curio/internal/plugins/auth"
	"github.com/curiocms/curio/internal/plugins/media"
	"github.com/curiocms/curio/internal/templates/layouts"
	"github.com/curiocms/curio/internal/widgets/tags"
)

// registerRoutes wires every plugin and widget: repositories, services,
// handlers, and their routes. All construction happens here so the
// dependency graph is visible in one place.
func (a *App) registerRoutes() {
	// Auth plugin.
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, a.Redis, a.Config.Auth.SessionTTL)
	authHandler := auth.NewHandler(authService, int(a.Config.Auth.SessionTTL.Seconds()))
	auth.RegisterRoutes(a.Echo, authHandler, a.Redis)

	// Tags widget. Its service doubles as the chooser's popular-tag source.
	tagRepo := tags.NewTagRepository(a.DB)
	tagService := tags.NewTagService(tagRepo)
	tagHandler := tags.NewHandler(tagService)
	tags.RegisterRoutes(a.Echo, tagHandler, authService)

	// Media plugin. The database backend answers queries; both backends are
	// kept in step on every write.
	assetRepo := media.NewAssetRepository(a.DB)
	searchBackends := []media.SearchBackend{
		media.NewDatabaseSearchBackend(a.DB),
		media.NewRedisSearchBackend(a.Redis),
	}
	mediaService := media.NewMediaService(assetRepo, searchBackends, a.Config.Upload.MediaPath)
	formFactory := media.NewFormFactory(a.Config.Upload.MaxSize)
	policy := media.NewOwnerPolicy()

	// Deployment-specific chooser query hooks go here.
	var hooks []media.ChooserQueryHook

	mediaHandler := media.NewHandler(mediaService, formFactory, policy, tagService,
		a.Config.Chooser.PerPage, hooks)
	media.RegisterRoutes(a.Echo, mediaHandler, authService, a.Redis, a.Config.Upload.MaxSize)

	// Copy session data from the Echo context into the rendering context for
	// templates (see middleware.Render).
	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		if session := auth.GetSession(c); session != nil {
			ctx = layouts.WithIsAuthenticated(ctx, true)
			ctx = layouts.WithUserName(ctx, session.Name)
			ctx = layouts.WithIsAdmin(ctx, session.IsAdmin)
		}
		return layouts.WithCSRFToken(ctx, middleware.GetCSRFToken(c))
	}

	a.Echo.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/admin/media/")
	})
	a.Echo.GET("/healthz", a.health)
}

// health reports readiness: both stores must answer.
func (a *App) health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := a.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
