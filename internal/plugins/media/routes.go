package media

import (
	"fmt"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/curiocms/curio/internal/apperror"
	"github.com/curiocms/curio/internal/middleware"
	"github.com/curiocms/curio/internal/plugins/auth"
)

// RegisterRoutes sets up the media plugin's routes.
//
// The chooser endpoints use OptionalAuth: anonymous requests get an empty
// listing rather than a redirect, and the upload handler enforces its own
// permission guard. The admin pages require a session outright. Uploads are
// rate limited per IP and capped at the configured size before the handler
// ever sees the body.
func RegisterRoutes(e *echo.Echo, h *Handler, authService auth.AuthService, rdb *redis.Client, maxUploadSize int64) {
	optional := auth.OptionalAuth(authService)
	required := auth.RequireAuth(authService)

	chooser := e.Group("/admin/media/chooser", optional)
	chooser.GET("/", h.Chooser)
	chooser.GET("/:media_type", h.Chooser)
	chooser.POST("/:media_type/upload", h.ChooserUpload,
		mediaTypeGate(),
		middleware.RateLimit(rdb, "media_upload", 20, time.Minute),
		echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{Limit: bodyLimit(maxUploadSize)}),
	)

	e.GET("/admin/media/chosen/:media_id", h.MediaChosen, optional)

	admin := e.Group("/admin/media", required)
	admin.GET("/", h.Index)
	admin.GET("/:media_id/edit", h.Edit)
	admin.POST("/:media_id/edit", h.Update)
	admin.POST("/:media_id/delete", h.Delete)
}

// mediaTypeGate rejects upload URLs whose media_type segment is not a
// registered slug, before the rate limiter or body limit spend any work on
// the request.
func mediaTypeGate() echo.MiddlewareFunc {
	pattern := regexp.MustCompile("^(" + MediaTypeSlugsPattern() + ")$")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !pattern.MatchString(c.Param("media_type")) {
				return apperror.NewNotFound("media type not found")
			}
			return next(c)
		}
	}
}

// bodyLimit converts a byte count to Echo's body limit notation, with some
// slack for the multipart framing around the file.
func bodyLimit(maxUploadSize int64) string {
	const slack = 1 << 20
	return fmt.Sprintf("%dK", (maxUploadSize+slack)/1024)
}
