package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/curiocms/curio/internal/middleware"
)

// RegisterRoutes sets up the public authentication routes. Login is rate
// limited per IP to slow down credential stuffing.
func RegisterRoutes(e *echo.Echo, h *Handler, rdb *redis.Client) {
	loginRateLimit := middleware.RateLimit(rdb, "login", 10, time.Minute)

	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login, loginRateLimit)
	e.POST("/logout", h.Logout)
}
