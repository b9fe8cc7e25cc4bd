// Package router wires handlers and middleware onto Echo routes.
package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/dto"
	"github.com/iliyamo/marketplace-backend/internal/handler"
	"github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/model"
)

// New returns an Echo instance with the global middleware chain: trailing
// slash removal, request id, request logging, panic recovery and CORS.
func New(log *zap.Logger, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = dto.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	return e
}

// RegisterRoutes registers the unauthenticated probes.  db may be nil.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/api/health", handler.Ready(db))
}

// RegisterAuth registers login, registration and token endpoints.  limit
// guards the credential endpoints; auth is the JWTAuth middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth, limit echo.MiddlewareFunc) {
	e.POST("/token", a.Login, limit)
	e.POST("/token/refresh", a.Refresh, limit)
	e.POST("/register", a.Register, limit)
	// logout parses an optional bearer itself
	e.POST("/logout", a.Logout)
	e.GET("/auth/me", a.Me, auth)
}

// RegisterUsers registers consumer sign-up plus self-service and admin
// user management.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, auth, limit echo.MiddlewareFunc) {
	e.POST("/users", a.RegisterConsumer, limit)

	g := e.Group("/users", auth)
	g.GET("/me", a.Me)
	g.PUT("/me", u.UpdateMe)

	admin := g.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.GET("", u.List)
	admin.GET("/:id", u.Get)
	admin.PUT("/:id", u.Update)
	admin.DELETE("/:id", u.Delete)
}
