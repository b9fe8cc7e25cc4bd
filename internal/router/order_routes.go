package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-backend/internal/handler"
)

// RegisterOrders registers order endpoints.  Every route requires a token;
// role and ownership checks happen in the handler.
func RegisterOrders(e *echo.Echo, h *handler.OrderHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/orders", auth)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/user/:user_id", h.ListByUser)
	g.GET("/:id", h.Get)
	g.PUT("/:id/status", h.UpdateStatus)
}
