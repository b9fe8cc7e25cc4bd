package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-backend/internal/handler"
)

// RegisterProducts registers the public catalog and product management.
// cache wraps the public reads.
func RegisterProducts(e *echo.Echo, h *handler.ProductHandler, auth, cache echo.MiddlewareFunc) {
	e.GET("/products", h.List, cache)
	e.GET("/products/:id", h.Get, cache)

	g := e.Group("/products", auth)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/stock", h.AdjustStock)
}

// RegisterSuppliers registers supplier profiles and link requests.  Link
// request routes carry no authentication.
func RegisterSuppliers(e *echo.Echo, h *handler.SupplierHandler, auth, cache echo.MiddlewareFunc) {
	e.GET("/suppliers", h.List, cache)
	e.GET("/suppliers/:id", h.Get, cache)
	e.POST("/suppliers", h.Create, auth)
	e.PUT("/suppliers/:id", h.Update, auth)

	e.POST("/suppliers/link-request", h.CreateLinkRequest)
	e.GET("/suppliers/link-requests/user/:user_id", h.LinkRequestsByUser)
	e.GET("/suppliers/link-requests/supplier/:supplier_id", h.LinkRequestsBySupplier)
	e.PUT("/suppliers/link-requests/:id", h.UpdateLinkRequest)
	e.PUT("/link-requests/:id", h.UpdateLinkRequest)
}
