package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-backend/internal/handler"
)

// RegisterTeam registers supplier team management.
func RegisterTeam(e *echo.Echo, h *handler.TeamHandler) {
	g := e.Group("/team/members")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterMessages registers conversations and messages.
func RegisterMessages(e *echo.Echo, h *handler.MessageHandler) {
	g := e.Group("/messages")
	g.POST("", h.CreateMessage)
	g.GET("/conversations", h.ListConversations)
	g.POST("/conversations", h.CreateConversation)
	g.GET("/conversations/:id", h.GetConversation)
	g.GET("/conversations/:id/messages", h.ListMessages)
	g.GET("/:id", h.GetMessage)
	g.PUT("/:id/read", h.MarkRead)
	g.DELETE("/:id", h.DeleteMessage)
}

// RegisterDashboard registers the consumer and supplier reports.
func RegisterDashboard(e *echo.Echo, h *handler.DashboardHandler) {
	e.GET("/dashboard/consumer/:user_id", h.Consumer)
	e.GET("/dashboard/supplier/:user_id", h.Supplier)
}
