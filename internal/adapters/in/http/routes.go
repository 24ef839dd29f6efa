package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterHandlers mounts the order API and the health check on e.
func RegisterHandlers(e *echo.Echo, s *Server) {
	e.GET("/health", Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
}

// Health handles GET /health.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}
