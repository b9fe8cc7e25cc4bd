package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health is the liveness probe used by load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready returns 503 until the database answers a ping.  db may be nil, in
// which case the service is always ready.
func Ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "database": "down"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "healthy", "database": "up"})
	}
}
