package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const ctxLogger = "logger"

// RequestLogger writes one structured line per request and stores a
// request-scoped child logger for handlers (see Logger).  It expects the
// RequestID middleware to run first.
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}
			log := base.With(zap.String("request_id", rid))
			c.Set(ctxLogger, log)

			err := next(c)
			if err != nil {
				// let the error handler write the status before we read it
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
				zap.String("user_id", currentUserID(c)),
			}
			switch {
			case status >= 500:
				log.Error("request", append(fields, zap.Error(err))...)
			case status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		}
	}
}

// Logger returns the request-scoped logger, or a no-op logger outside a
// request handled by RequestLogger.
func Logger(c echo.Context) *zap.Logger {
	if l, ok := c.Get(ctxLogger).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
