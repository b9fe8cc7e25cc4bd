package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/authz"
	"github.com/iliyamo/marketplace-backend/internal/dto"
	mw "github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// bind decodes and validates the request into dst.  The returned error is
// an *echo.HTTPError rendered by ErrorHandler.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.Message(err))
	}
	return nil
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// queryID reads a positive integer query parameter.
func queryID(c echo.Context, name string) (uint64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// pageFrom reads skip and limit; missing or malformed values fall back to
// 0 and def.
func pageFrom(c echo.Context, def int) repository.Page {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return repository.NewPage(skip, limit, def)
}

// principal returns the caller set by JWTAuth.  Routes without JWTAuth get
// the zero Principal, which no role check accepts.
func principal(c echo.Context) authz.Principal {
	p, _ := c.Get(mw.CtxPrincipal).(authz.Principal)
	return p
}

// notFoundMessage turns "product not found" into "Product not found".
func notFoundMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Not found"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// respondError maps repository and authorization errors onto responses.
// Anything unrecognised is logged and reported as a generic 500.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, repository.ErrForbidden):
		return errorJSON(c, http.StatusForbidden, "Not enough permissions")
	case errors.Is(err, repository.ErrEmailExists):
		return errorJSON(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, repository.ErrDuplicate):
		return errorJSON(c, http.StatusBadRequest, "Already exists")
	case errors.Is(err, repository.ErrConflict):
		return errorJSON(c, http.StatusConflict, "Resource is referenced by other records")
	}
	mw.Logger(c).Error("request failed",
		zap.String("route", c.Path()),
		zap.Error(err),
	)
	return errorJSON(c, http.StatusInternalServerError, "Internal server error")
}

// ErrorHandler renders framework errors (unknown routes, bind failures,
// recovered panics) with the same {"error": ...} body as the handlers.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		mw.Logger(c).Error("unhandled error", zap.Error(err))
		msg = "Internal server error"
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = errorJSON(c, code, msg)
}
