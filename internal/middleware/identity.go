package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string, or "anon"
// when JWTAuth has not run or rejected the request.  Used for rate-limit
// keys and request logs.
func currentUserID(c echo.Context) string {
	switch v := c.Get(CtxUserID).(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case string:
		if v != "" {
			return v
		}
	}
	return "anon"
}
