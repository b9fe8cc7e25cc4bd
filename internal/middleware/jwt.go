package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-backend/internal/authz"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxUserID    = "user_id"   // uint64
	CtxRole      = "role"      // string
	CtxPrincipal = "principal" // authz.Principal
	CtxUser      = "user"      // *model.User
	CtxClaims    = "claims"    // *utils.Claims
)

// UserLookup loads the account named by a token's subject.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// RevocationChecker reports whether an access token id was revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// CredentialsError is the single message returned for every rejected
// bearer token.
const CredentialsError = "Could not validate credentials"

// Unauthorized writes the 401 response used for token failures.
func Unauthorized(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": CredentialsError})
}

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(auth[7:])
	return raw, raw != ""
}

// JWTAuth validates a Bearer access token, checks the denylist, loads the
// user and rejects unknown or inactive accounts.  On success the caller
// is available to handlers under the Ctx* keys.  revoked may be nil.
func JWTAuth(secret string, users UserLookup, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := BearerToken(c)
			if !ok {
				return Unauthorized(c)
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return Unauthorized(c)
			}
			ctx := c.Request().Context()
			if revoked != nil {
				// denylist errors fail open
				if hit, err := revoked.IsRevoked(ctx, claims.ID); err == nil && hit {
					return Unauthorized(c)
				}
			}
			uid, _ := claims.UserID()
			u, err := users.GetByID(ctx, uid)
			if err != nil || !u.IsActive {
				return Unauthorized(c)
			}

			c.Set(CtxUserID, u.ID)
			c.Set(CtxRole, string(u.Role))
			c.Set(CtxPrincipal, authz.Principal{UserID: u.ID, Role: u.Role})
			c.Set(CtxUser, u)
			c.Set(CtxClaims, claims)
			return next(c)
		}
	}
}
