package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/config"
	"github.com/iliyamo/marketplace-backend/internal/dto"
	mw "github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/repository"
	"github.com/iliyamo/marketplace-backend/internal/utils"
)

// AuthHandler bundles dependencies for login, registration and token
// lifecycle endpoints.  Revoked may be nil, in which case logout only
// revokes refresh tokens.
type AuthHandler struct {
	Cfg     config.Config
	Users   UserStore
	Tokens  TokenStore
	Revoked AccessRevoker
}

func NewAuthHandler(cfg config.Config, users UserStore, tokens TokenStore, revoked AccessRevoker) *AuthHandler {
	if users == nil || tokens == nil {
		panic("nil store passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens, Revoked: revoked}
}

func badCredentials(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return errorJSON(c, http.StatusUnauthorized, "Incorrect email or password")
}

// issueTokens creates an access token and a stored refresh token for u.
func (h *AuthHandler) issueTokens(ctx context.Context, u *model.User) (dto.TokenResponse, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return dto.TokenResponse{}, err
	}
	return dto.TokenResponse{
		AccessToken:  access.Token,
		TokenType:    "bearer",
		ExpiresAt:    access.Exp,
		RefreshToken: refresh.Raw, // raw back to client, hash stored
		User:         dto.NewUser(u),
	}, nil
}

// Login accepts the OAuth2 password form or JSON and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	login := req.Login()
	if login == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username and password are required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return badCredentials(c)
		}
		return respondError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return badCredentials(c)
	}
	if !u.IsActive {
		return errorJSON(c, http.StatusBadRequest, "Inactive user")
	}

	resp, err := h.issueTokens(ctx, u)
	if err != nil {
		return respondError(c, err)
	}
	mw.Logger(c).Info("login", zap.Uint64("user_id", u.ID))
	return c.JSON(http.StatusOK, resp)
}

// Register creates a consumer or supplier account.  A supplier that sends
// supplier_name gets its profile in the same transaction.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Role == "" {
		req.Role = model.RoleConsumer
	}
	return h.register(c, req)
}

// RegisterConsumer is the open sign-up under /users: any role in the body
// is ignored and the account is always a consumer.
func (h *AuthHandler) RegisterConsumer(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Role = model.RoleConsumer
	req.SupplierName = ""
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, dto.Message(err))
	}
	return h.register(c, req)
}

func (h *AuthHandler) register(c echo.Context, req dto.RegisterRequest) error {
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return respondError(c, err)
	}
	u := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		IsActive:     true,
	}
	var profile *model.Supplier
	if name := strings.TrimSpace(req.SupplierName); name != "" && req.Role == model.RoleSupplier {
		profile = &model.Supplier{Name: name}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.CreateAccount(ctx, u, profile); err != nil {
		return respondError(c, err)
	}
	mw.Logger(c).Info("user registered", zap.Uint64("user_id", u.ID), zap.String("role", string(u.Role)))
	return c.JSON(http.StatusCreated, dto.NewUser(u))
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return errorJSON(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := requestContext(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "Invalid refresh token")
		}
		return respondError(c, err)
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return respondError(c, err)
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil || !u.IsActive {
		return errorJSON(c, http.StatusUnauthorized, "Invalid refresh token")
	}

	resp, err := h.issueTokens(ctx, u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the refresh token in the body, or every refresh token of
// the bearer when the body has none.  A valid bearer's access token is
// also denied until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	var claims *utils.Claims
	if raw, ok := mw.BearerToken(c); ok {
		if parsed, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw); err == nil {
			claims = parsed
		}
	}
	var req dto.RefreshRequest
	_ = c.Bind(&req)
	refresh := strings.TrimSpace(req.RefreshToken)

	if claims == nil && refresh == "" {
		return errorJSON(c, http.StatusBadRequest, "provide Authorization header or refresh_token")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if refresh != "" {
		hash := utils.HashRefreshRaw(refresh)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return errorJSON(c, http.StatusUnauthorized, "Invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return respondError(c, err)
		}
	} else {
		uid, _ := claims.UserID()
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return respondError(c, err)
		}
	}

	if claims != nil && h.Revoked != nil && claims.ExpiresAt != nil {
		if err := h.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			mw.Logger(c).Warn("access token revoke failed", zap.Error(err))
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := c.Get(mw.CtxUser).(*model.User)
	if !ok {
		return mw.Unauthorized(c)
	}
	return c.JSON(http.StatusOK, dto.NewUser(u))
}
