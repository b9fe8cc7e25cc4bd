package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/authz"
	"github.com/iliyamo/marketplace-backend/internal/dto"
	mw "github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/utils"
)

const defaultUserLimit = 100

// UserHandler serves self-service profile updates and admin user
// management.
type UserHandler struct {
	Users      UserStore
	BcryptCost int
}

func NewUserHandler(users UserStore, bcryptCost int) *UserHandler {
	if users == nil {
		panic("nil store passed to NewUserHandler")
	}
	return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

func (h *UserHandler) applySelf(u *model.User, upd dto.SelfUpdate) error {
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FullName != nil {
		u.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.Password != nil {
		hash, err := utils.HashPassword(*upd.Password, h.BcryptCost)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	return nil
}

// UpdateMe changes the caller's own email, name or password.  Role and
// activation are not editable here.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req dto.SelfUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, principal(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.applySelf(u, req); err != nil {
		return respondError(c, err)
	}
	if err := h.Users.Update(ctx, u); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewUser(u))
}

func (h *UserHandler) List(c echo.Context) error {
	if err := authz.Authorize(principal(c), authz.Unowned, model.RoleAdmin); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Users.List(ctx, pageFrom(c, defaultUserLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewUsers(list))
}

func (h *UserHandler) Get(c echo.Context) error {
	if err := authz.Authorize(principal(c), authz.Unowned, model.RoleAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewUser(u))
}

// Update lets an admin change any account, including role and activation.
func (h *UserHandler) Update(c echo.Context) error {
	if err := authz.Authorize(principal(c), authz.Unowned, model.RoleAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AdminUserUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.applySelf(u, req.SelfUpdate); err != nil {
		return respondError(c, err)
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := h.Users.Update(ctx, u); err != nil {
		return respondError(c, err)
	}
	mw.Logger(c).Info("user updated by admin", zap.Uint64("user_id", u.ID), zap.Uint64("admin_id", principal(c).UserID))
	return c.JSON(http.StatusOK, dto.NewUser(u))
}

func (h *UserHandler) Delete(c echo.Context) error {
	if err := authz.Authorize(principal(c), authz.Unowned, model.RoleAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
