package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-backend/internal/dto"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

const defaultTeamLimit = 10

type TeamHandler struct {
	Team      TeamStore
	Suppliers SupplierStore
}

func NewTeamHandler(team TeamStore, suppliers SupplierStore) *TeamHandler {
	if team == nil || suppliers == nil {
		panic("nil store passed to NewTeamHandler")
	}
	return &TeamHandler{Team: team, Suppliers: suppliers}
}

func (h *TeamHandler) List(c echo.Context) error {
	sid, err := queryID(c, "supplier_id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Team.ListBySupplier(ctx, sid, pageFrom(c, defaultTeamLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewTeamMembers(list))
}

func (h *TeamHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Team.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewTeamMember(m))
}

// Create adds a user to a supplier's team.  The supplier must exist and
// the user may not already be a member.
func (h *TeamHandler) Create(c echo.Context) error {
	var req dto.TeamMemberCreate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Suppliers.GetByID(ctx, req.SupplierID); err != nil {
		return respondError(c, err)
	}
	if _, err := h.Team.Find(ctx, req.SupplierID, req.UserID); err == nil {
		return errorJSON(c, http.StatusBadRequest, "User is already a team member")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return respondError(c, err)
	}

	m := &model.TeamMember{
		SupplierID: req.SupplierID,
		UserID:     req.UserID,
		Role:       strings.TrimSpace(req.Role),
		IsActive:   true,
	}
	if err := h.Team.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return errorJSON(c, http.StatusBadRequest, "User is already a team member")
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewTeamMember(m))
}

func (h *TeamHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TeamMemberUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Team.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if req.Role != nil {
		m.Role = strings.TrimSpace(*req.Role)
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := h.Team.Update(ctx, m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewTeamMember(m))
}

func (h *TeamHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Team.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
