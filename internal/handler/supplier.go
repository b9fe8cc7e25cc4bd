package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/authz"
	"github.com/iliyamo/marketplace-backend/internal/dto"
	mw "github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

const defaultSupplierLimit = 10

// SupplierHandler serves supplier profiles and link requests.
type SupplierHandler struct {
	Suppliers SupplierStore
	Links     LinkRequestStore
	Cache     CacheInvalidator
}

func NewSupplierHandler(suppliers SupplierStore, links LinkRequestStore, cache CacheInvalidator) *SupplierHandler {
	if suppliers == nil || links == nil {
		panic("nil store passed to NewSupplierHandler")
	}
	return &SupplierHandler{Suppliers: suppliers, Links: links, Cache: cache}
}

func (h *SupplierHandler) invalidate(c echo.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(c.Request().Context(), CacheSuppliers); err != nil {
		mw.Logger(c).Warn("cache invalidate failed", zap.String("namespace", CacheSuppliers), zap.Error(err))
	}
}

func (h *SupplierHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Suppliers.List(ctx, repository.SupplierFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Page:     pageFrom(c, defaultSupplierLimit),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuppliers(list))
}

func (h *SupplierHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSupplier(s))
}

// Create registers the caller's own supplier profile.  A user has at most
// one.
func (h *SupplierHandler) Create(c echo.Context) error {
	p := principal(c)
	if err := authz.Authorize(p, authz.Unowned, model.RoleSupplier); err != nil {
		return errorJSON(c, http.StatusForbidden, "Only suppliers can create a supplier profile")
	}
	var req dto.SupplierCreate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Suppliers.GetByUserID(ctx, p.UserID); err == nil {
		return errorJSON(c, http.StatusBadRequest, "Supplier profile already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return respondError(c, err)
	}

	s := &model.Supplier{
		UserID:       p.UserID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		ResponseTime: req.ResponseTime,
	}
	if err := h.Suppliers.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return errorJSON(c, http.StatusBadRequest, "Supplier profile already exists")
		}
		return respondError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, dto.NewSupplier(s))
}

// Update edits a profile.  Only its owner or an admin may, and only an
// admin may change the verified flag.
func (h *SupplierHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SupplierUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	p := principal(c)
	if err := authz.Authorize(p, authz.OwnedBy(s.UserID)); err != nil {
		return respondError(c, err)
	}
	req.Apply(s, p.IsAdmin())
	if err := h.Suppliers.Update(ctx, s); err != nil {
		return respondError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, dto.NewSupplier(s))
}

// CreateLinkRequest records a pending request from a user to a supplier.
// Only one pending request per pair may exist.
func (h *SupplierHandler) CreateLinkRequest(c echo.Context) error {
	var req dto.LinkRequestCreate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Suppliers.GetByID(ctx, req.SupplierID); err != nil {
		return respondError(c, err)
	}
	if _, err := h.Links.FindPending(ctx, req.UserID, req.SupplierID); err == nil {
		return errorJSON(c, http.StatusBadRequest, "Link request already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return respondError(c, err)
	}

	lr := &model.LinkRequest{
		UserID:     req.UserID,
		SupplierID: req.SupplierID,
		Message:    req.Message,
		Status:     model.LinkPending,
	}
	if err := h.Links.Create(ctx, lr); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LinkRequestCreated{
		ID:      lr.ID,
		Status:  lr.Status,
		Message: "Link request sent successfully",
	})
}

// statusFilter reads the optional ?status= for link request listings.
func statusFilter(c echo.Context) (model.LinkStatus, error) {
	s := model.LinkStatus(c.QueryParam("status"))
	if s != "" && !s.Valid() {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	return s, nil
}

func (h *SupplierHandler) LinkRequestsByUser(c echo.Context) error {
	uid, err := parseID(c, "user_id")
	if err != nil {
		return err
	}
	status, err := statusFilter(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Links.ListByUser(ctx, uid, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewLinkRequests(list))
}

func (h *SupplierHandler) LinkRequestsBySupplier(c echo.Context) error {
	sid, err := parseID(c, "supplier_id")
	if err != nil {
		return err
	}
	status, err := statusFilter(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Links.ListBySupplier(ctx, sid, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewLinkRequests(list))
}

func (h *SupplierHandler) UpdateLinkRequest(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.LinkRequestUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	lr, err := h.Links.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewLinkRequest(lr))
}
