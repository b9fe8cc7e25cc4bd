package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-backend/internal/dto"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

// recentRevenueWindow is how far back the supplier's recent revenue looks.
const recentRevenueWindow = 30 * 24 * time.Hour

// DashboardHandler serves the read-only consumer and supplier reports.
type DashboardHandler struct {
	Users     UserStore
	Suppliers SupplierStore
	Reports   DashboardStore
	Now       func() time.Time
}

func NewDashboardHandler(users UserStore, suppliers SupplierStore, reports DashboardStore) *DashboardHandler {
	if users == nil || suppliers == nil || reports == nil {
		panic("nil store passed to NewDashboardHandler")
	}
	return &DashboardHandler{Users: users, Suppliers: suppliers, Reports: reports, Now: time.Now}
}

func (h *DashboardHandler) Consumer(c echo.Context) error {
	uid, err := parseID(c, "user_id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, uid); err != nil {
		return respondError(c, err)
	}
	sum, err := h.Reports.ConsumerSummary(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewConsumerDashboard(uid, sum))
}

// Supplier reports on the supplier profile owned by user_id.  Both the
// user and the profile must exist.
func (h *DashboardHandler) Supplier(c echo.Context) error {
	uid, err := parseID(c, "user_id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, uid); err != nil {
		return respondError(c, err)
	}
	sup, err := h.Suppliers.GetByUserID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "Supplier profile not found")
	}
	if err != nil {
		return respondError(c, err)
	}
	sum, err := h.Reports.SupplierSummary(ctx, sup.ID, h.Now().UTC().Add(-recentRevenueWindow))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSupplierDashboard(uid, sup, sum))
}
