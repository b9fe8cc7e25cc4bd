package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/authz"
	"github.com/iliyamo/marketplace-backend/internal/dto"
	mw "github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

const defaultProductLimit = 100

// ProductHandler serves the public catalog and supplier-side product
// management.
type ProductHandler struct {
	Products  ProductStore
	Suppliers SupplierStore
	Cache     CacheInvalidator
}

func NewProductHandler(products ProductStore, suppliers SupplierStore, cache CacheInvalidator) *ProductHandler {
	if products == nil || suppliers == nil {
		panic("nil store passed to NewProductHandler")
	}
	return &ProductHandler{Products: products, Suppliers: suppliers, Cache: cache}
}

func (h *ProductHandler) invalidate(c echo.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(c.Request().Context(), CacheProducts); err != nil {
		mw.Logger(c).Warn("cache invalidate failed", zap.String("namespace", CacheProducts), zap.Error(err))
	}
}

// List searches by q when given, otherwise filters by category, otherwise
// returns everything.  owner_id and supplier_id narrow further.
func (h *ProductHandler) List(c echo.Context) error {
	f := repository.ProductFilter{
		Query: strings.TrimSpace(c.QueryParam("q")),
		Page:  pageFrom(c, defaultProductLimit),
	}
	if cat := c.QueryParam("category"); cat != "" {
		f.Category = model.ProductCategory(cat)
		if !f.Category.Valid() {
			return errorJSON(c, http.StatusBadRequest, "invalid category")
		}
	}
	if v := c.QueryParam("owner_id"); v != "" {
		f.OwnerID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v := c.QueryParam("supplier_id"); v != "" {
		f.SupplierID, _ = strconv.ParseUint(v, 10, 64)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Products.List(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewProducts(list))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewProduct(p))
}

// Create adds a product owned by the caller.  When the caller has a
// supplier profile the product is attached to it.
func (h *ProductHandler) Create(c echo.Context) error {
	p := principal(c)
	if err := authz.Authorize(p, authz.Unowned, model.RoleSupplier, model.RoleAdmin); err != nil {
		return errorJSON(c, http.StatusForbidden, "Only suppliers can create products")
	}
	var req dto.ProductCreate
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	prod := &model.Product{
		OwnerID:       p.UserID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		Unit:          req.Unit,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsAvailable:   true,
	}
	if req.IsAvailable != nil {
		prod.IsAvailable = *req.IsAvailable
	}
	sup, err := h.Suppliers.GetByUserID(ctx, p.UserID)
	switch {
	case err == nil:
		prod.SupplierID = &sup.ID
	case !errors.Is(err, repository.ErrNotFound):
		return respondError(c, err)
	}

	if err := h.Products.Create(ctx, prod); err != nil {
		return respondError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, dto.NewProduct(prod))
}

// loadOwned fetches product id and checks the caller owns it (or is an
// admin).  When ok is false the handler returns err unchanged.
func (h *ProductHandler) loadOwned(c echo.Context) (*model.Product, bool, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, false, err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	prod, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return nil, false, respondError(c, err)
	}
	if err := authz.Authorize(principal(c), authz.OwnedBy(prod.OwnerID)); err != nil {
		return nil, false, respondError(c, err)
	}
	return prod, true, nil
}

// Update applies a partial update.  A forbidden caller leaves the row
// untouched.
func (h *ProductHandler) Update(c echo.Context) error {
	prod, ok, err := h.loadOwned(c)
	if !ok {
		return err
	}
	var req dto.ProductUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Apply(prod)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Products.Update(ctx, prod); err != nil {
		return respondError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, dto.NewProduct(prod))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	prod, ok, err := h.loadOwned(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Products.Delete(ctx, prod.ID); err != nil {
		return respondError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// AdjustStock adds a signed delta to the stock.  The result may not drop
// below zero.
func (h *ProductHandler) AdjustStock(c echo.Context) error {
	prod, ok, err := h.loadOwned(c)
	if !ok {
		return err
	}
	var req dto.StockAdjust
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	updated, err := h.Products.AdjustStock(ctx, prod.ID, req.Delta)
	if errors.Is(err, repository.ErrConflict) {
		return errorJSON(c, http.StatusConflict, "Insufficient stock")
	}
	if err != nil {
		return respondError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, dto.NewProduct(updated))
}
