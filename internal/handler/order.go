package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/authz"
	"github.com/iliyamo/marketplace-backend/internal/dto"
	mw "github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/queue"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

const (
	defaultOrderLimit = 100
	publishTimeout    = 5 * time.Second
)

// OrderHandler serves order placement, lookup and status changes.
type OrderHandler struct {
	Orders   OrderStore
	Products ProductStore
	Events   EventPublisher
	Log      *zap.Logger
}

func NewOrderHandler(orders OrderStore, products ProductStore, events EventPublisher, log *zap.Logger) *OrderHandler {
	if orders == nil || products == nil {
		panic("nil store passed to NewOrderHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHandler{Orders: orders, Products: products, Events: events, Log: log}
}

// publish sends ev from a background goroutine; failures are only logged.
func (h *OrderHandler) publish(ev queue.OrderEvent) {
	if h.Events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := h.Events.PublishOrderEvent(ctx, ev); err != nil {
			h.Log.Warn("order event not published",
				zap.String("type", ev.Type), zap.Uint64("order_id", ev.OrderID), zap.Error(err))
		}
	}()
}

// Create places an order for the calling consumer.  Every product must
// exist; a missing unit_price takes the product's current price.  The
// total is computed before anything is written and stock is not touched.
func (h *OrderHandler) Create(c echo.Context) error {
	p := principal(c)
	if err := authz.Authorize(p, authz.Unowned, model.RoleConsumer); err != nil {
		return errorJSON(c, http.StatusForbidden, "Only consumers can create orders")
	}
	var req dto.OrderCreate
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ids := make([]uint64, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := h.Products.GetMany(ctx, ids)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		prod, ok := products[it.ProductID]
		if !ok {
			return respondError(c, repository.ErrProductNotFound)
		}
		price := prod.Price
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		items = append(items, model.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: price})
	}

	supplierID := req.SupplierID
	if supplierID == nil {
		supplierID = products[req.Items[0].ProductID].SupplierID
	}
	o := model.NewOrder(p.UserID, supplierID, strings.TrimSpace(req.ShippingAddress), req.Status, items)
	if err := h.Orders.CreateWithItems(ctx, o); err != nil {
		return respondError(c, err)
	}

	mw.Logger(c).Info("order created",
		zap.Uint64("order_id", o.ID),
		zap.Uint64("user_id", o.UserID),
		zap.String("total", o.TotalAmount.StringFixed(2)),
	)
	h.publish(queue.NewOrderCreated(o))
	return c.JSON(http.StatusCreated, dto.NewOrder(o))
}

// List returns every order (optionally by status) to admins and only the
// caller's own orders to everyone else.
func (h *OrderHandler) List(c echo.Context) error {
	p := principal(c)
	f := repository.OrderFilter{Page: pageFrom(c, defaultOrderLimit)}
	if p.IsAdmin() {
		if s := c.QueryParam("status"); s != "" {
			f.Status = model.OrderStatus(s)
			if !f.Status.Valid() {
				return errorJSON(c, http.StatusBadRequest, "invalid status")
			}
		}
	} else {
		f.UserID = p.UserID
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Orders.List(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewOrders(list))
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := authz.Authorize(principal(c), authz.OwnedBy(o.UserID)); err != nil {
		return errorJSON(c, http.StatusForbidden, "Not enough permissions to view this order")
	}
	return c.JSON(http.StatusOK, dto.NewOrder(o))
}

// UpdateStatus sets an order's status.  Any supplier may change any order;
// there is no supplier ownership check.  The status comes from the query
// string or, failing that, the JSON body.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	if err := authz.Authorize(principal(c), authz.Unowned, model.RoleAdmin, model.RoleSupplier); err != nil {
		return errorJSON(c, http.StatusForbidden, "Not enough permissions to update this order")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	req := dto.OrderStatusUpdate{Status: model.OrderStatus(c.QueryParam("status"))}
	if req.Status == "" {
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid body")
		}
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, dto.Message(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	o, prev, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	mw.Logger(c).Info("order status changed",
		zap.Uint64("order_id", o.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(o.Status)),
	)
	h.publish(queue.NewOrderStatusChanged(o, prev))
	return c.JSON(http.StatusOK, dto.NewOrder(o))
}

// ListByUser is the admin view of one user's orders.
func (h *OrderHandler) ListByUser(c echo.Context) error {
	if err := authz.Authorize(principal(c), authz.Unowned, model.RoleAdmin); err != nil {
		return errorJSON(c, http.StatusForbidden, "Only admins can view orders by user")
	}
	uid, err := parseID(c, "user_id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Orders.List(ctx, repository.OrderFilter{UserID: uid, Page: pageFrom(c, defaultOrderLimit)})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewOrders(list))
}
