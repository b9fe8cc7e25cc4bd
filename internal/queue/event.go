// Package queue defines the order event payload exchanged over RabbitMQ and
// the background consumer that records it.
package queue

import (
	"time"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// OrderEventsQueue is the durable queue both sides declare.
const OrderEventsQueue = "order.events"

// Event types.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is published after an order is committed and after each
// status change.  It carries enough for downstream consumers to log or
// notify without reading the primary database.
type OrderEvent struct {
	Type           string            `json:"type"`
	OrderID        uint64            `json:"order_id"`
	UserID         uint64            `json:"user_id"`
	SupplierID     *uint64           `json:"supplier_id,omitempty"`
	Status         model.OrderStatus `json:"status"`
	PreviousStatus model.OrderStatus `json:"previous_status,omitempty"`
	TotalAmount    string            `json:"total_amount"`
	ItemCount      int               `json:"item_count"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// NewOrderCreated builds the event for a freshly created order.
func NewOrderCreated(o *model.Order) OrderEvent {
	return OrderEvent{
		Type:        OrderCreated,
		OrderID:     o.ID,
		UserID:      o.UserID,
		SupplierID:  o.SupplierID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount.StringFixed(2),
		ItemCount:   len(o.Items),
		OccurredAt:  time.Now().UTC(),
	}
}

// NewOrderStatusChanged builds the event for a status transition.
func NewOrderStatusChanged(o *model.Order, prev model.OrderStatus) OrderEvent {
	ev := NewOrderCreated(o)
	ev.Type = OrderStatusChanged
	ev.PreviousStatus = prev
	return ev
}
