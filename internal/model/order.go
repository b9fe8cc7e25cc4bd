package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.  The usual progression is
// pending → processing → in-transit → delivered; cancelled is terminal.
// Transitions are not enforced.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderInTransit  OrderStatus = "in-transit"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderInTransit, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order records a purchase by a consumer.  TotalAmount is computed once
// from the items when the order is built and never recomputed.
//
// Fields:
//
//	ID              – primary key identifier.
//	UserID          – purchasing user.
//	SupplierID      – supplier fulfilling the order, when known.
//	TotalAmount     – Σ(quantity × unit_price) at creation.
//	Status          – see OrderStatus.
//	ShippingAddress – free-form delivery address.
type Order struct {
	ID              uint64          `gorm:"primaryKey"`
	UserID          uint64          `gorm:"not null;index"`
	SupplierID      *uint64         `gorm:"index"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          OrderStatus     `gorm:"size:20;not null;default:pending;index"`
	ShippingAddress string          `gorm:"size:255;not null"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time

	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User     *User       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Supplier *Supplier   `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL"`
}

// OrderItem is one line of an order.  UnitPrice is a snapshot and is not
// affected by later product price changes.
type OrderItem struct {
	ID        uint64          `gorm:"primaryKey"`
	OrderID   uint64          `gorm:"not null;index"`
	ProductID uint64          `gorm:"not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// Subtotal returns quantity × unit price for the line.
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// OrderTotal sums the subtotals of items.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// MoneyPlaces is the scale of every decimal(12,2) money column.
const MoneyPlaces = 2

// NewOrder builds an unsaved order for userID with its items and a total
// computed from them.  Unit prices are rounded to cents first so the total
// matches what the columns store.  An empty status defaults to pending.
func NewOrder(userID uint64, supplierID *uint64, address string, status OrderStatus, items []OrderItem) *Order {
	if status == "" {
		status = OrderPending
	}
	for i := range items {
		items[i].UnitPrice = items[i].UnitPrice.Round(MoneyPlaces)
	}
	return &Order{
		UserID:          userID,
		SupplierID:      supplierID,
		ShippingAddress: address,
		Status:          status,
		Items:           items,
		TotalAmount:     OrderTotal(items),
	}
}
