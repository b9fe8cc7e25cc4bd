package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// Ranked is one row of a "top N by order count" report.
type Ranked struct {
	ID         uint64
	Name       string
	OrderCount int64
}

// ConsumerSummary aggregates a purchaser's orders.
type ConsumerSummary struct {
	TotalOrders       int64
	CompletedOrders   int64 // delivered
	PendingOrders     int64 // processing or in-transit
	TotalSpent        decimal.Decimal
	RecentOrders      []model.Order // newest 5
	FavoriteSuppliers []Ranked      // top 5 by order count
}

// SupplierSummary aggregates sales and inventory of one supplier.
type SupplierSummary struct {
	TotalOrders      int64
	TotalRevenue     decimal.Decimal
	RecentRevenue    decimal.Decimal // orders created at or after the since argument
	TotalProducts    int64
	LowStockProducts int64         // stock below LowStockThreshold
	RecentOrders     []model.Order // newest 10
	TopProducts      []Ranked      // top 5 by order-item count
}

// LowStockThreshold is the stock level under which a product counts as low.
const LowStockThreshold = 10

type DashboardRepo struct{ DB *gorm.DB }

func NewDashboardRepo(db *gorm.DB) *DashboardRepo { return &DashboardRepo{DB: db} }

// ConsumerSummary computes the consumer report for userID.  The caller
// checks that the user exists.
func (r *DashboardRepo) ConsumerSummary(ctx context.Context, userID uint64) (*ConsumerSummary, error) {
	db := r.DB.WithContext(ctx)
	var counts struct {
		TotalOrders     int64
		CompletedOrders int64
		PendingOrders   int64
		TotalSpent      decimal.Decimal
	}
	err := db.Model(&model.Order{}).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_orders,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS pending_orders,
			COALESCE(SUM(total_amount), 0) AS total_spent`,
			model.OrderDelivered, []model.OrderStatus{model.OrderProcessing, model.OrderInTransit}).
		Where("user_id = ?", userID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	out := &ConsumerSummary{
		TotalOrders:     counts.TotalOrders,
		CompletedOrders: counts.CompletedOrders,
		PendingOrders:   counts.PendingOrders,
		TotalSpent:      counts.TotalSpent,
	}
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Limit(5).
		Find(&out.RecentOrders).Error; err != nil {
		return nil, err
	}
	err = db.Model(&model.Supplier{}).
		Select("suppliers.id AS id, suppliers.name AS name, COUNT(orders.id) AS order_count").
		Joins("JOIN orders ON orders.supplier_id = suppliers.id").
		Where("orders.user_id = ?", userID).
		Group("suppliers.id, suppliers.name").
		Order("order_count DESC").Order("suppliers.id ASC").
		Limit(5).
		Scan(&out.FavoriteSuppliers).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SupplierSummary computes the supplier report for supplierID.  Revenue
// from orders created at or after since is reported as RecentRevenue.
func (r *DashboardRepo) SupplierSummary(ctx context.Context, supplierID uint64, since time.Time) (*SupplierSummary, error) {
	db := r.DB.WithContext(ctx)
	var sales struct {
		TotalOrders   int64
		TotalRevenue  decimal.Decimal
		RecentRevenue decimal.Decimal
	}
	err := db.Model(&model.Order{}).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN total_amount ELSE 0 END), 0) AS recent_revenue`,
			since.UTC()).
		Where("supplier_id = ?", supplierID).
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}
	var stock struct {
		TotalProducts    int64
		LowStockProducts int64
	}
	err = db.Model(&model.Product{}).
		Select(`COUNT(*) AS total_products,
			COALESCE(SUM(CASE WHEN stock_quantity < ? THEN 1 ELSE 0 END), 0) AS low_stock_products`,
			LowStockThreshold).
		Where("supplier_id = ?", supplierID).
		Scan(&stock).Error
	if err != nil {
		return nil, err
	}

	out := &SupplierSummary{
		TotalOrders:      sales.TotalOrders,
		TotalRevenue:     sales.TotalRevenue,
		RecentRevenue:    sales.RecentRevenue,
		TotalProducts:    stock.TotalProducts,
		LowStockProducts: stock.LowStockProducts,
	}
	if err := db.Where("supplier_id = ?", supplierID).
		Order("created_at DESC").Order("id DESC").Limit(10).
		Find(&out.RecentOrders).Error; err != nil {
		return nil, err
	}
	err = db.Model(&model.Product{}).
		Select("products.id AS id, products.name AS name, COUNT(order_items.id) AS order_count").
		Joins("JOIN order_items ON order_items.product_id = products.id").
		Where("products.supplier_id = ?", supplierID).
		Group("products.id, products.name").
		Order("order_count DESC").Order("products.id ASC").
		Limit(5).
		Scan(&out.TopProducts).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
