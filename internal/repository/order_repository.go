package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// OrderFilter narrows List.  Zero values mean "any".
type OrderFilter struct {
	UserID uint64
	Status model.OrderStatus
	Page   Page
}

type OrderRepo struct{ DB *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{DB: db} }

// CreateWithItems persists the order header, then each item pointing at
// the new order id, in one transaction.  o.TotalAmount must already be
// computed (see model.NewOrder).
func (r *OrderRepo) CreateWithItems(ctx context.Context, o *model.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := o.Items
		if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.ID
		}
		if len(items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}
		}
		o.Items = items
		return nil
	})
	return translate(err, ErrOrderNotFound)
}

// GetByID loads an order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	var o model.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error
	if err != nil {
		return nil, translate(err, ErrOrderNotFound)
	}
	return &o, nil
}

// List returns orders newest first, items preloaded.
func (r *OrderRepo) List(ctx context.Context, f OrderFilter) ([]model.Order, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Order{})
	if f.UserID != 0 {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	var out []model.Order
	err := f.Page.apply(tx.Order("created_at DESC").Order("id DESC")).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Find(&out).Error
	return out, err
}

// UpdateStatus sets the status of order id and returns the updated order
// together with the status it had before.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) (*model.Order, model.OrderStatus, error) {
	var (
		o    model.Order
		prev model.OrderStatus
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&o, id).Error; err != nil {
			return err
		}
		prev = o.Status
		if err := tx.Model(&o).Update("status", status).Error; err != nil {
			return err
		}
		o.Status = status
		return tx.Where("order_id = ?", o.ID).Order("id ASC").Find(&o.Items).Error
	})
	if err != nil {
		return nil, "", translate(err, ErrOrderNotFound)
	}
	return &o, prev, nil
}
