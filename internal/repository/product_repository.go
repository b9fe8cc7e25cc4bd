package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// ProductFilter narrows List.  Query takes precedence over Category, the
// same way the catalog endpoint does: a text search ignores the category.
type ProductFilter struct {
	Query      string
	Category   model.ProductCategory
	OwnerID    uint64
	SupplierID uint64
	Page       Page
}

type ProductRepo struct{ DB *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{DB: db} }

func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	if p.Unit == "" {
		p.Unit = model.DefaultUnit
	}
	return translate(r.DB.WithContext(ctx).Create(p).Error, ErrProductNotFound)
}

func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	return &p, nil
}

// GetMany loads the products with the given ids keyed by id.  Missing ids
// are simply absent from the map.
func (r *ProductRepo) GetMany(ctx context.Context, ids []uint64) (map[uint64]model.Product, error) {
	var list []model.Product
	if len(ids) > 0 {
		if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[uint64]model.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// List returns products matching f, ordered by id.  Query matches name or
// description case-insensitively.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Product{})
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	} else if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.OwnerID != 0 {
		tx = tx.Where("owner_id = ?", f.OwnerID)
	}
	if f.SupplierID != 0 {
		tx = tx.Where("supplier_id = ?", f.SupplierID)
	}
	var out []model.Product
	err := f.Page.apply(tx.Order("id ASC")).Find(&out).Error
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	return translate(r.DB.WithContext(ctx).Save(p).Error, ErrProductNotFound)
}

// Delete removes a product.  A product referenced by order items yields
// ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, ErrProductNotFound)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustStock adds delta (which may be negative) to the stock of product
// id.  The update is refused with ErrConflict when it would drop the
// stock below zero.  Order creation never calls it.
func (r *ProductRepo) AdjustStock(ctx context.Context, id uint64, delta int) (*model.Product, error) {
	var out model.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity + ? >= 0", id, delta).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if err := tx.First(&out, id).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	})
	if errors.Is(err, ErrConflict) {
		return nil, err
	}
	if err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	return &out, nil
}
