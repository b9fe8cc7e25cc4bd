package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// SupplierFilter narrows List.  Search matches name or description and
// Category is a substring match, both case-insensitive.
type SupplierFilter struct {
	Search   string
	Category string
	Page     Page
}

type SupplierRepo struct{ DB *gorm.DB }

func NewSupplierRepo(db *gorm.DB) *SupplierRepo { return &SupplierRepo{DB: db} }

// Create inserts a profile.  A second profile for the same user yields
// ErrDuplicate.
func (r *SupplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return translate(r.DB.WithContext(ctx).Create(s).Error, ErrSupplierNotFound)
}

func (r *SupplierRepo) GetByID(ctx context.Context, id uint64) (*model.Supplier, error) {
	var s model.Supplier
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, ErrSupplierNotFound)
	}
	return &s, nil
}

// GetByUserID returns the profile owned by userID.
func (r *SupplierRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Supplier, error) {
	var s model.Supplier
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, translate(err, ErrSupplierNotFound)
	}
	return &s, nil
}

func (r *SupplierRepo) List(ctx context.Context, f SupplierFilter) ([]model.Supplier, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Supplier{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		tx = tx.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(c)+"%")
	}
	var out []model.Supplier
	err := f.Page.apply(tx.Order("id ASC")).Find(&out).Error
	return out, err
}

func (r *SupplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return translate(r.DB.WithContext(ctx).Save(s).Error, ErrSupplierNotFound)
}
