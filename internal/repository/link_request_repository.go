package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

type LinkRequestRepo struct{ DB *gorm.DB }

func NewLinkRequestRepo(db *gorm.DB) *LinkRequestRepo { return &LinkRequestRepo{DB: db} }

func (r *LinkRequestRepo) Create(ctx context.Context, lr *model.LinkRequest) error {
	if lr.Status == "" {
		lr.Status = model.LinkPending
	}
	return translate(r.DB.WithContext(ctx).Create(lr).Error, ErrLinkRequestNotFound)
}

func (r *LinkRequestRepo) GetByID(ctx context.Context, id uint64) (*model.LinkRequest, error) {
	var lr model.LinkRequest
	if err := r.DB.WithContext(ctx).First(&lr, id).Error; err != nil {
		return nil, translate(err, ErrLinkRequestNotFound)
	}
	return &lr, nil
}

// FindPending returns the pending request from userID to supplierID, or
// ErrLinkRequestNotFound.
func (r *LinkRequestRepo) FindPending(ctx context.Context, userID, supplierID uint64) (*model.LinkRequest, error) {
	var lr model.LinkRequest
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND supplier_id = ? AND status = ?", userID, supplierID, model.LinkPending).
		First(&lr).Error
	if err != nil {
		return nil, translate(err, ErrLinkRequestNotFound)
	}
	return &lr, nil
}

// ListByUser returns requests sent by userID, optionally filtered by status.
func (r *LinkRequestRepo) ListByUser(ctx context.Context, userID uint64, status model.LinkStatus) ([]model.LinkRequest, error) {
	return r.list(ctx, "user_id = ?", userID, status)
}

// ListBySupplier returns requests received by supplierID.
func (r *LinkRequestRepo) ListBySupplier(ctx context.Context, supplierID uint64, status model.LinkStatus) ([]model.LinkRequest, error) {
	return r.list(ctx, "supplier_id = ?", supplierID, status)
}

func (r *LinkRequestRepo) list(ctx context.Context, cond string, id uint64, status model.LinkStatus) ([]model.LinkRequest, error) {
	tx := r.DB.WithContext(ctx).Where(cond, id)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var out []model.LinkRequest
	err := tx.Order("id ASC").Find(&out).Error
	return out, err
}

// UpdateStatus sets the status of request id and returns the row.
func (r *LinkRequestRepo) UpdateStatus(ctx context.Context, id uint64, status model.LinkStatus) (*model.LinkRequest, error) {
	lr, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(lr).Update("status", status).Error; err != nil {
		return nil, translate(err, ErrLinkRequestNotFound)
	}
	lr.Status = status
	return lr, nil
}
