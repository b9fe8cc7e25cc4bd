package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

type TeamRepo struct{ DB *gorm.DB }

func NewTeamRepo(db *gorm.DB) *TeamRepo { return &TeamRepo{DB: db} }

// Create adds a member.  The (supplier, user) pair is unique; a second
// insert yields ErrDuplicate.
func (r *TeamRepo) Create(ctx context.Context, m *model.TeamMember) error {
	return translate(r.DB.WithContext(ctx).Create(m).Error, ErrTeamMemberNotFound)
}

func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*model.TeamMember, error) {
	var m model.TeamMember
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, ErrTeamMemberNotFound)
	}
	return &m, nil
}

// Find returns the membership of userID in supplierID.
func (r *TeamRepo) Find(ctx context.Context, supplierID, userID uint64) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.DB.WithContext(ctx).
		Where("supplier_id = ? AND user_id = ?", supplierID, userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err, ErrTeamMemberNotFound)
	}
	return &m, nil
}

func (r *TeamRepo) ListBySupplier(ctx context.Context, supplierID uint64, p Page) ([]model.TeamMember, error) {
	var out []model.TeamMember
	err := p.apply(r.DB.WithContext(ctx).Where("supplier_id = ?", supplierID).Order("id ASC")).
		Find(&out).Error
	return out, err
}

func (r *TeamRepo) Update(ctx context.Context, m *model.TeamMember) error {
	return translate(r.DB.WithContext(ctx).Save(m).Error, ErrTeamMemberNotFound)
}

func (r *TeamRepo) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.TeamMember{}, id)
	if res.Error != nil {
		return translate(res.Error, ErrTeamMemberNotFound)
	}
	if res.RowsAffected == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}
