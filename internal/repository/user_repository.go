package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

type UserRepo struct{ DB *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an address before it is stored or
// compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u and fills its ID.  A taken email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	return r.CreateAccount(ctx, u, nil)
}

// CreateAccount inserts u and, when profile is non-nil, a supplier profile
// owned by u, in one transaction.  Nothing is written if either insert
// fails.
func (r *UserRepo) CreateAccount(ctx context.Context, u *model.User, profile *model.Supplier) error {
	u.Email = NormalizeEmail(u.Email)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if isDuplicate(err) {
				return ErrEmailExists
			}
			return err
		}
		if profile == nil {
			return nil
		}
		profile.UserID = u.ID
		return tx.Create(profile).Error
	})
	if errors.Is(err, ErrEmailExists) {
		return err
	}
	return translate(err, ErrUserNotFound)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &u, nil
}

// List returns users ordered by id.
func (r *UserRepo) List(ctx context.Context, p Page) ([]model.User, error) {
	var out []model.User
	err := p.apply(r.DB.WithContext(ctx).Order("id ASC")).Find(&out).Error
	return out, err
}

// Update writes every column of u.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	err := r.DB.WithContext(ctx).Save(u).Error
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return translate(err, ErrUserNotFound)
}

// Delete removes a user.  Users referenced by products or orders cannot be
// deleted and yield ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return translate(res.Error, ErrUserNotFound)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
