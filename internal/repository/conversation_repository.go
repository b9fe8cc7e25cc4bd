package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

type ConversationRepo struct{ DB *gorm.DB }

func NewConversationRepo(db *gorm.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

// Create stores c with its pair normalized.  A second conversation for the
// same pair fails with ErrDuplicate.
func (r *ConversationRepo) Create(ctx context.Context, c *model.Conversation) error {
	c.Normalize()
	return translate(r.DB.WithContext(ctx).Omit("Messages").Create(c).Error, ErrConversationNotFound)
}

// GetByID loads a conversation with its messages, oldest first.
func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	var c model.Conversation
	err := r.DB.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
		First(&c, id).Error
	if err != nil {
		return nil, translate(err, ErrConversationNotFound)
	}
	return &c, nil
}

// FindBetween returns the conversation between a and b in either order.
func (r *ConversationRepo) FindBetween(ctx context.Context, a, b uint64) (*model.Conversation, error) {
	var c model.Conversation
	err := r.DB.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)", a, b, b, a).
		Order("id ASC").
		First(&c).Error
	if err != nil {
		return nil, translate(err, ErrConversationNotFound)
	}
	return &c, nil
}

// ListForUser returns conversations where userID is either party.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID uint64, p Page) ([]model.Conversation, error) {
	var out []model.Conversation
	err := p.apply(r.DB.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").Order("id DESC")).
		Find(&out).Error
	return out, err
}

type MessageRepo struct{ DB *gorm.DB }

func NewMessageRepo(db *gorm.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create stores m and bumps the conversation's updated_at so recently
// active conversations list first.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sender").Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", m.ConversationID).
			Update("updated_at", m.CreatedAt).Error
	})
	return translate(err, ErrMessageNotFound)
}

func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	var m model.Message
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, ErrMessageNotFound)
	}
	return &m, nil
}

// ListByConversation pages through a conversation oldest first.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uint64, p Page) ([]model.Message, error) {
	var out []model.Message
	err := p.apply(r.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").Order("id ASC")).
		Find(&out).Error
	return out, err
}

// MarkRead flags message id as read and returns it.
func (r *MessageRepo) MarkRead(ctx context.Context, id uint64) (*model.Message, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(m).Update("is_read", true).Error; err != nil {
		return nil, translate(err, ErrMessageNotFound)
	}
	m.IsRead = true
	return m, nil
}

func (r *MessageRepo) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Message{}, id)
	if res.Error != nil {
		return translate(res.Error, ErrMessageNotFound)
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
