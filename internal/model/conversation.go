package model

import "time"

// Conversation is an unordered pair of users, stored with User1ID <
// User2ID so the unique pair index covers both orders.
type Conversation struct {
	ID        uint64 `gorm:"primaryKey"`
	User1ID   uint64 `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1"`
	User2ID   uint64 `gorm:"not null;index;uniqueIndex:idx_conversation_pair,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// Normalize orders the pair so the lower user id comes first.
func (c *Conversation) Normalize() {
	if c.User1ID > c.User2ID {
		c.User1ID, c.User2ID = c.User2ID, c.User1ID
	}
}

// Involves reports whether userID is one of the two parties.
func (c Conversation) Involves(userID uint64) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Message is a single chat line authored by SenderID.
type Message struct {
	ID             uint64 `gorm:"primaryKey"`
	ConversationID uint64 `gorm:"not null;index"`
	SenderID       uint64 `gorm:"not null;index"`
	Content        string `gorm:"type:text;not null"`
	IsRead         bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Sender *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
}

// All returns every persisted model, in dependency order, for migrations.
func All() []any {
	return []any{
		&User{}, &RefreshToken{}, &Supplier{}, &Product{}, &Order{}, &OrderItem{},
		&TeamMember{}, &LinkRequest{}, &Conversation{}, &Message{},
	}
}
