package model

import "time"

// Role is the account type stored on users.role.  It decides which write
// operations a caller may invoke.
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleSupplier, RoleAdmin:
		return true
	}
	return false
}

// User represents an account record as stored in the `users` table.
// Handlers never serialise this struct directly; response contracts in
// package dto strip the password hash.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash of the password.
//	FullName     – optional display name.
//	Role         – consumer, supplier or admin.
//	IsActive     – inactive accounts cannot log in or use tokens.
type User struct {
	ID           uint64    `gorm:"primaryKey"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	FullName     string    `gorm:"size:255"`
	Role         Role      `gorm:"size:20;not null;default:consumer;index"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is persisted.
type RefreshToken struct {
	ID        uint64     `gorm:"primaryKey"`
	UserID    uint64     `gorm:"not null;index"`
	TokenHash string     `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	RevokedAt *time.Time // nil while the token is still usable
	CreatedAt time.Time
}
