package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is the public profile of a supplier account (1:1 with a user).
type Supplier struct {
	ID           uint64          `gorm:"primaryKey"`
	UserID       uint64          `gorm:"not null;uniqueIndex"`
	Name         string          `gorm:"size:255;not null;index"`
	Description  string          `gorm:"type:text"`
	Category     string          `gorm:"size:100"`
	Location     string          `gorm:"size:255"`
	Rating       decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount  int             `gorm:"not null;default:0"`
	Verified     bool            `gorm:"not null;default:false"`
	ResponseTime string          `gorm:"size:50"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TeamMember attaches a user to a supplier's staff.  Role is free text
// (manager, staff, ...) and unrelated to the account Role.
type TeamMember struct {
	ID         uint64 `gorm:"primaryKey"`
	SupplierID uint64 `gorm:"not null;uniqueIndex:idx_team_supplier_user"`
	UserID     uint64 `gorm:"not null;uniqueIndex:idx_team_supplier_user;index"`
	Role       string `gorm:"size:50;not null"`
	IsActive   bool   `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// LinkStatus is the state of a link request.
type LinkStatus string

const (
	LinkPending  LinkStatus = "pending"
	LinkAccepted LinkStatus = "accepted"
	LinkRejected LinkStatus = "rejected"
)

// Valid reports whether s is a known link request state.
func (s LinkStatus) Valid() bool {
	return s == LinkPending || s == LinkAccepted || s == LinkRejected
}

// LinkRequest is a relationship proposal from a user to a supplier.
type LinkRequest struct {
	ID         uint64     `gorm:"primaryKey"`
	UserID     uint64     `gorm:"not null;index"`
	SupplierID uint64     `gorm:"not null;index"`
	Message    string     `gorm:"type:text"`
	Status     LinkStatus `gorm:"size:20;not null;default:pending;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
}
