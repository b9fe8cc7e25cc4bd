package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory is the closed set of catalog categories.
type ProductCategory string

const (
	CategoryVegetables ProductCategory = "vegetables"
	CategoryFruits     ProductCategory = "fruits"
	CategoryDairy      ProductCategory = "dairy"
	CategoryBakery     ProductCategory = "bakery"
	CategoryMeat       ProductCategory = "meat"
	CategorySeafood    ProductCategory = "seafood"
	CategoryBeverages  ProductCategory = "beverages"
	CategoryOther      ProductCategory = "other"
)

// Valid reports whether c belongs to the category enum.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryVegetables, CategoryFruits, CategoryDairy, CategoryBakery,
		CategoryMeat, CategorySeafood, CategoryBeverages, CategoryOther:
		return true
	}
	return false
}

// DefaultUnit is applied when a product is created without a unit.
const DefaultUnit = "kg"

// Product is a catalog entry.  OwnerID is the user who created it and is
// the only non-admin allowed to change it; SupplierID links it to the
// owner's supplier profile when one exists.
type Product struct {
	ID            uint64          `gorm:"primaryKey"`
	OwnerID       uint64          `gorm:"not null;index"`
	SupplierID    *uint64         `gorm:"index"`
	Name          string          `gorm:"size:100;not null;index"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit          string          `gorm:"size:20;not null;default:kg"`
	Category      ProductCategory `gorm:"size:20;not null;index"`
	StockQuantity int             `gorm:"not null;default:0"`
	ImageURL      string          `gorm:"size:255"`
	IsAvailable   bool            `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Owner    *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL"`
}
