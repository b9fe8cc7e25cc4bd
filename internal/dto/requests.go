package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// ----- auth -----

// RegisterRequest creates a consumer or supplier account.  SupplierName,
// when given for a supplier, also creates the supplier profile.
type RegisterRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=8"`
	FullName     string     `json:"full_name" validate:"max=255"`
	Role         model.Role `json:"role" validate:"omitempty,signup_role"`
	SupplierName string     `json:"supplier_name" validate:"max=255"`
}

// LoginRequest accepts OAuth2 password-form fields (username, password) or
// JSON with either email or username.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login returns the identifier to look up, preferring username as the
// OAuth2 form does.
func (r LoginRequest) Login() string {
	if s := strings.TrimSpace(r.Username); s != "" {
		return s
	}
	return strings.TrimSpace(r.Email)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// ----- users -----

// SelfUpdate is what a user may change on their own account.
type SelfUpdate struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// AdminUserUpdate additionally allows role and activation changes.
type AdminUserUpdate struct {
	SelfUpdate
	Role     *model.Role `json:"role" validate:"omitempty,role"`
	IsActive *bool       `json:"is_active"`
}

// ----- products -----

type ProductCreate struct {
	Name          string                `json:"name" validate:"required,max=100"`
	Description   string                `json:"description"`
	Price         decimal.Decimal       `json:"price" validate:"required,money"`
	Unit          string                `json:"unit" validate:"max=20"`
	Category      model.ProductCategory `json:"category" validate:"required,category"`
	StockQuantity int                   `json:"stock_quantity" validate:"gte=0"`
	ImageURL      string                `json:"image_url" validate:"omitempty,url,max=255"`
	IsAvailable   *bool                 `json:"is_available"`
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name          *string                `json:"name" validate:"omitempty,min=1,max=100"`
	Description   *string                `json:"description"`
	Price         *decimal.Decimal       `json:"price" validate:"omitempty,money"`
	Unit          *string                `json:"unit" validate:"omitempty,min=1,max=20"`
	Category      *model.ProductCategory `json:"category" validate:"omitempty,category"`
	StockQuantity *int                   `json:"stock_quantity" validate:"omitempty,gte=0"`
	ImageURL      *string                `json:"image_url" validate:"omitempty,url,max=255"`
	IsAvailable   *bool                  `json:"is_available"`
}

// Apply copies the set fields onto p.
func (u ProductUpdate) Apply(p *model.Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Unit != nil {
		p.Unit = *u.Unit
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.StockQuantity != nil {
		p.StockQuantity = *u.StockQuantity
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.IsAvailable != nil {
		p.IsAvailable = *u.IsAvailable
	}
}

// StockAdjust adds Delta (positive or negative) to a product's stock.
type StockAdjust struct {
	Delta int `json:"delta" validate:"required"`
}

// ----- orders -----

// OrderItemCreate is one requested line.  UnitPrice defaults to the
// product's current price when omitted.
type OrderItemCreate struct {
	ProductID uint64           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,money"`
}

type OrderCreate struct {
	ShippingAddress string            `json:"shipping_address" validate:"required,max=255"`
	Status          model.OrderStatus `json:"status" validate:"omitempty,order_status"`
	SupplierID      *uint64           `json:"supplier_id"`
	Items           []OrderItemCreate `json:"items" validate:"required,min=1,dive"`
}

type OrderStatusUpdate struct {
	Status model.OrderStatus `json:"status" validate:"required,order_status"`
}

// ----- suppliers -----

type SupplierCreate struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description"`
	Category     string `json:"category" validate:"max=100"`
	Location     string `json:"location" validate:"max=255"`
	ResponseTime string `json:"response_time" validate:"max=50"`
}

// SupplierUpdate is partial.  Verified is honoured for admins only.
type SupplierUpdate struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	ResponseTime *string `json:"response_time" validate:"omitempty,max=50"`
	Verified     *bool   `json:"verified"`
}

// Apply copies the set fields onto s.  Verified is copied only when admin
// is true.
func (u SupplierUpdate) Apply(s *model.Supplier, admin bool) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Category != nil {
		s.Category = *u.Category
	}
	if u.Location != nil {
		s.Location = *u.Location
	}
	if u.ResponseTime != nil {
		s.ResponseTime = *u.ResponseTime
	}
	if u.Verified != nil && admin {
		s.Verified = *u.Verified
	}
}

type LinkRequestCreate struct {
	SupplierID uint64 `json:"supplier_id" validate:"required"`
	UserID     uint64 `json:"user_id" validate:"required"`
	Message    string `json:"message"`
}

type LinkRequestUpdate struct {
	Status model.LinkStatus `json:"status" validate:"required,link_status"`
}

// ----- team -----

type TeamMemberCreate struct {
	SupplierID uint64 `json:"supplier_id" validate:"required"`
	UserID     uint64 `json:"user_id" validate:"required"`
	Role       string `json:"role" validate:"required,max=50"`
}

type TeamMemberUpdate struct {
	Role     *string `json:"role" validate:"omitempty,min=1,max=50"`
	IsActive *bool   `json:"is_active"`
}

// ----- messages -----

type ConversationCreate struct {
	User1ID uint64 `json:"user1_id" validate:"required"`
	User2ID uint64 `json:"user2_id" validate:"required"`
}

type MessageCreate struct {
	ConversationID uint64 `json:"conversation_id" validate:"required"`
	SenderID       uint64 `json:"sender_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
}
