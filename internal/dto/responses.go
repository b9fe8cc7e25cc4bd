package dto

import (
	"time"

	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

// Money values are rendered as JSON numbers.

type UserResponse struct {
	ID        uint64     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      model.Role `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewUser(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUsers(list []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, NewUser(&list[i]))
	}
	return out
}

// TokenResponse is returned by /token and /token/refresh.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresAt    time.Time    `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type ProductResponse struct {
	ID            uint64                `json:"id"`
	OwnerID       uint64                `json:"owner_id"`
	SupplierID    *uint64               `json:"supplier_id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Price         float64               `json:"price"`
	Unit          string                `json:"unit"`
	Category      model.ProductCategory `json:"category"`
	StockQuantity int                   `json:"stock_quantity"`
	ImageURL      string                `json:"image_url,omitempty"`
	IsAvailable   bool                  `json:"is_available"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func NewProduct(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		SupplierID:    p.SupplierID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.InexactFloat64(),
		Unit:          p.Unit,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		IsAvailable:   p.IsAvailable,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewProducts(list []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, NewProduct(&list[i]))
	}
	return out
}

type OrderItemResponse struct {
	ID        uint64    `json:"id"`
	OrderID   uint64    `json:"order_id"`
	ProductID uint64    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderResponse struct {
	ID              uint64              `json:"id"`
	UserID          uint64              `json:"user_id"`
	SupplierID      *uint64             `json:"supplier_id"`
	TotalAmount     float64             `json:"total_amount"`
	Status          model.OrderStatus   `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func NewOrder(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		SupplierID:      o.SupplierID,
		TotalAmount:     o.TotalAmount.InexactFloat64(),
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func NewOrders(list []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for i := range list {
		out = append(out, NewOrder(&list[i]))
	}
	return out
}

type SupplierResponse struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	Verified     bool      `json:"verified"`
	ResponseTime string    `json:"response_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewSupplier(s *model.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		Name:         s.Name,
		Description:  s.Description,
		Category:     s.Category,
		Location:     s.Location,
		Rating:       s.Rating.InexactFloat64(),
		ReviewCount:  s.ReviewCount,
		Verified:     s.Verified,
		ResponseTime: s.ResponseTime,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func NewSuppliers(list []model.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(list))
	for i := range list {
		out = append(out, NewSupplier(&list[i]))
	}
	return out
}

type LinkRequestResponse struct {
	ID         uint64           `json:"id"`
	SupplierID uint64           `json:"supplier_id"`
	UserID     uint64           `json:"user_id"`
	Message    string           `json:"message"`
	Status     model.LinkStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func NewLinkRequest(lr *model.LinkRequest) LinkRequestResponse {
	return LinkRequestResponse{
		ID:         lr.ID,
		SupplierID: lr.SupplierID,
		UserID:     lr.UserID,
		Message:    lr.Message,
		Status:     lr.Status,
		CreatedAt:  lr.CreatedAt,
		UpdatedAt:  lr.UpdatedAt,
	}
}

func NewLinkRequests(list []model.LinkRequest) []LinkRequestResponse {
	out := make([]LinkRequestResponse, 0, len(list))
	for i := range list {
		out = append(out, NewLinkRequest(&list[i]))
	}
	return out
}

// LinkRequestCreated acknowledges a new link request.
type LinkRequestCreated struct {
	ID      uint64           `json:"id"`
	Status  model.LinkStatus `json:"status"`
	Message string           `json:"message"`
}

type TeamMemberResponse struct {
	ID         uint64    `json:"id"`
	SupplierID uint64    `json:"supplier_id"`
	UserID     uint64    `json:"user_id"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewTeamMember(m *model.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		ID:         m.ID,
		SupplierID: m.SupplierID,
		UserID:     m.UserID,
		Role:       m.Role,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func NewTeamMembers(list []model.TeamMember) []TeamMemberResponse {
	out := make([]TeamMemberResponse, 0, len(list))
	for i := range list {
		out = append(out, NewTeamMember(&list[i]))
	}
	return out
}

type MessageResponse struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversation_id"`
	SenderID       uint64    `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewMessage(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func NewMessages(list []model.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(list))
	for i := range list {
		out = append(out, NewMessage(&list[i]))
	}
	return out
}

type ConversationResponse struct {
	ID        uint64    `json:"id"`
	User1ID   uint64    `json:"user1_id"`
	User2ID   uint64    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationDetail embeds the conversation's messages.
type ConversationDetail struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}

func NewConversation(c *model.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID,
		User1ID:   c.User1ID,
		User2ID:   c.User2ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewConversations(list []model.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewConversation(&list[i]))
	}
	return out
}

func NewConversationDetail(c *model.Conversation) ConversationDetail {
	return ConversationDetail{
		ConversationResponse: NewConversation(c),
		Messages:             NewMessages(c.Messages),
	}
}

// ----- dashboards -----

type RankedResponse struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	OrderCount int64  `json:"order_count"`
}

func newRanked(list []repository.Ranked) []RankedResponse {
	out := make([]RankedResponse, 0, len(list))
	for _, r := range list {
		out = append(out, RankedResponse{ID: r.ID, Name: r.Name, OrderCount: r.OrderCount})
	}
	return out
}

// ConsumerOrderSummary is a recent order on the consumer dashboard.
type ConsumerOrderSummary struct {
	ID          uint64            `json:"id"`
	SupplierID  *uint64           `json:"supplier_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount float64           `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ConsumerDashboard struct {
	UserID            uint64                 `json:"user_id"`
	TotalOrders       int64                  `json:"total_orders"`
	CompletedOrders   int64                  `json:"completed_orders"`
	PendingOrders     int64                  `json:"pending_orders"`
	TotalSpent        float64                `json:"total_spent"`
	RecentOrders      []ConsumerOrderSummary `json:"recent_orders"`
	FavoriteSuppliers []RankedResponse       `json:"favorite_suppliers"`
}

func NewConsumerDashboard(userID uint64, s *repository.ConsumerSummary) ConsumerDashboard {
	recent := make([]ConsumerOrderSummary, 0, len(s.RecentOrders))
	for _, o := range s.RecentOrders {
		recent = append(recent, ConsumerOrderSummary{
			ID:          o.ID,
			SupplierID:  o.SupplierID,
			Status:      o.Status,
			TotalAmount: o.TotalAmount.InexactFloat64(),
			CreatedAt:   o.CreatedAt,
		})
	}
	return ConsumerDashboard{
		UserID:            userID,
		TotalOrders:       s.TotalOrders,
		CompletedOrders:   s.CompletedOrders,
		PendingOrders:     s.PendingOrders,
		TotalSpent:        s.TotalSpent.InexactFloat64(),
		RecentOrders:      recent,
		FavoriteSuppliers: newRanked(s.FavoriteSuppliers),
	}
}

// SupplierOrderSummary is a recent order on the supplier dashboard.
type SupplierOrderSummary struct {
	ID          uint64            `json:"id"`
	UserID      uint64            `json:"user_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount float64           `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
}

type SupplierDashboard struct {
	UserID           uint64                 `json:"user_id"`
	SupplierID       uint64                 `json:"supplier_id"`
	SupplierName     string                 `json:"supplier_name"`
	TotalOrders      int64                  `json:"total_orders"`
	TotalRevenue     float64                `json:"total_revenue"`
	RecentRevenue    float64                `json:"recent_revenue"`
	TotalProducts    int64                  `json:"total_products"`
	LowStockProducts int64                  `json:"low_stock_products"`
	RecentOrders     []SupplierOrderSummary `json:"recent_orders"`
	TopProducts      []RankedResponse       `json:"top_products"`
}

func NewSupplierDashboard(userID uint64, sup *model.Supplier, s *repository.SupplierSummary) SupplierDashboard {
	recent := make([]SupplierOrderSummary, 0, len(s.RecentOrders))
	for _, o := range s.RecentOrders {
		recent = append(recent, SupplierOrderSummary{
			ID:          o.ID,
			UserID:      o.UserID,
			Status:      o.Status,
			TotalAmount: o.TotalAmount.InexactFloat64(),
			CreatedAt:   o.CreatedAt,
		})
	}
	return SupplierDashboard{
		UserID:           userID,
		SupplierID:       sup.ID,
		SupplierName:     sup.Name,
		TotalOrders:      s.TotalOrders,
		TotalRevenue:     s.TotalRevenue.InexactFloat64(),
		RecentRevenue:    s.RecentRevenue.InexactFloat64(),
		TotalProducts:    s.TotalProducts,
		LowStockProducts: s.LowStockProducts,
		RecentOrders:     recent,
		TopProducts:      newRanked(s.TopProducts),
	}
}
