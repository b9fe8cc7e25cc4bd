package handler

import (
	"context"
	"time"

	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/queue"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

// The interfaces below are the subsets of the repositories each handler
// uses.  The *Repo types in internal/repository satisfy them.

type UserStore interface {
	CreateAccount(ctx context.Context, u *model.User, profile *model.Supplier) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context, p repository.Page) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint64) error
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AccessRevoker denies an access token id until exp.
type AccessRevoker interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
}

type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
	GetMany(ctx context.Context, ids []uint64) (map[uint64]model.Product, error)
	List(ctx context.Context, f repository.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
	AdjustStock(ctx context.Context, id uint64, delta int) (*model.Product, error)
}

type OrderStore interface {
	CreateWithItems(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	List(ctx context.Context, f repository.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) (*model.Order, model.OrderStatus, error)
}

type SupplierStore interface {
	Create(ctx context.Context, s *model.Supplier) error
	GetByID(ctx context.Context, id uint64) (*model.Supplier, error)
	GetByUserID(ctx context.Context, userID uint64) (*model.Supplier, error)
	List(ctx context.Context, f repository.SupplierFilter) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
}

type LinkRequestStore interface {
	Create(ctx context.Context, lr *model.LinkRequest) error
	GetByID(ctx context.Context, id uint64) (*model.LinkRequest, error)
	FindPending(ctx context.Context, userID, supplierID uint64) (*model.LinkRequest, error)
	ListByUser(ctx context.Context, userID uint64, status model.LinkStatus) ([]model.LinkRequest, error)
	ListBySupplier(ctx context.Context, supplierID uint64, status model.LinkStatus) ([]model.LinkRequest, error)
	UpdateStatus(ctx context.Context, id uint64, status model.LinkStatus) (*model.LinkRequest, error)
}

type TeamStore interface {
	Create(ctx context.Context, m *model.TeamMember) error
	GetByID(ctx context.Context, id uint64) (*model.TeamMember, error)
	Find(ctx context.Context, supplierID, userID uint64) (*model.TeamMember, error)
	ListBySupplier(ctx context.Context, supplierID uint64, p repository.Page) ([]model.TeamMember, error)
	Update(ctx context.Context, m *model.TeamMember) error
	Delete(ctx context.Context, id uint64) error
}

type ConversationStore interface {
	Create(ctx context.Context, c *model.Conversation) error
	GetByID(ctx context.Context, id uint64) (*model.Conversation, error)
	FindBetween(ctx context.Context, a, b uint64) (*model.Conversation, error)
	ListForUser(ctx context.Context, userID uint64, p repository.Page) ([]model.Conversation, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id uint64) (*model.Message, error)
	ListByConversation(ctx context.Context, conversationID uint64, p repository.Page) ([]model.Message, error)
	MarkRead(ctx context.Context, id uint64) (*model.Message, error)
	Delete(ctx context.Context, id uint64) error
}

type DashboardStore interface {
	ConsumerSummary(ctx context.Context, userID uint64) (*repository.ConsumerSummary, error)
	SupplierSummary(ctx context.Context, supplierID uint64, since time.Time) (*repository.SupplierSummary, error)
}

// EventPublisher sends order events.  Failures never fail a request.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev queue.OrderEvent) error
}

// CacheInvalidator drops cached responses of the named namespaces.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, namespaces ...string) error
}

// Cache namespaces used by the router and invalidated by writes.
const (
	CacheProducts  = "products"
	CacheSuppliers = "suppliers"
)
