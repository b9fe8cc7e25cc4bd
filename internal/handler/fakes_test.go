package handler_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/queue"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

// memDB is an in-memory stand-in for the GORM repositories.  Every fake
// store shares one memDB so cross-entity lookups behave like the real
// database.
type memDB struct {
	mu     sync.Mutex
	nextID uint64

	users         map[uint64]*model.User
	refresh       map[string]uint64
	products      map[uint64]*model.Product
	orders        map[uint64]*model.Order
	suppliers     map[uint64]*model.Supplier
	links         map[uint64]*model.LinkRequest
	team          map[uint64]*model.TeamMember
	conversations map[uint64]*model.Conversation
	messages      map[uint64]*model.Message
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[uint64]*model.User{},
		refresh:       map[string]uint64{},
		products:      map[uint64]*model.Product{},
		orders:        map[uint64]*model.Order{},
		suppliers:     map[uint64]*model.Supplier{},
		links:         map[uint64]*model.LinkRequest{},
		team:          map[uint64]*model.TeamMember{},
		conversations: map[uint64]*model.Conversation{},
		messages:      map[uint64]*model.Message{},
	}
}

func (db *memDB) id() uint64 {
	db.nextID++
	return db.nextID
}

func sortedKeys[T any](m map[uint64]T) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func window[T any](list []T, p repository.Page) []T {
	if p.Skip >= len(list) {
		return nil
	}
	list = list[p.Skip:]
	if p.Limit > 0 && p.Limit < len(list) {
		list = list[:p.Limit]
	}
	return list
}

// ----- users -----

type memUsers struct{ db *memDB }

func (s memUsers) CreateAccount(_ context.Context, u *model.User, profile *model.Supplier) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, other := range s.db.users {
		if other.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = s.db.id()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.db.users[u.ID] = &cp
	if profile != nil {
		profile.ID = s.db.id()
		profile.UserID = u.ID
		sp := *profile
		s.db.suppliers[profile.ID] = &sp
	}
	return nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	email = repository.NormalizeEmail(email)
	for _, u := range s.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) List(_ context.Context, p repository.Page) ([]model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.User
	for _, id := range sortedKeys(s.db.users) {
		out = append(out, *s.db.users[id])
	}
	return window(out, p), nil
}

func (s memUsers) Update(_ context.Context, u *model.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *u
	s.db.users[u.ID] = &cp
	return nil
}

func (s memUsers) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.db.users, id)
	return nil
}

// ----- refresh tokens -----

type memTokens struct{ db *memDB }

func (s memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.refresh[hash] = userID
	return nil
}

func (s memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	uid, ok := s.db.refresh[hash]
	if !ok {
		return 0, repository.ErrRefreshNotFound
	}
	return uid, nil
}

func (s memTokens) RevokeByHash(_ context.Context, hash string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.refresh, hash)
	return nil
}

func (s memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for h, uid := range s.db.refresh {
		if uid == userID {
			delete(s.db.refresh, h)
		}
	}
	return nil
}

// ----- products -----

type memProducts struct{ db *memDB }

func (s memProducts) Create(_ context.Context, p *model.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p.ID = s.db.id()
	if p.Unit == "" {
		p.Unit = model.DefaultUnit
	}
	cp := *p
	s.db.products[p.ID] = &cp
	return nil
}

func (s memProducts) GetByID(_ context.Context, id uint64) (*model.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s memProducts) GetMany(_ context.Context, ids []uint64) (map[uint64]model.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := map[uint64]model.Product{}
	for _, id := range ids {
		if p, ok := s.db.products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (s memProducts) List(_ context.Context, f repository.ProductFilter) ([]model.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Product
	for _, id := range sortedKeys(s.db.products) {
		p := s.db.products[id]
		if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.OwnerID != 0 && p.OwnerID != f.OwnerID {
			continue
		}
		out = append(out, *p)
	}
	return window(out, f.Page), nil
}

func (s memProducts) Update(_ context.Context, p *model.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *p
	s.db.products[p.ID] = &cp
	return nil
}

func (s memProducts) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(s.db.products, id)
	return nil
}

func (s memProducts) AdjustStock(_ context.Context, id uint64, delta int) (*model.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if p.StockQuantity+delta < 0 {
		return nil, repository.ErrConflict
	}
	p.StockQuantity += delta
	cp := *p
	return &cp, nil
}

// ----- orders -----

type memOrders struct{ db *memDB }

func (s memOrders) CreateWithItems(_ context.Context, o *model.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o.ID = s.db.id()
	o.CreatedAt = time.Now().UTC()
	for i := range o.Items {
		o.Items[i].ID = s.db.id()
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	s.db.orders[o.ID] = &cp
	return nil
}

func (s memOrders) GetByID(_ context.Context, id uint64) (*model.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s memOrders) List(_ context.Context, f repository.OrderFilter) ([]model.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Order
	for _, id := range sortedKeys(s.db.orders) {
		o := s.db.orders[id]
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, *o)
	}
	return window(out, f.Page), nil
}

func (s memOrders) UpdateStatus(_ context.Context, id uint64, status model.OrderStatus) (*model.Order, model.OrderStatus, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return nil, "", repository.ErrOrderNotFound
	}
	prev := o.Status
	o.Status = status
	cp := *o
	return &cp, prev, nil
}

// ----- suppliers and link requests -----

type memSuppliers struct{ db *memDB }

func (s memSuppliers) Create(_ context.Context, sup *model.Supplier) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, other := range s.db.suppliers {
		if other.UserID == sup.UserID {
			return repository.ErrDuplicate
		}
	}
	sup.ID = s.db.id()
	cp := *sup
	s.db.suppliers[sup.ID] = &cp
	return nil
}

func (s memSuppliers) GetByID(_ context.Context, id uint64) (*model.Supplier, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sup, ok := s.db.suppliers[id]
	if !ok {
		return nil, repository.ErrSupplierNotFound
	}
	cp := *sup
	return &cp, nil
}

func (s memSuppliers) GetByUserID(_ context.Context, userID uint64) (*model.Supplier, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, sup := range s.db.suppliers {
		if sup.UserID == userID {
			cp := *sup
			return &cp, nil
		}
	}
	return nil, repository.ErrSupplierNotFound
}

func (s memSuppliers) List(_ context.Context, f repository.SupplierFilter) ([]model.Supplier, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Supplier
	for _, id := range sortedKeys(s.db.suppliers) {
		out = append(out, *s.db.suppliers[id])
	}
	return window(out, f.Page), nil
}

func (s memSuppliers) Update(_ context.Context, sup *model.Supplier) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *sup
	s.db.suppliers[sup.ID] = &cp
	return nil
}

type memLinks struct{ db *memDB }

func (s memLinks) Create(_ context.Context, lr *model.LinkRequest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	lr.ID = s.db.id()
	cp := *lr
	s.db.links[lr.ID] = &cp
	return nil
}

func (s memLinks) GetByID(_ context.Context, id uint64) (*model.LinkRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	lr, ok := s.db.links[id]
	if !ok {
		return nil, repository.ErrLinkRequestNotFound
	}
	cp := *lr
	return &cp, nil
}

func (s memLinks) FindPending(_ context.Context, userID, supplierID uint64) (*model.LinkRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, lr := range s.db.links {
		if lr.UserID == userID && lr.SupplierID == supplierID && lr.Status == model.LinkPending {
			cp := *lr
			return &cp, nil
		}
	}
	return nil, repository.ErrLinkRequestNotFound
}

func (s memLinks) list(match func(*model.LinkRequest) bool, status model.LinkStatus) []model.LinkRequest {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.LinkRequest
	for _, id := range sortedKeys(s.db.links) {
		lr := s.db.links[id]
		if match(lr) && (status == "" || lr.Status == status) {
			out = append(out, *lr)
		}
	}
	return out
}

func (s memLinks) ListByUser(_ context.Context, userID uint64, status model.LinkStatus) ([]model.LinkRequest, error) {
	return s.list(func(lr *model.LinkRequest) bool { return lr.UserID == userID }, status), nil
}

func (s memLinks) ListBySupplier(_ context.Context, supplierID uint64, status model.LinkStatus) ([]model.LinkRequest, error) {
	return s.list(func(lr *model.LinkRequest) bool { return lr.SupplierID == supplierID }, status), nil
}

func (s memLinks) UpdateStatus(_ context.Context, id uint64, status model.LinkStatus) (*model.LinkRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	lr, ok := s.db.links[id]
	if !ok {
		return nil, repository.ErrLinkRequestNotFound
	}
	lr.Status = status
	cp := *lr
	return &cp, nil
}

// ----- team -----

type memTeam struct{ db *memDB }

func (s memTeam) Create(_ context.Context, m *model.TeamMember) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, other := range s.db.team {
		if other.SupplierID == m.SupplierID && other.UserID == m.UserID {
			return repository.ErrDuplicate
		}
	}
	m.ID = s.db.id()
	cp := *m
	s.db.team[m.ID] = &cp
	return nil
}

func (s memTeam) GetByID(_ context.Context, id uint64) (*model.TeamMember, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.team[id]
	if !ok {
		return nil, repository.ErrTeamMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (s memTeam) Find(_ context.Context, supplierID, userID uint64) (*model.TeamMember, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, m := range s.db.team {
		if m.SupplierID == supplierID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrTeamMemberNotFound
}

func (s memTeam) ListBySupplier(_ context.Context, supplierID uint64, p repository.Page) ([]model.TeamMember, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.TeamMember
	for _, id := range sortedKeys(s.db.team) {
		if m := s.db.team[id]; m.SupplierID == supplierID {
			out = append(out, *m)
		}
	}
	return window(out, p), nil
}

func (s memTeam) Update(_ context.Context, m *model.TeamMember) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cp := *m
	s.db.team[m.ID] = &cp
	return nil
}

func (s memTeam) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.team[id]; !ok {
		return repository.ErrTeamMemberNotFound
	}
	delete(s.db.team, id)
	return nil
}

// ----- conversations and messages -----

type memConversations struct{ db *memDB }

func (s memConversations) Create(_ context.Context, c *model.Conversation) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c.Normalize()
	for _, existing := range s.db.conversations {
		if existing.User1ID == c.User1ID && existing.User2ID == c.User2ID {
			return repository.ErrDuplicate
		}
	}
	c.ID = s.db.id()
	cp := *c
	s.db.conversations[c.ID] = &cp
	return nil
}

func (s memConversations) GetByID(_ context.Context, id uint64) (*model.Conversation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.conversations[id]
	if !ok {
		return nil, repository.ErrConversationNotFound
	}
	cp := *c
	for _, mid := range sortedKeys(s.db.messages) {
		if m := s.db.messages[mid]; m.ConversationID == id {
			cp.Messages = append(cp.Messages, *m)
		}
	}
	return &cp, nil
}

func (s memConversations) FindBetween(_ context.Context, a, b uint64) (*model.Conversation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.conversations {
		if (c.User1ID == a && c.User2ID == b) || (c.User1ID == b && c.User2ID == a) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrConversationNotFound
}

func (s memConversations) ListForUser(_ context.Context, userID uint64, p repository.Page) ([]model.Conversation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Conversation
	for _, id := range sortedKeys(s.db.conversations) {
		if c := s.db.conversations[id]; c.Involves(userID) {
			out = append(out, *c)
		}
	}
	return window(out, p), nil
}

type memMessages struct{ db *memDB }

func (s memMessages) Create(_ context.Context, m *model.Message) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m.ID = s.db.id()
	cp := *m
	s.db.messages[m.ID] = &cp
	return nil
}

func (s memMessages) GetByID(_ context.Context, id uint64) (*model.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (s memMessages) ListByConversation(_ context.Context, conversationID uint64, p repository.Page) ([]model.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []model.Message
	for _, id := range sortedKeys(s.db.messages) {
		if m := s.db.messages[id]; m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	return window(out, p), nil
}

func (s memMessages) MarkRead(_ context.Context, id uint64) (*model.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	m.IsRead = true
	cp := *m
	return &cp, nil
}

func (s memMessages) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.messages[id]; !ok {
		return repository.ErrMessageNotFound
	}
	delete(s.db.messages, id)
	return nil
}

// ----- dashboards -----

type memReports struct{ db *memDB }

func (s memReports) ConsumerSummary(_ context.Context, userID uint64) (*repository.ConsumerSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sum := &repository.ConsumerSummary{}
	for _, o := range s.db.orders {
		if o.UserID == userID {
			sum.TotalOrders++
			sum.TotalSpent = sum.TotalSpent.Add(o.TotalAmount)
		}
	}
	return sum, nil
}

func (s memReports) SupplierSummary(_ context.Context, supplierID uint64, _ time.Time) (*repository.SupplierSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sum := &repository.SupplierSummary{}
	for _, p := range s.db.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			sum.TotalProducts++
		}
	}
	return sum, nil
}

// ----- events -----

type recordingPublisher struct{ events chan queue.OrderEvent }

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan queue.OrderEvent, 16)}
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, ev queue.OrderEvent) error {
	p.events <- ev
	return nil
}
