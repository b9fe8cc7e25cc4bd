//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/database"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

// setupDB starts a PostgreSQL container and returns a migrated connection.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("market"),
		postgres.WithUsername("market"),
		postgres.WithPassword("market"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger:         database.NewGormLogger(nil),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func mkUser(t *testing.T, users *repository.UserRepo, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestRepositories(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	users := repository.NewUserRepo(db)
	suppliers := repository.NewSupplierRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)

	t.Run("duplicate email leaves one row", func(t *testing.T) {
		mkUser(t, users, "Dup@Example.com", model.RoleConsumer)
		err := users.Create(ctx, &model.User{Email: "dup@example.com", PasswordHash: "y", Role: model.RoleConsumer})
		assert.ErrorIs(t, err, repository.ErrEmailExists)

		var n int64
		require.NoError(t, db.Model(&model.User{}).Where("email = ?", "dup@example.com").Count(&n).Error)
		assert.EqualValues(t, 1, n)
	})

	t.Run("account with supplier profile is atomic", func(t *testing.T) {
		u := &model.User{Email: "farm@example.com", PasswordHash: "x", Role: model.RoleSupplier, IsActive: true}
		require.NoError(t, users.CreateAccount(ctx, u, &model.Supplier{Name: "Green Farm"}))
		s, err := suppliers.GetByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Green Farm", s.Name)

		_, err = suppliers.GetByUserID(ctx, 999999)
		assert.ErrorIs(t, err, repository.ErrSupplierNotFound)
	})

	seller := mkUser(t, users, "seller@example.com", model.RoleSupplier)
	shop := &model.Supplier{UserID: seller.ID, Name: "Shop", Category: "Fresh Produce"}
	require.NoError(t, suppliers.Create(ctx, shop))
	buyer := mkUser(t, users, "buyer@example.com", model.RoleConsumer)

	apple := &model.Product{OwnerID: seller.ID, SupplierID: &shop.ID, Name: "Apple", Description: "Crisp red",
		Price: decimal.RequireFromString("10.00"), Category: model.CategoryFruits, StockQuantity: 5, IsAvailable: true}
	milk := &model.Product{OwnerID: seller.ID, SupplierID: &shop.ID, Name: "Milk",
		Price: decimal.RequireFromString("5.00"), Category: model.CategoryDairy, StockQuantity: 50, IsAvailable: true}
	require.NoError(t, products.Create(ctx, apple))
	require.NoError(t, products.Create(ctx, milk))
	assert.Equal(t, model.DefaultUnit, apple.Unit)

	t.Run("product search beats category", func(t *testing.T) {
		got, err := products.List(ctx, repository.ProductFilter{Query: "RED", Category: model.CategoryDairy})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Apple", got[0].Name)

		got, err = products.List(ctx, repository.ProductFilter{Category: model.CategoryDairy})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Milk", got[0].Name)
	})

	t.Run("supplier category substring", func(t *testing.T) {
		got, err := suppliers.List(ctx, repository.SupplierFilter{Category: "produce"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, shop.ID, got[0].ID)
	})

	var order *model.Order
	t.Run("order header and items", func(t *testing.T) {
		order = model.NewOrder(buyer.ID, &shop.ID, "1 Main St", "", []model.OrderItem{
			{ProductID: apple.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: milk.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		})
		require.NoError(t, orders.CreateWithItems(ctx, order))
		require.NotZero(t, order.ID)

		got, err := orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(25)))
		require.Len(t, got.Items, 2)
		assert.Equal(t, order.ID, got.Items[0].OrderID)
		assert.Equal(t, model.OrderPending, got.Status)
	})

	t.Run("item price is a snapshot", func(t *testing.T) {
		apple.Price = decimal.RequireFromString("99.00")
		require.NoError(t, products.Update(ctx, apple))
		got, err := orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, got.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	})

	t.Run("status update reports previous", func(t *testing.T) {
		o, prev, err := orders.UpdateStatus(ctx, order.ID, model.OrderDelivered)
		require.NoError(t, err)
		assert.Equal(t, model.OrderPending, prev)
		assert.Equal(t, model.OrderDelivered, o.Status)

		_, _, err = orders.UpdateStatus(ctx, 424242, model.OrderDelivered)
		assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	})

	t.Run("orders filtered by user", func(t *testing.T) {
		mine, err := orders.List(ctx, repository.OrderFilter{UserID: buyer.ID})
		require.NoError(t, err)
		assert.Len(t, mine, 1)
		other, err := orders.List(ctx, repository.OrderFilter{UserID: seller.ID})
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("referenced product cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, products.Delete(ctx, apple.ID), repository.ErrConflict)
		assert.ErrorIs(t, products.Delete(ctx, 424242), repository.ErrProductNotFound)
	})

	t.Run("stock adjustments", func(t *testing.T) {
		p, err := products.AdjustStock(ctx, milk.ID, -45)
		require.NoError(t, err)
		assert.Equal(t, 5, p.StockQuantity)
		_, err = products.AdjustStock(ctx, milk.ID, -6)
		assert.ErrorIs(t, err, repository.ErrConflict)
		_, err = products.AdjustStock(ctx, 424242, 1)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
	})

	t.Run("dashboards", func(t *testing.T) {
		dash := repository.NewDashboardRepo(db)

		c, err := dash.ConsumerSummary(ctx, buyer.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, c.TotalOrders)
		assert.EqualValues(t, 1, c.CompletedOrders)
		assert.EqualValues(t, 0, c.PendingOrders)
		assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(25)))
		require.Len(t, c.FavoriteSuppliers, 1)
		assert.Equal(t, repository.Ranked{ID: shop.ID, Name: "Shop", OrderCount: 1}, c.FavoriteSuppliers[0])

		s, err := dash.SupplierSummary(ctx, shop.ID, time.Now().Add(-30*24*time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, s.TotalOrders)
		assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(25)))
		assert.True(t, s.RecentRevenue.Equal(decimal.NewFromInt(25)))
		assert.EqualValues(t, 2, s.TotalProducts)
		assert.EqualValues(t, 2, s.LowStockProducts)
		assert.Len(t, s.RecentOrders, 1)
		assert.Len(t, s.TopProducts, 2)

		s, err = dash.SupplierSummary(ctx, shop.ID, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, s.RecentRevenue.IsZero())
	})

	t.Run("link requests", func(t *testing.T) {
		links := repository.NewLinkRequestRepo(db)
		lr := &model.LinkRequest{UserID: buyer.ID, SupplierID: shop.ID, Message: "hi"}
		require.NoError(t, links.Create(ctx, lr))
		assert.Equal(t, model.LinkPending, lr.Status)

		found, err := links.FindPending(ctx, buyer.ID, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, lr.ID, found.ID)

		_, err = links.UpdateStatus(ctx, lr.ID, model.LinkAccepted)
		require.NoError(t, err)
		_, err = links.FindPending(ctx, buyer.ID, shop.ID)
		assert.ErrorIs(t, err, repository.ErrLinkRequestNotFound)

		list, err := links.ListBySupplier(ctx, shop.ID, model.LinkAccepted)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("team pair is unique", func(t *testing.T) {
		team := repository.NewTeamRepo(db)
		require.NoError(t, team.Create(ctx, &model.TeamMember{SupplierID: shop.ID, UserID: buyer.ID, Role: "staff", IsActive: true}))
		err := team.Create(ctx, &model.TeamMember{SupplierID: shop.ID, UserID: buyer.ID, Role: "manager", IsActive: true})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("conversation lookup either order", func(t *testing.T) {
		convs := repository.NewConversationRepo(db)
		msgs := repository.NewMessageRepo(db)
		c := &model.Conversation{User1ID: buyer.ID, User2ID: seller.ID}
		require.NoError(t, convs.Create(ctx, c))

		found, err := convs.FindBetween(ctx, seller.ID, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)

		dup := &model.Conversation{User1ID: seller.ID, User2ID: buyer.ID}
		assert.ErrorIs(t, convs.Create(ctx, dup), repository.ErrDuplicate)

		m := &model.Message{ConversationID: c.ID, SenderID: buyer.ID, Content: "hello"}
		require.NoError(t, msgs.Create(ctx, m))
		read, err := msgs.MarkRead(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, read.IsRead)

		full, err := convs.GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, full.Messages, 1)

		require.NoError(t, msgs.Delete(ctx, m.ID))
		assert.ErrorIs(t, msgs.Delete(ctx, m.ID), repository.ErrMessageNotFound)
	})

	t.Run("refresh tokens", func(t *testing.T) {
		tokens := repository.NewTokenRepo(db)
		require.NoError(t, tokens.StoreRefresh(ctx, buyer.ID, "h1", time.Now().Add(time.Hour)))
		uid, err := tokens.ValidateRefresh(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, buyer.ID, uid)

		require.NoError(t, tokens.RevokeByHash(ctx, "h1"))
		_, err = tokens.ValidateRefresh(ctx, "h1")
		assert.ErrorIs(t, err, repository.ErrRefreshNotFound)

		require.NoError(t, tokens.StoreRefresh(ctx, buyer.ID, "h2", time.Now().Add(-time.Hour)))
		_, err = tokens.ValidateRefresh(ctx, "h2")
		assert.ErrorIs(t, err, repository.ErrRefreshNotFound)
	})
}
