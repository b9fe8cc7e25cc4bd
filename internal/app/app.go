// Package app assembles the HTTP server from configuration: database,
// Redis, repositories, handlers and routes.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iliyamo/marketplace-backend/internal/config"
	"github.com/iliyamo/marketplace-backend/internal/database"
	"github.com/iliyamo/marketplace-backend/internal/handler"
	"github.com/iliyamo/marketplace-backend/internal/middleware"
	"github.com/iliyamo/marketplace-backend/internal/repository"
	"github.com/iliyamo/marketplace-backend/internal/router"
	"github.com/iliyamo/marketplace-backend/internal/service"
)

// DBOptions maps the configuration onto database connection options.
func DBOptions(cfg config.Config) database.Options {
	return database.Options{
		Driver:  cfg.DBDriver,
		User:    cfg.DBUser,
		Pass:    cfg.DBPass,
		Host:    cfg.DBHost,
		Port:    cfg.DBPort,
		Name:    cfg.DBName,
		SSLMode: cfg.DBSSLMode,
	}
}

// Deps are the external resources the server runs on.  Redis may be nil.
type Deps struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
	DB        *gorm.DB
	Redis     *redis.Client
	Events    handler.EventPublisher
}

// NewServer builds the Echo instance with every route registered.
func NewServer(d Deps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	users := repository.NewUserRepo(d.DB)
	tokens := repository.NewTokenRepo(d.DB)
	products := repository.NewProductRepo(d.DB)
	orders := repository.NewOrderRepo(d.DB)
	suppliers := repository.NewSupplierRepo(d.DB)
	links := repository.NewLinkRequestRepo(d.DB)
	team := repository.NewTeamRepo(d.DB)
	conversations := repository.NewConversationRepo(d.DB)
	messages := repository.NewMessageRepo(d.DB)
	reports := repository.NewDashboardRepo(d.DB)
	revoked := repository.NewRevokedTokens(d.Redis, "")

	auth := middleware.JWTAuth(d.Cfg.JWTSecret, users, revoked)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, log)
	invalidator := middleware.NewCacheInvalidator(d.Cache, d.Redis)
	productCache := middleware.NewRedisCache(d.Cache, d.Redis, handler.CacheProducts, log)
	supplierCache := middleware.NewRedisCache(d.Cache, d.Redis, handler.CacheSuppliers, log)

	authH := handler.NewAuthHandler(d.Cfg, users, tokens, revoked)

	var pinger handler.Pinger
	if sqlDB, err := d.DB.DB(); err == nil {
		pinger = sqlDB
	}

	e := router.New(log, d.Cfg.CORSOrigins)
	router.RegisterRoutes(e, pinger)
	router.RegisterAuth(e, authH, auth, limit)
	router.RegisterUsers(e, authH, handler.NewUserHandler(users, d.Cfg.BcryptCost), auth, limit)
	router.RegisterProducts(e, handler.NewProductHandler(products, suppliers, invalidator), auth, productCache)
	router.RegisterOrders(e, handler.NewOrderHandler(orders, products, d.Events, log), auth)
	router.RegisterSuppliers(e, handler.NewSupplierHandler(suppliers, links, invalidator), auth, supplierCache)
	router.RegisterTeam(e, handler.NewTeamHandler(team, suppliers))
	router.RegisterMessages(e, handler.NewMessageHandler(conversations, messages))
	router.RegisterDashboard(e, handler.NewDashboardHandler(users, suppliers, reports))
	return e
}

// Serve opens the database and Redis, builds the server and runs it until
// ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	db, err := database.Open(DBOptions(cfg), log)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; cache, rate limit and token denylist disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := NewServer(Deps{
		Cfg:       cfg,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       log,
		DB:        db,
		Redis:     rdb,
		Events:    service.NewPublisher(cfg.Events, log),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
