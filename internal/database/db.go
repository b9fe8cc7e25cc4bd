// Package database opens the GORM connection pool and runs migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/iliyamo/marketplace-backend/internal/model"
)

// Options describes one database endpoint.
type Options struct {
	Driver  string // "postgres" (default) or "mysql"
	User    string
	Pass    string
	Host    string
	Port    string
	Name    string
	SSLMode string
}

// DSN renders the driver specific connection string.
func (o Options) DSN() string {
	if o.Driver == "mysql" {
		auth := o.User
		if o.Pass != "" {
			auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, o.Host, o.Port, o.Name)
	}
	ssl := o.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		o.Host, o.Port, o.User, o.Pass, o.Name, ssl)
}

func (o Options) dialector() (gorm.Dialector, error) {
	switch o.Driver {
	case "", "postgres":
		return postgres.Open(o.DSN()), nil
	case "mysql":
		return mysql.Open(o.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", o.Driver)
}

// Open connects, configures the pool and verifies the connection.  Slow
// queries and errors are reported through log.
func Open(o Options, log *zap.Logger) (*gorm.DB, error) {
	dial, err := o.dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:               NewGormLogger(log),
		TranslateError:       true,
		DisableAutomaticPing: true,
		NowFunc:              func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		closePool(db)
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(sqlDB, 5*time.Second); err != nil {
		return nil, err
	}
	return db, nil
}

// ping verifies the pool within timeout and closes it on failure.
func ping(sqlDB *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

func closePool(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// NewGormLogger routes GORM's warnings and slow-query reports to zap.
func NewGormLogger(log *zap.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates or alters every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
