package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"balance-mirror/core/balance"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the MySQL database holding the
// mirrored balances. The store is a hard dependency: callers treat a
// connection failure at startup as fatal.
func Connect(cfg Config) (*gorm.DB, error) {
	// Special characters in the password must be URL encoded for the
	// go-sql-driver DSN format.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	// timeout: connection setup; readTimeout/writeTimeout: I/O deadlines.
	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	// GORM's own logging is silenced; the engine logs store failures with
	// full event context at its own boundary.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Verify connectivity before the process commits to running.
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the balance schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&balance.Record{}); err != nil {
		return fmt.Errorf("failed to migrate balance schema: %w", err)
	}
	return nil
}
