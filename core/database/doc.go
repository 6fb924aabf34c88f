// Package database handles the connection to the balance store.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration, and the schema migration for the
// balances table.
//
// # Connect
//
// Connect establishes and verifies the connection. Unlike transport-level
// failures, a store that is unreachable at startup is fatal: the mirror has
// no useful degraded mode without its database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	if err := database.Migrate(db); err != nil { ... }
package database
