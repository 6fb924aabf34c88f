// Package config provides configuration management for the balance mirror.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Source: event-source broker address and contract to subscribe to
//   - Database: MySQL connection details for the balance store
//   - Engine: worker, retry, and dedup tuning for the reconciliation core
//   - Server: operational HTTP endpoints (port, API key)
//   - Storage: S3/MinIO credentials and bucket for snapshots
//   - Snapshot: snapshot exporter schedule
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Source.Contract)
package config
