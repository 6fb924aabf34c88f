package cmd

import (
	"context"
	"log"
	"time"

	"balance-mirror/core/config"
	"balance-mirror/core/database"
	"balance-mirror/core/event"
	"balance-mirror/core/logger"
	"balance-mirror/core/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the balance store and event source",
	Long: `Verifies that both hard dependencies are reachable with the current
configuration. Exits non-zero if either probe fails, so the command can gate
deployments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		if err := cfg.Source.Validate(); err != nil {
			return err
		}

		// Balance store
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			defer sqlDB.Close()
		}
		logg.Info("Balance store reachable",
			zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

		// Event source
		src := source.New(cfg.Source, func(context.Context, event.Event) error { return nil }, logg)
		defer src.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := src.Ping(ctx); err != nil {
			return err
		}
		logg.Info("Event source reachable",
			zap.String("addr", cfg.Source.Addr), zap.String("channel", cfg.Source.Channel()))

		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
