package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"balance-mirror/core/balance"
	"balance-mirror/core/config"
	"balance-mirror/core/database"
	"balance-mirror/core/engine"
	"balance-mirror/core/logger"
	"balance-mirror/core/server"
	"balance-mirror/core/snapshot"
	"balance-mirror/core/source"
	"balance-mirror/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the balance mirror",
	Long: `Connects to the balance store and the event source, then mirrors the
configured contract's deposit and withdrawal events until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := cfg.Source.Validate(); err != nil {
			logg.Fatal("Invalid configuration", zap.Error(err))
		}
		logg = logg.With(zap.String("channel", cfg.Source.Channel()))

		// 3. Connect to the balance store. A store failure at startup is
		// fatal; there is no degraded mode without it.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to balance store", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate balance schema", zap.Error(err))
		}
		store := balance.NewGormStore(db)
		logg.Info("Connected to balance store")

		// 4. Start the reconciliation engine
		eng := engine.New(cfg.Engine, store, logg)
		eng.Start()

		// 5. Verify the event source and subscribe
		src := source.New(cfg.Source, eng.Submit, logg)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := src.Ping(ctx); err != nil {
			logg.Fatal("Event source unreachable", zap.Error(err))
		}
		go func() {
			_ = src.Run(ctx)
		}()

		// 6. Ops endpoints
		var srv *server.Server
		if cfg.Server.Enabled {
			srv = server.New(cfg.Server, eng, src, store, logg)
			go func() {
				if err := srv.Listen(); err != nil {
					logg.Fatal("Ops server failed to start", zap.Error(err))
				}
			}()
		}

		// 7. Optional snapshot exporter
		if cfg.Snapshot.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			exp := snapshot.NewExporter(cfg.Snapshot, store, client, cfg.Storage.Bucket, logg)
			go func() {
				if err := exp.Run(ctx); err != nil {
					logg.Error("Snapshot exporter stopped", zap.Error(err))
				}
			}()
		}

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")

		// Stop intake first, then let in-flight per-account operations
		// finish before the store connection goes away.
		cancel()
		_ = src.Close()
		if err := eng.Close(cfg.Engine.ShutdownTimeout()); err != nil {
			logg.Warn("Engine drain incomplete", zap.Error(err))
		}
		if srv != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Engine.ShutdownTimeout())
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		logg.Info("Shutdown complete")
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
