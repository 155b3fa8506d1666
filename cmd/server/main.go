package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"branddb/database"
	"branddb/internal/config"
	"branddb/internal/container"
	"branddb/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		skipBuild  = flag.Bool("skip-initial-build", false, "Serve from the latest snapshot without rebuilding")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	b, err := container.BuildBuilder(cfg)
	if err != nil {
		log.Fatalf("Failed to assemble builder: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SnapshotDBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	store, err := database.NewSnapshotDB(cfg.SnapshotDBPath)
	if err != nil {
		log.Fatalf("Failed to open snapshot database: %v", err)
	}
	defer store.Close()

	srv := server.New(b, store)

	if *skipBuild {
		// Поднимаемся на последнем снапшоте, если он есть
		if db, err := store.GetLatestSnapshot(); err == nil {
			srv.SetDatabase(db)
			slog.Info("Serving latest snapshot", "build_id", db.Meta.BuildID)
		} else {
			slog.Warn("No snapshot available, serve after first rebuild", "error", err)
		}
	} else {
		// Первичная сборка выполняется на лучших усилиях: отказ
		// источников дает уменьшенную, но рабочую базу
		db, err := b.Build(context.Background())
		if err != nil {
			log.Fatalf("Initial build failed: %v", err)
		}
		srv.SetDatabase(db)
		if err := store.SaveSnapshot(db); err != nil {
			slog.Warn("Failed to save initial snapshot", "error", err)
		}
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
