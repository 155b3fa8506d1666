package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"branddb/database"
	"branddb/export"
	"branddb/internal/config"
	"branddb/internal/container"
	"branddb/quality"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		outputPath = flag.String("output", "", "Path to JSON artifact (overrides config)")
		formats    = flag.String("formats", "json", "Comma-separated export formats: json,csv,excel")
		dbPath     = flag.String("db", "", "Path to snapshot database (empty to skip)")
		audit      = flag.Bool("audit", true, "Run quality audit after the build")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}

	b, err := container.BuildBuilder(cfg)
	if err != nil {
		log.Fatalf("Failed to assemble builder: %v", err)
	}

	db, err := b.Build(context.Background())
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	// Экспорт в запрошенные форматы
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	exporter := export.NewExporter()
	for _, name := range strings.Split(*formats, ",") {
		format := export.Format(strings.TrimSpace(name))
		filename := artifactPath(cfg.OutputPath, format)
		if err := exporter.Export(db, filename, format); err != nil {
			log.Fatalf("Export to %s failed: %v", format, err)
		}
		fmt.Printf("Written %s\n", filename)
	}

	// Снапшот для аудиторского следа
	if *dbPath != "" {
		store, err := database.NewSnapshotDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open snapshot database: %v", err)
		}
		defer store.Close()

		if err := store.SaveSnapshot(db); err != nil {
			log.Fatalf("Failed to save snapshot: %v", err)
		}
		fmt.Printf("Snapshot %s saved to %s\n", db.Meta.BuildID, *dbPath)
	}

	fmt.Println("\nStatistics:")
	fmt.Printf("  Total brands:    %d\n", len(db.Brands))
	fmt.Printf("  High confidence: %d\n", len(db.HighConfidence))
	for _, source := range db.Meta.Sources {
		fmt.Printf("  %-20s %d\n", source.Name+":", source.Count)
	}

	if *audit {
		report := quality.NewAnalyzer().Analyze(db)
		fmt.Printf("\nQuality audit: %d single-word, %d all-caps, %d stem collisions\n",
			report.SingleWord, report.AllCaps, len(report.StemCollisions))
		for _, collision := range report.StemCollisions {
			fmt.Printf("  %q shares stem %q with ignored term %q\n",
				collision.Brand, collision.Stem, collision.Term)
		}
	}
}

// artifactPath подбирает расширение файла под формат экспорта.
func artifactPath(jsonPath string, format export.Format) string {
	base := strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath))
	switch format {
	case export.FormatCSV:
		return base + ".csv"
	case export.FormatExcel:
		return base + ".xlsx"
	default:
		return base + ".json"
	}
}
