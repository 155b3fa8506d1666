// Package database хранит собранные базы брендов в SQLite как журнал
// снапшотов. Снапшоты — аудиторский след сборок; каждая сборка всё равно
// вычисляется с нуля, инкрементальных обновлений нет.
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"branddb/builder"
)

// SnapshotDB хранилище снапшотов базы брендов.
type SnapshotDB struct {
	db     *sql.DB
	logger *slog.Logger
}

// SnapshotInfo краткая сводка сохраненного снапшота.
type SnapshotInfo struct {
	BuildID       string `json:"build_id"`
	Version       string `json:"version"`
	GeneratedAt   string `json:"generated_at"`
	TotalRaw      int    `json:"total_raw"`
	TotalFiltered int    `json:"total_filtered"`
}

// NewSnapshotDB открывает (или создает) хранилище по указанному пути
// и применяет схему.
func NewSnapshotDB(path string) (*SnapshotDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SnapshotDB{
		db:     db,
		logger: slog.Default().With("component", "snapshot_db"),
	}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// createTables применяет схему хранилища.
func (s *SnapshotDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		build_id       TEXT PRIMARY KEY,
		version        TEXT NOT NULL,
		generated_at   TEXT NOT NULL,
		total_raw      INTEGER NOT NULL,
		total_filtered INTEGER NOT NULL,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS snapshot_brands (
		build_id        TEXT NOT NULL REFERENCES snapshots(build_id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		high_confidence INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_snapshot_brands_build ON snapshot_brands(build_id);

	CREATE TABLE IF NOT EXISTS snapshot_sources (
		build_id TEXT NOT NULL REFERENCES snapshots(build_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name     TEXT NOT NULL,
		url      TEXT NOT NULL,
		license  TEXT NOT NULL,
		count    INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_ignored_terms (
		build_id TEXT NOT NULL REFERENCES snapshots(build_id) ON DELETE CASCADE,
		term     TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// SaveSnapshot сохраняет собранную базу одним снапшотом в транзакции.
func (s *SnapshotDB) SaveSnapshot(db *builder.BrandDatabase) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO snapshots (build_id, version, generated_at, total_raw, total_filtered)
		VALUES (?, ?, ?, ?, ?)
	`, db.Meta.BuildID, db.Meta.Version, db.Meta.GeneratedAt, db.Meta.TotalRaw, db.Meta.TotalFiltered); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	highConfidence := make(map[string]struct{}, len(db.HighConfidence))
	for _, name := range db.HighConfidence {
		highConfidence[name] = struct{}{}
	}

	brandStmt, err := tx.Prepare(`INSERT INTO snapshot_brands (build_id, name, high_confidence) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare brand insert: %w", err)
	}
	defer brandStmt.Close()

	for _, brand := range db.Brands {
		_, ok := highConfidence[brand]
		if _, err := brandStmt.Exec(db.Meta.BuildID, brand, ok); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert brand: %w", err)
		}
	}

	for i, source := range db.Meta.Sources {
		if _, err := tx.Exec(`
			INSERT INTO snapshot_sources (build_id, position, name, url, license, count)
			VALUES (?, ?, ?, ?, ?, ?)
		`, db.Meta.BuildID, i, source.Name, source.URL, source.License, source.Count); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert source: %w", err)
		}
	}

	for _, term := range db.Meta.IgnoredTerms {
		if _, err := tx.Exec(`
			INSERT INTO snapshot_ignored_terms (build_id, term) VALUES (?, ?)
		`, db.Meta.BuildID, term); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert ignored term: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Info("Snapshot saved",
		"build_id", db.Meta.BuildID,
		"brands", len(db.Brands))

	return nil
}

// GetSnapshot восстанавливает сохраненный снапшот по идентификатору сборки.
func (s *SnapshotDB) GetSnapshot(buildID string) (*builder.BrandDatabase, error) {
	db := &builder.BrandDatabase{
		Brands:         []string{},
		HighConfidence: []string{},
	}

	err := s.db.QueryRow(`
		SELECT build_id, version, generated_at, total_raw, total_filtered
		FROM snapshots WHERE build_id = ?
	`, buildID).Scan(&db.Meta.BuildID, &db.Meta.Version, &db.Meta.GeneratedAt, &db.Meta.TotalRaw, &db.Meta.TotalFiltered)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", buildID, err)
	}

	rows, err := s.db.Query(`
		SELECT name, high_confidence FROM snapshot_brands WHERE build_id = ?
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load brands: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			high bool
		)
		if err := rows.Scan(&name, &high); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		db.Brands = append(db.Brands, name)
		if high {
			db.HighConfidence = append(db.HighConfidence, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brands: %w", err)
	}
	sort.Strings(db.Brands)
	sort.Strings(db.HighConfidence)

	sourceRows, err := s.db.Query(`
		SELECT name, url, license, count FROM snapshot_sources
		WHERE build_id = ? ORDER BY position
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	defer sourceRows.Close()

	for sourceRows.Next() {
		var stat builder.SourceStat
		if err := sourceRows.Scan(&stat.Name, &stat.URL, &stat.License, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		db.Meta.Sources = append(db.Meta.Sources, stat)
	}
	if err := sourceRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sources: %w", err)
	}

	termRows, err := s.db.Query(`
		SELECT term FROM snapshot_ignored_terms WHERE build_id = ? ORDER BY term
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignored terms: %w", err)
	}
	defer termRows.Close()

	db.Meta.IgnoredTerms = []string{}
	for termRows.Next() {
		var term string
		if err := termRows.Scan(&term); err != nil {
			return nil, fmt.Errorf("failed to scan ignored term: %w", err)
		}
		db.Meta.IgnoredTerms = append(db.Meta.IgnoredTerms, term)
	}
	if err := termRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ignored terms: %w", err)
	}

	return db, nil
}

// GetLatestSnapshot восстанавливает последний сохраненный снапшот.
// Возвращает sql.ErrNoRows, если снапшотов еще нет.
func (s *SnapshotDB) GetLatestSnapshot() (*builder.BrandDatabase, error) {
	var buildID string
	err := s.db.QueryRow(`
		SELECT build_id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1
	`).Scan(&buildID)
	if err != nil {
		return nil, err
	}
	return s.GetSnapshot(buildID)
}

// ListSnapshots возвращает сводки последних снапшотов, новые первыми.
func (s *SnapshotDB) ListSnapshots(limit int) ([]SnapshotInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT build_id, version, generated_at, total_raw, total_filtered
		FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.BuildID, &info.Version, &info.GeneratedAt, &info.TotalRaw, &info.TotalFiltered); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot info: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return infos, nil
}

// Close закрывает хранилище.
func (s *SnapshotDB) Close() error {
	return s.db.Close()
}
