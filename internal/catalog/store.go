// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists split ASN.1 blocks and builds a retrieval index.
// The catalog is a SQLite database with an FTS5 full-text index over block
// content, so definitions can be looked up by name or by the identifiers
// they mention.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/asn1spec/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the block catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	blocksDir  string
	source     string
	maxResults int
}

// NewStore opens or creates the catalog database at catalogDir/catalog.db.
// It creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	source := cfg.Source
	if source == "" {
		source = filepath.Base(cfg.BlocksDir)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		blocksDir:  cfg.BlocksDir,
		source:     source,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			source TEXT NOT NULL REFERENCES sources(name),
			line_count INTEGER,
			content TEXT NOT NULL,
			UNIQUE(source, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_source ON blocks(source)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_name ON blocks(name)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			source TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_mod_time TEXT,
			PRIMARY KEY (source, file_name)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='blocks_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE blocks_fts USING fts5(name, content, content=blocks, content_rowid=rowid)`,
			`CREATE TRIGGER blocks_ai AFTER INSERT ON blocks BEGIN
				INSERT INTO blocks_fts(rowid, name, content) VALUES (new.rowid, new.name, new.content);
			END`,
			`CREATE TRIGGER blocks_ad AFTER DELETE ON blocks BEGIN
				INSERT INTO blocks_fts(blocks_fts, rowid, name, content) VALUES('delete', old.rowid, old.name, old.content);
			END`,
			`CREATE TRIGGER blocks_au AFTER UPDATE ON blocks BEGIN
				INSERT INTO blocks_fts(blocks_fts, rowid, name, content) VALUES('delete', old.rowid, old.name, old.content);
				INSERT INTO blocks_fts(rowid, name, content) VALUES (new.rowid, new.name, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of block files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads split block files from the blocks directory and populates
// the database. It detects new, changed, and unchanged files for
// incremental updates. On success it refreshes export.yaml.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.blocksDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading blocks directory %s: %w", s.blocksDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := strings.TrimSuffix(entry.Name(), ".txt")
		filePath := filepath.Join(s.blocksDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Unchanged files are skipped on subsequent runs.
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE source = ? AND file_name = ?`,
			s.source, entry.Name(),
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		blk := types.Block{
			ID:        StableID(s.source, name, string(data)),
			Name:      name,
			Source:    s.source,
			LineCount: strings.Count(string(data), "\n"),
			Content:   string(data),
		}

		if err := s.ingestBlock(ctx, blk, entry.Name(), modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", name)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d lines)\n", name, blk.LineCount)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestBlock(ctx context.Context, blk types.Block, fileName, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO sources (name) VALUES (?)`, blk.Source,
	); err != nil {
		return fmt.Errorf("inserting source: %w", err)
	}

	// Replace the previous revision of this block if it changed.
	if isUpdate {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM blocks WHERE source = ? AND name = ?`, blk.Source, blk.Name,
		); err != nil {
			return fmt.Errorf("deleting old block: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO blocks (id, name, source, line_count, content)
		 VALUES (?, ?, ?, ?, ?)`,
		blk.ID, blk.Name, blk.Source, blk.LineCount, blk.Content,
	); err != nil {
		return fmt.Errorf("inserting block %s: %w", blk.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexing_status (source, file_name, file_mod_time) VALUES (?, ?, ?)
		 ON CONFLICT(source, file_name) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		blk.Source, fileName, modTime,
	); err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// StableID generates a deterministic block identifier, consistent across
// re-ingestions of unchanged content: the first 12 hex characters of
// SHA-256(source + name + content).
func StableID(source, name, content string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte(name))
	h.Write([]byte(content))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
