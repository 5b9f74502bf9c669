package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"recall/backend/internal/record"
	"recall/backend/pkg/errors"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	content     TEXT NOT NULL,
	category    TEXT NOT NULL,
	timestamp   DATETIME NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	file_path   TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	favorite    INTEGER NOT NULL DEFAULT 0,
	fingerprint TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_records_timestamp ON records(timestamp DESC);
`

// Store is a sqlite-backed implementation of the record access contract,
// plus the Insert the ingestion surface needs. Reads never mutate records.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and ensures the schema
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.NewStoreQueryFailed("open", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewStoreQueryFailed("ensure schema", err)
	}

	return &Store{db: db, logger: logger.Named("sqlite")}, nil
}

// Close closes the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a record, minting an ID and content fingerprint when absent.
// A duplicate fingerprint is silently skipped (ingestion-side dedup).
func (s *Store) Insert(ctx context.Context, rec record.Record) (record.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Fingerprint == "" {
		h := sha256.Sum256([]byte(rec.Content))
		rec.Fingerprint = fmt.Sprintf("%x", h)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.Category = record.ParseCategory(string(rec.Category))

	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return record.Record{}, errors.NewStoreQueryFailed("marshal tags", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records(id, title, content, category, timestamp, source, file_path, tags, favorite, fingerprint)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING;
	`, rec.ID, rec.Title, rec.Content, string(rec.Category), rec.Timestamp,
		rec.Source, rec.FilePath, string(tags), rec.Favorite, rec.Fingerprint)
	if err != nil {
		return record.Record{}, errors.NewStoreQueryFailed("insert record", err)
	}

	s.logger.Debug("Record stored", zap.String("id", rec.ID), zap.String("category", string(rec.Category)))
	return rec, nil
}

// Recent returns up to limit records, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]record.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, category, timestamp, source, file_path, tags, favorite, fingerprint
		FROM records
		ORDER BY timestamp DESC
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, errors.NewStoreQueryFailed("recent", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Range returns records with start <= timestamp < end, oldest first
func (s *Store) Range(ctx context.Context, start, end time.Time) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, category, timestamp, source, file_path, tags, favorite, fingerprint
		FROM records
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC;
	`, start, end)
	if err != nil {
		return nil, errors.NewStoreQueryFailed("range", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Substring returns records whose title, content, or tags contain text,
// case-insensitively, newest first
func (s *Store) Substring(ctx context.Context, text string) ([]record.Record, error) {
	needle := "%" + text + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, category, timestamp, source, file_path, tags, favorite, fingerprint
		FROM records
		WHERE title LIKE ? OR content LIKE ? OR tags LIKE ?
		ORDER BY timestamp DESC;
	`, needle, needle, needle)
	if err != nil {
		return nil, errors.NewStoreQueryFailed("substring", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Count returns the total number of stored records
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records;`).Scan(&count)
	if err != nil {
		return 0, errors.NewStoreQueryFailed("count", err)
	}
	return count, nil
}

func scanRecords(rows *sql.Rows) ([]record.Record, error) {
	var out []record.Record
	for rows.Next() {
		var rec record.Record
		var category, tags string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Content, &category, &rec.Timestamp,
			&rec.Source, &rec.FilePath, &tags, &rec.Favorite, &rec.Fingerprint); err != nil {
			return nil, errors.NewStoreQueryFailed("scan record", err)
		}
		rec.Category = record.ParseCategory(category)
		if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
			rec.Tags = nil
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
