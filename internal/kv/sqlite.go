package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite persists payloads in a single two-column table keyed by
// (bucket, id). Suited to single-instance deployments with a local disk.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and if needed initializes) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "redfp.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		bucket  TEXT NOT NULL,
		id      TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (bucket, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Put(ctx context.Context, bucket, id string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (bucket, id, payload) VALUES (?, ?, ?)
		 ON CONFLICT (bucket, id) DO UPDATE SET payload = excluded.payload`,
		bucket, id, payload)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, id, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, bucket, id string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE bucket = ? AND id = ?`, bucket, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, id, err)
	}
	return payload, nil
}

func (s *SQLite) GetAll(ctx context.Context, bucket string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload FROM records WHERE bucket = ?`, bucket)
	if err != nil {
		return nil, fmt.Errorf("scan bucket %s: %w", bucket, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out[id] = payload
	}
	return out, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, bucket, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE bucket = ? AND id = ?`, bucket, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, id, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
