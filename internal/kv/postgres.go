package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists payloads in a jsonb table, for deployments where several
// service instances share one database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects with the given URL and ensures the records table
// exists.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres kv driver requires a connection URL")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS records (
		bucket  TEXT NOT NULL,
		id      TEXT NOT NULL,
		payload JSONB NOT NULL,
		PRIMARY KEY (bucket, id)
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Put(ctx context.Context, bucket, id string, payload []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO records (bucket, id, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (bucket, id) DO UPDATE SET payload = EXCLUDED.payload`,
		bucket, id, payload)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, id, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, bucket, id string) ([]byte, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx,
		`SELECT payload FROM records WHERE bucket = $1 AND id = $2`, bucket, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, id, err)
	}
	return payload, nil
}

func (p *Postgres) GetAll(ctx context.Context, bucket string) (map[string][]byte, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, payload FROM records WHERE bucket = $1`, bucket)
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

func (p *Postgres) Delete(ctx context.Context, bucket, id string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM records WHERE bucket = $1 AND id = $2`, bucket, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, id, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
