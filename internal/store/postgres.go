// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Postgres stores papers in a JSONB column through a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and creates the schema if needed.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres store: dsn must be set")
	}
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing pgx config: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 3 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting pgx pool: %w", err)
	}

	s := &Postgres{pool: pool}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS papers (
		id UUID PRIMARY KEY,
		generated_at TIMESTAMPTZ NOT NULL,
		doc JSONB NOT NULL
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	slog.Info("paper store opened", "driver", DriverPostgres)
	return s, nil
}

func (s *Postgres) Get(ctx context.Context, id string) (types.Paper, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM papers WHERE id::text = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Paper{}, ErrNotFound
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("querying paper %s: %w", id, err)
	}
	return decodePaper(doc)
}

func (s *Postgres) List(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM papers ORDER BY generated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		p, err := decodePaper(doc)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (s *Postgres) Create(ctx context.Context, p types.Paper) (types.Paper, error) {
	p = prepare(p)
	doc, err := json.Marshal(p)
	if err != nil {
		return types.Paper{}, fmt.Errorf("marshaling paper: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO papers (id, generated_at, doc) VALUES ($1, $2, $3)`,
		p.ID, p.GeneratedAt, doc,
	); err != nil {
		return types.Paper{}, fmt.Errorf("inserting paper: %w", err)
	}
	return p, nil
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM papers WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the pool.
func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}
