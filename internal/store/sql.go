// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// SQL stores each paper as one row: the ID, the creation time in Unix
// microseconds for ordering, and the paper as a JSON document.
type SQL struct {
	db     *sql.DB
	driver string
}

// NewSQLite opens or creates the SQLite database at path and creates the
// schema if it does not exist.
func NewSQLite(path string) (*SQL, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return newSQL(context.Background(), db, DriverSQLite)
}

// NewMySQL connects to MySQL with dsn. parseTime is not required; times
// are stored as integers.
func NewMySQL(ctx context.Context, dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("mysql store: dsn must be set")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to mysql: %w", err)
	}
	return newSQL(ctx, db, DriverMySQL)
}

func newSQL(ctx context.Context, db *sql.DB, driver string) (*SQL, error) {
	s := &SQL{db: db, driver: driver}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	slog.Info("paper store opened", "driver", driver)
	return s, nil
}

func (s *SQL) createSchema(ctx context.Context) error {
	var statements []string
	switch s.driver {
	case DriverMySQL:
		statements = []string{
			`CREATE TABLE IF NOT EXISTS papers (
				id VARCHAR(36) PRIMARY KEY,
				generated_at BIGINT NOT NULL,
				doc LONGTEXT NOT NULL
			)`,
		}
	default:
		statements = []string{
			`CREATE TABLE IF NOT EXISTS papers (
				id TEXT PRIMARY KEY,
				generated_at INTEGER NOT NULL,
				doc TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_papers_generated_at ON papers(generated_at)`,
		}
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, id string) (types.Paper, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM papers WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Paper{}, ErrNotFound
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("querying paper %s: %w", id, err)
	}
	return decodePaper([]byte(doc))
}

func (s *SQL) List(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM papers ORDER BY generated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		p, err := decodePaper([]byte(doc))
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (s *SQL) Create(ctx context.Context, p types.Paper) (types.Paper, error) {
	p = prepare(p)
	doc, err := json.Marshal(p)
	if err != nil {
		return types.Paper{}, fmt.Errorf("marshaling paper: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, generated_at, doc) VALUES (?, ?, ?)`,
		p.ID, p.GeneratedAt.UnixMicro(), string(doc),
	); err != nil {
		return types.Paper{}, fmt.Errorf("inserting paper: %w", err)
	}
	return p, nil
}

func (s *SQL) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the database connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

func decodePaper(doc []byte) (types.Paper, error) {
	var p types.Paper
	if err := json.Unmarshal(doc, &p); err != nil {
		return types.Paper{}, fmt.Errorf("decoding stored paper: %w", err)
	}
	return p, nil
}
