package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"part-cost/core/types"
	"part-cost/internal/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite is a persistent cache adapter backed by a single-file database.
// Results are stored as JSON keyed by cache key; expiry is enforced on read.
type SQLite struct {
	db *sql.DB

	// now is swappable for expiry tests
	now func() time.Time
}

// NewSQLite opens (or creates) the database at path and runs pending
// migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Cache("open sqlite database", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, errors.Cache("set sqlite pragmas", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Cache("ping sqlite database", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Cache("set goose dialect", err)
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Cache("run cache migrations", err)
	}
	return nil
}

// Get returns the stored result if present and unexpired. Expired rows are
// deleted on read.
func (s *SQLite) Get(ctx context.Context, key string) (*types.PricingResult, bool, error) {
	var payload string
	var expiresAt sql.NullInt64

	row := s.db.QueryRowContext(ctx,
		`SELECT result, expires_at FROM pricing_cache WHERE cache_key = ?`, key)
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errors.Cache("read cache entry", err)
	}

	if expiresAt.Valid && s.now().Unix() > expiresAt.Int64 {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM pricing_cache WHERE cache_key = ?`, key); err != nil {
			return nil, false, errors.Cache("evict expired cache entry", err)
		}
		return nil, false, nil
	}

	var result types.PricingResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, errors.Cache("decode cache entry", err)
	}
	return &result, true, nil
}

// Set stores the result under key, replacing any existing entry.
func (s *SQLite) Set(ctx context.Context, key string, value *types.PricingResult, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Cache("encode cache entry", err)
	}

	var expiresAt any
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).Unix()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pricing_cache (cache_key, result, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			result = excluded.result,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at
	`, key, string(payload), expiresAt, s.now().Unix())
	if err != nil {
		return errors.Cache("write cache entry", err)
	}
	return nil
}

// Purge removes all expired rows.
func (s *SQLite) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pricing_cache WHERE expires_at IS NOT NULL AND expires_at < ?`,
		s.now().Unix())
	if err != nil {
		return 0, errors.Cache("purge expired cache entries", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
