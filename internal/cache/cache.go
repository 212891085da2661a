package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	FileName   = "cache.db"
	DefaultTTL = 6 * time.Hour
	keyVersion = "catalog-v1-"
)

// Key derives the cache key for one HTTP exchange.
func Key(method, url string, body []byte) string {
	seed := strings.Join([]string{
		strings.ToUpper(strings.TrimSpace(method)),
		strings.TrimSpace(url),
		string(body),
	}, "|")
	sum := sha256.Sum256([]byte(seed))
	return keyVersion + hex.EncodeToString(sum[:16])
}

// Cache stores catalog response bodies in SQLite with a fixed TTL.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// Open creates or opens the cache database at path.
func Open(path string, ttl time.Duration, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}

	c := &Cache{db: db, ttl: ttl, logger: logger, now: time.Now}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) initialize() error {
	_, err := c.db.Exec(`
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		stored_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return nil
}

// Get returns the body stored under key when it is younger than the TTL.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		body     []byte
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx, `SELECT body, stored_at FROM responses WHERE key = ?`, key).Scan(&body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup failed: %w", err)
	}
	if c.now().Sub(time.Unix(storedAt, 0)) > c.ttl {
		c.logger.Debug("cache entry expired", zap.String("key", key))
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores body under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, body []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO responses (key, body, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at`,
		key, body, c.now().Unix())
	if err != nil {
		return fmt.Errorf("cache store failed: %w", err)
	}
	return nil
}

// Prune deletes expired entries and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE stored_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache prune failed: %w", err)
	}
	return res.RowsAffected()
}

func (c *Cache) Close() error {
	return c.db.Close()
}
