// Package cache persists generated declaration text keyed by a
// content+options fingerprint, so unchanged files skip the pipeline on
// re-runs and in watch mode.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

type SQLiteCache struct {
	db *sql.DB
}

// Fingerprint derives the cache key for one generation: the source text
// plus every behaviour-affecting option.
func Fingerprint(sourceText string, keepComments bool, preferred []string) string {
	h := sha256.New()
	h.Write([]byte(sourceText))
	fmt.Fprintf(h, "|keep=%t|pref=%s", keepComments, strings.Join(preferred, ","))
	return hex.EncodeToString(h.Sum(nil))
}

func Open(path string) (*SQLiteCache, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cache path %q is a directory", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache sqlite %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache sqlite %q: %w", cleanPath, err)
	}
	if err := migrateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteCache{db: db}, nil
}

func (c *SQLiteCache) Get(fingerprint string) (string, bool) {
	if c == nil || c.db == nil {
		return "", false
	}
	var text string
	err := c.db.QueryRowContext(context.Background(),
		`SELECT output FROM generations WHERE fingerprint = ?`, fingerprint,
	).Scan(&text)
	if err != nil {
		return "", false
	}
	return text, true
}

func (c *SQLiteCache) Put(fingerprint, text string) error {
	if c == nil || c.db == nil {
		return fmt.Errorf("cache not initialized")
	}
	now := time.Now().UTC().UnixMilli()
	_, err := c.db.ExecContext(context.Background(),
		`INSERT INTO generations (fingerprint, output, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET output = excluded.output, created_at = excluded.created_at`,
		fingerprint, text, now,
	)
	return err
}

func (c *SQLiteCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
