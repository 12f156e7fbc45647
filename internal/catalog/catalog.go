package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"photo-archive/internal/logging"
)

// Default timeout for catalog operations.
const defaultTimeout = 5 * time.Second

// Catalog manages the albums and images tables.
type Catalog struct {
	db *sql.DB
}

// New opens (and if necessary creates) the catalog database at dbPath.
// The parent directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Catalog, error) {
	// busy_timeout prevents "database is locked" errors under concurrent writes
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{db: db}

	if err := c.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info("catalog initialized at %s", dbPath)
	return c, nil
}

func (c *Catalog) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS albums (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		album_id INTEGER NOT NULL REFERENCES albums(id),
		object_key TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		taken_at INTEGER,
		size INTEGER NOT NULL DEFAULT 0,
		media_kind TEXT NOT NULL DEFAULT 'image',
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_images_album ON images(album_id);
	-- Covers the pagination order within an album.
	CREATE INDEX IF NOT EXISTS idx_images_album_taken ON images(album_id, taken_at DESC, id DESC);
	`

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := c.db.ExecContext(initCtx, schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// Ping verifies database connectivity, for readiness checks.
func (c *Catalog) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return c.db.PingContext(pingCtx)
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// nullableUnix converts an optional time to a nullable unix timestamp.
func nullableUnix(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// scanTime converts a nullable unix timestamp column into *time.Time.
func scanTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
