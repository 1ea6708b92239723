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

	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/shared"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database. Used by tests and the CLI dry runs.
const MemoryPath = ":memory:"

// Options tune a SQLiteStore.
type Options struct {
	// Defaults is merged under the stored aggregate on every read.
	Defaults *domain.Portfolio
	// Credentials are seeded when none are stored.
	Credentials *domain.Credentials
	// MaxRetries and RetryBaseDelay control backoff on SQLITE_BUSY.
	MaxRetries     int
	RetryBaseDelay time.Duration
}

func (o *Options) applyDefaults() {
	if o.Defaults == nil {
		o.Defaults = domain.DefaultPortfolio()
	}
	if o.Credentials == nil {
		o.Credentials = domain.DefaultCredentials()
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = 50 * time.Millisecond
	}
}

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	opts Options
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string, opts Options) (*SQLiteStore, error) {
	opts.applyDefaults()

	dsn := MemoryPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection keeps writers serialized and in-memory databases shared.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db, opts: opts}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		data BLOB NOT NULL,
		size INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_images_created ON images(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) getValue(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read key %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLiteStore) setValue(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`

	return s.withRetry(ctx, "set "+key, func() error {
		_, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().Unix())
		return err
	})
}

// GetPortfolio returns the stored aggregate merged over the defaults.
func (s *SQLiteStore) GetPortfolio(ctx context.Context) (*domain.Portfolio, error) {
	raw, ok, err := s.getValue(ctx, PortfolioKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		p := s.opts.Defaults.Clone()
		p.Normalize()
		return p, nil
	}

	p, err := domain.MergeStored(s.opts.Defaults, raw)
	if err != nil {
		slog.Warn("Stored portfolio unreadable, using defaults", "error", err)
	}
	return p, nil
}

// SavePortfolio replaces the stored aggregate wholesale.
func (s *SQLiteStore) SavePortfolio(ctx context.Context, p *domain.Portfolio) error {
	if p == nil {
		return fmt.Errorf("save portfolio: nil portfolio")
	}
	out := p.Clone()
	out.Normalize()
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}
	if err := s.setValue(ctx, PortfolioKey, raw); err != nil {
		return fmt.Errorf("save portfolio: %w", err)
	}
	return nil
}

// ResetPortfolio removes the stored aggregate and every image.
func (s *SQLiteStore) ResetPortfolio(ctx context.Context) error {
	return s.withRetry(ctx, "reset portfolio", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, PortfolioKey); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM images`); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// GetCredentials returns the stored admin credentials, seeding the defaults on first use.
func (s *SQLiteStore) GetCredentials(ctx context.Context) (*domain.Credentials, error) {
	raw, ok, err := s.getValue(ctx, CredentialsKey)
	if err != nil {
		return nil, err
	}

	defaults := *s.opts.Credentials
	if !ok {
		if err := s.SaveCredentials(ctx, &defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}

	var creds domain.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil || creds.Username == "" {
		slog.Warn("Stored credentials unreadable, using defaults", "error", err)
		return &defaults, nil
	}
	return &creds, nil
}

// SaveCredentials replaces the stored admin credentials.
func (s *SQLiteStore) SaveCredentials(ctx context.Context, creds *domain.Credentials) error {
	if creds == nil || creds.Username == "" {
		return fmt.Errorf("save credentials: username is required")
	}
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := s.setValue(ctx, CredentialsKey, raw); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// PutImage stores or replaces an image under its id.
func (s *SQLiteStore) PutImage(ctx context.Context, img *domain.Image) error {
	if img == nil || img.ID == "" {
		return fmt.Errorf("put image: id is required")
	}
	createdAt := img.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
	INSERT INTO images (id, content_type, data, size, created_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		content_type = excluded.content_type,
		data = excluded.data,
		size = excluded.size,
		created_at = excluded.created_at`

	err := s.withRetry(ctx, "put image", func() error {
		_, err := s.db.ExecContext(ctx, query, img.ID, img.ContentType, img.Data, img.Size(), createdAt.Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("put image %s: %w", img.ID, err)
	}
	return nil
}

// GetImage retrieves an image by id.
func (s *SQLiteStore) GetImage(ctx context.Context, id string) (*domain.Image, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, content_type, data, created_at FROM images WHERE id = ?`, id)

	var img domain.Image
	var createdAt int64
	err := row.Scan(&img.ID, &img.ContentType, &img.Data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan image row: %w", err)
	}
	img.CreatedAt = time.Unix(createdAt, 0)
	return &img, nil
}

// HasImage reports whether an image with the id exists.
func (s *SQLiteStore) HasImage(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("count image: %w", err)
	}
	return n > 0, nil
}

// ListImagesBefore returns ids of images created before t.
func (s *SQLiteStore) ListImagesBefore(ctx context.Context, t time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM images WHERE created_at < ? ORDER BY created_at`, t.Unix())
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("Failed to close image rows", "error", closeErr)
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan image id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return ids, nil
}

// DeleteImage removes an image.
func (s *SQLiteStore) DeleteImage(ctx context.Context, id string) error {
	err := s.withRetry(ctx, "delete image", func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	return nil
}

// withRetry runs op, retrying with exponential backoff while SQLite reports
// the database busy or locked.
func (s *SQLiteStore) withRetry(ctx context.Context, what string, op func() error) error {
	var err error
	for i := 0; i < s.opts.MaxRetries; i++ {
		err = op()
		if err == nil || !shared.IsSQLiteConflictError(err) {
			return err
		}
		if i == s.opts.MaxRetries-1 {
			break
		}
		delay := s.opts.RetryBaseDelay * time.Duration(1<<i)
		slog.Debug("Database locked, retrying", "op", what, "attempt", i+1, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", what, s.opts.MaxRetries, err)
}

var _ Repository = (*SQLiteStore)(nil)
