package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/ideacapsule/internal/filter"
	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage represents SQLite storage implementation of storage.Store
type Storage struct {
	db       *sql.DB
	log      *slog.Logger
	now      func() time.Time
	compiler *filter.Compiler
	palette  models.Palette
	fts      bool
	noFTS    bool
}

var _ storage.Store = (*Storage)(nil)

// Option configures Storage
type Option func(*Storage)

// WithLogger sets the logger for schema and best-effort failures
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPalette overrides the reserved colours and the category palette
func WithPalette(p models.Palette) Option {
	return func(s *Storage) { s.palette = p }
}

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

// WithoutFTS skips the full-text index; search falls back to LIKE
func WithoutFTS() Option {
	return func(s *Storage) { s.noFTS = true }
}

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	s := &Storage{
		log:     slog.Default(),
		now:     time.Now,
		palette: models.DefaultPalette(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Открываем соединение с БД
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", storage.ErrSchema, err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", storage.ErrSchema, err)
	}

	// Один писатель: все вызовы разделяют одно соединение
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: failed to set pragma: %w", storage.ErrSchema, err)
		}
	}

	s.db = db

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s.compiler = filter.New(s.fts, s.now)

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// FTSEnabled reports whether the full-text index is in use for this session
func (s *Storage) FTSEnabled() bool {
	return s.fts
}

// Palette returns the colours this storage normalizes to
func (s *Storage) Palette() models.Palette {
	return s.palette
}

// DB returns the underlying database connection for testing purposes
func (s *Storage) DB() *sql.DB {
	return s.db
}
