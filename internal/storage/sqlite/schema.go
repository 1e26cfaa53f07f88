package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/iudanet/ideacapsule/internal/storage"
)

type columnDef struct {
	name string
	def  string
}

// Колонки, добавленные после первой версии схемы. Порядок существующих не меняем.
var additiveColumns = map[string][]columnDef{
	"ideas": {
		{"category_id", "INTEGER REFERENCES categories(id) ON DELETE SET NULL"},
		{"is_deleted", "INTEGER NOT NULL DEFAULT 0"},
		{"item_type", "TEXT NOT NULL DEFAULT 'text'"},
		{"data_blob", "BLOB"},
		{"content_hash", "TEXT"},
		{"is_locked", "INTEGER NOT NULL DEFAULT 0"},
		{"rating", "INTEGER NOT NULL DEFAULT 0"},
	},
	"categories": {
		{"sort_order", "INTEGER NOT NULL DEFAULT 0"},
		{"preset_tags", "TEXT NOT NULL DEFAULT ''"},
	},
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_ideas_content_hash ON ideas(content_hash)",
	"CREATE INDEX IF NOT EXISTS idx_ideas_category ON ideas(category_id)",
	"CREATE INDEX IF NOT EXISTS idx_ideas_deleted_updated ON ideas(is_deleted, updated_at)",
	"CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id)",
	"CREATE INDEX IF NOT EXISTS idx_idea_tags_tag ON idea_tags(tag_id)",
}

var ftsTriggers = []string{
	`CREATE TRIGGER IF NOT EXISTS ideas_fts_ai AFTER INSERT ON ideas BEGIN
		INSERT INTO ideas_fts(rowid, title, content) VALUES (new.id, new.title, new.content);
	END`,
	`CREATE TRIGGER IF NOT EXISTS ideas_fts_ad AFTER DELETE ON ideas BEGIN
		INSERT INTO ideas_fts(ideas_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
	END`,
	`CREATE TRIGGER IF NOT EXISTS ideas_fts_au AFTER UPDATE OF title, content ON ideas BEGIN
		INSERT INTO ideas_fts(ideas_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
		INSERT INTO ideas_fts(rowid, title, content) VALUES (new.id, new.title, new.content);
	END`,
}

// migrate brings the store to the current schema. Only base tables are fatal.
func (s *Storage) migrate(ctx context.Context) error {
	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("%w: failed to run migrations: %w", storage.ErrSchema, err)
	}

	s.ensureColumns(ctx)
	s.ensureIndexes(ctx)

	if s.noFTS {
		s.log.Info("full-text search disabled by configuration")
	} else {
		s.fts = s.setupFTS(ctx)
	}

	s.repairTrash(ctx)

	return nil
}

// runMigrations выполняет миграции из embedded FS.
// Provider не трогает глобальное состояние goose и не пишет в stdout.
func (s *Storage) runMigrations(ctx context.Context) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	for _, r := range results {
		s.log.Info("applied migration", "version", r.Source.Version, "duration", r.Duration)
	}

	return nil
}

// ensureColumns adds missing columns to databases created by older versions
func (s *Storage) ensureColumns(ctx context.Context) {
	for _, table := range []string{"ideas", "categories"} {
		existing, err := s.tableColumns(ctx, table)
		if err != nil {
			s.log.Warn("failed to read columns", "table", table, "error", err)
			continue
		}

		for _, col := range additiveColumns[table] {
			if _, ok := existing[col.name]; ok {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, col.name, col.def)
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				// колонка могла появиться параллельно, это не фатально
				s.log.Warn("failed to add column", "table", table, "column", col.name, "error", err)
				continue
			}
			s.log.Info("added column", "table", table, "column", col.name)
		}
	}
}

func (s *Storage) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query table info: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info: %w", err)
		}
		cols[name] = struct{}{}
	}

	return cols, rows.Err()
}

func (s *Storage) ensureIndexes(ctx context.Context) {
	for _, stmt := range indexes {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.log.Warn("failed to create index", "statement", stmt, "error", err)
		}
	}
}

// setupFTS installs the external-content FTS5 table and its sync triggers.
// The trigram tokenizer indexes text without word boundaries (CJK included).
// Returns false when the engine has no fts5 module.
func (s *Storage) setupFTS(ctx context.Context) bool {
	existed := true
	var ddl string
	err := s.db.QueryRowContext(ctx,
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'ideas_fts'",
	).Scan(&ddl)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existed = false
	case err != nil:
		s.log.Warn("failed to look up fts table", "error", err)
		return false
	}

	if existed && !strings.Contains(strings.ToLower(ddl), "trigram") {
		// индекс старой версии на unicode61: пересоздаем
		if err := s.dropFTS(ctx); err != nil {
			s.log.Warn("failed to drop outdated fts index", "error", err)
			return false
		}
		existed = false
		s.log.Info("dropped outdated full-text index")
	}

	_, err = s.db.ExecContext(ctx,
		"CREATE VIRTUAL TABLE IF NOT EXISTS ideas_fts USING fts5(title, content, content='ideas', content_rowid='id', tokenize='trigram')",
	)
	if err != nil {
		s.log.Warn("full-text search unavailable, falling back to substring search", "error", err)
		return false
	}

	for _, stmt := range ftsTriggers {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.log.Warn("failed to create fts trigger", "error", err)
			return false
		}
	}

	if !existed {
		// строки, вставленные до появления индекса
		if _, err := s.db.ExecContext(ctx, "INSERT INTO ideas_fts(ideas_fts) VALUES ('rebuild')"); err != nil {
			s.log.Warn("failed to rebuild fts index", "error", err)
			return false
		}
		s.log.Info("full-text index created")
	}

	return true
}

// dropFTS removes the index together with its triggers so writes to ideas
// keep working if the index cannot be recreated
func (s *Storage) dropFTS(ctx context.Context) error {
	stmts := []string{
		"DROP TRIGGER IF EXISTS ideas_fts_ai",
		"DROP TRIGGER IF EXISTS ideas_fts_ad",
		"DROP TRIGGER IF EXISTS ideas_fts_au",
		"DROP TABLE IF EXISTS ideas_fts",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop fts index: %w", err)
		}
	}
	return nil
}

// repairTrash normalizes trashed rows: no category, trash colour
func (s *Storage) repairTrash(ctx context.Context) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE ideas SET category_id = NULL, color = ? WHERE is_deleted = 1 AND (category_id IS NOT NULL OR color != ?)",
		s.palette.Trash, s.palette.Trash,
	)
	if err != nil {
		s.log.Warn("failed to repair trashed ideas", "error", err)
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.log.Info("repaired trashed ideas", "count", n)
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
