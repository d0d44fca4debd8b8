package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

const versionTable = "goose_db_version"

var schema = []*goose.Migration{
	goose.NewGoMigration(1,
		execTx(
			`CREATE TABLE IF NOT EXISTS profiles (
				id           TEXT PRIMARY KEY,
				display_name TEXT NOT NULL DEFAULT '',
				avatar_url   TEXT,
				role         TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
				created_at   TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS comments (
				id         TEXT PRIMARY KEY,
				project_id TEXT NOT NULL,
				author_id  TEXT NOT NULL,
				parent_id  TEXT REFERENCES comments (id) ON DELETE RESTRICT,
				content    TEXT NOT NULL,
				deleted    INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT,
				CHECK (parent_id IS NULL OR parent_id <> id),
				CHECK (deleted = 0 OR content = '')
			)`,
			`CREATE INDEX IF NOT EXISTS comments_project_created_idx ON comments (project_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS comments_parent_idx ON comments (parent_id)`,
		),
		execTx(
			`DROP TABLE IF EXISTS comments`,
			`DROP TABLE IF EXISTS profiles`,
		),
	),
	goose.NewGoMigration(2,
		execTx(
			`CREATE TABLE IF NOT EXISTS comment_reports (
				id          TEXT PRIMARY KEY,
				comment_id  TEXT NOT NULL REFERENCES comments (id) ON DELETE CASCADE,
				reporter_id TEXT NOT NULL,
				reason      TEXT NOT NULL CHECK (reason IN ('spam', 'inappropriate', 'fake', 'copyright', 'other')),
				description TEXT CHECK (description IS NULL OR length(description) <= 200),
				status      TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'resolved')),
				created_at  TEXT NOT NULL,
				resolved_by TEXT,
				resolved_at TEXT,
				CHECK (reason <> 'other' OR description IS NOT NULL)
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS comment_reports_one_open_idx
				ON comment_reports (comment_id, reporter_id) WHERE status = 'open'`,
		),
		execTx(
			`DROP TABLE IF EXISTS comment_reports`,
		),
	),
}

// Migrate applies pending migrations
func (s *Store) Migrate(ctx context.Context) error {
	store, err := database.NewStore(database.DialectSQLite3, versionTable)
	if err != nil {
		return fmt.Errorf("create migration store: %w", err)
	}

	provider, err := goose.NewProvider("", s.db, nil,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(schema...),
	)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, result := range results {
		s.logger.Info("migration applied", "version", result.Source.Version, "duration", result.Duration)
	}
	return nil
}

// Version returns the current schema version
func (s *Store) Version(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_id), 0) FROM `+versionTable+` WHERE is_applied = 1`,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func execTx(statements ...string) *goose.GoFunc {
	return &goose.GoFunc{
		RunTx: func(ctx context.Context, tx *sql.Tx) error {
			for _, stmt := range statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
