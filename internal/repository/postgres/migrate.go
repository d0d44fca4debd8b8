package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Migrate applies all pending schema migrations for the prefixed tables.
// The goose version table is prefixed too, so dev_ and test_ schemas migrate independently.
func Migrate(ctx context.Context, databaseURL string, tables *TableNames, logger *slog.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := newMigrationProvider(db, tables)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, result := range results {
		logger.Info("migration applied",
			"version", result.Source.Version,
			"duration", result.Duration,
		)
	}
	if len(results) == 0 {
		logger.Debug("schema up to date", "version_table", tables.GooseVersions)
	}

	return nil
}

func newMigrationProvider(db *sql.DB, tables *TableNames) (*goose.Provider, error) {
	store, err := database.NewStore(database.DialectPostgres, tables.GooseVersions)
	if err != nil {
		return nil, fmt.Errorf("create migration store: %w", err)
	}

	provider, err := goose.NewProvider("", db, nil,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(migrations(tables)...),
	)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, nil
}

// migrations returns the schema history. Table names are interpolated, so
// the statements live in Go rather than in .sql files.
func migrations(t *TableNames) []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(1,
			execTx(
				fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
					id           UUID PRIMARY KEY,
					display_name TEXT NOT NULL DEFAULT '',
					avatar_url   TEXT,
					role         TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
					created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`, t.Profiles),
				fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
					id         UUID PRIMARY KEY,
					project_id UUID NOT NULL,
					author_id  UUID NOT NULL,
					parent_id  UUID REFERENCES %[1]s (id) ON DELETE RESTRICT,
					content    TEXT NOT NULL,
					deleted    BOOLEAN NOT NULL DEFAULT false,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ,
					CONSTRAINT %[1]s_no_self_parent CHECK (parent_id IS NULL OR parent_id <> id),
					CONSTRAINT %[1]s_tombstone_empty CHECK (NOT deleted OR content = '')
				)`, t.Comments),
				fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_project_created_idx ON %[1]s (project_id, created_at)`, t.Comments),
				fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_parent_idx ON %[1]s (parent_id)`, t.Comments),
			),
			execTx(
				fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Comments),
				fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Profiles),
			),
		),
		goose.NewGoMigration(2,
			execTx(
				fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
					id          UUID PRIMARY KEY,
					comment_id  UUID NOT NULL REFERENCES %[2]s (id) ON DELETE CASCADE,
					reporter_id UUID NOT NULL,
					reason      TEXT NOT NULL CHECK (reason IN ('spam', 'inappropriate', 'fake', 'copyright', 'other')),
					description TEXT CHECK (description IS NULL OR char_length(description) <= 200),
					status      TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'resolved')),
					created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					resolved_by UUID,
					resolved_at TIMESTAMPTZ,
					CONSTRAINT %[1]s_other_described CHECK (reason <> 'other' OR description IS NOT NULL)
				)`, t.Reports, t.Comments),
				fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_one_open_idx ON %[1]s (comment_id, reporter_id) WHERE status = 'open'`, t.Reports),
			),
			execTx(
				fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Reports),
			),
		),
	}
}

// execTx runs statements in order inside the migration transaction
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
