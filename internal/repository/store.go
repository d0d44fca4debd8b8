// Package repository opens the configured comment store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"launchit/internal/config"
	"launchit/internal/domain/repositories"
	"launchit/internal/repository/postgres"
	"launchit/internal/repository/sqlite"
)

// Stores bundles the repositories of one backing store
type Stores struct {
	Comments repositories.CommentRepository
	Reports  repositories.ReportRepository
	Profiles repositories.ProfileRepository
	Tx       repositories.TransactionManager

	close func()
}

// Close releases the underlying connections
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects to the store selected by cfg.StoreDriver and applies migrations
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreDriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	if cfg.SupabaseDBURL == "" {
		return nil, fmt.Errorf("SUPABASE_DB_URL is required for the postgres store")
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, cfg.SupabaseDBURL, tables, logger); err != nil {
		return nil, err
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	logger.Info("connected to postgres", "table_prefix", cfg.TablePrefix)

	return &Stores{
		Comments: postgres.NewCommentRepository(repoConfig),
		Reports:  postgres.NewReportRepository(repoConfig),
		Profiles: postgres.NewProfileRepository(repoConfig),
		Tx:       postgres.NewTransactionManager(repoConfig),
		close:    pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("opened sqlite store", "path", cfg.SQLitePath)

	return &Stores{
		Comments: store.Comments(),
		Reports:  store.Reports(),
		Profiles: store.Profiles(),
		Tx:       store.TxManager(),
		close: func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close sqlite store", "error", err)
			}
		},
	}, nil
}
