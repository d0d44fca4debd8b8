package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"launchit/internal/config"
	"launchit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.StoreDriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "store.db"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stores, err := Open(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	c := &models.Comment{ProjectID: "p1", AuthorID: "a", Content: "hi"}
	require.NoError(t, stores.Comments.Create(ctx, c))

	err = stores.Tx.ExecTx(ctx, func(txCtx context.Context) error {
		n, err := stores.Comments.CountReplies(txCtx, c.ID)
		assert.Zero(t, n)
		return err
	})
	require.NoError(t, err)
}

func TestOpen_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := Open(context.Background(), &config.Config{StoreDriver: "mongo"}, logger)
	assert.ErrorContains(t, err, "unknown store driver")

	_, err = Open(context.Background(), &config.Config{StoreDriver: config.StoreDriverPostgres}, logger)
	assert.ErrorContains(t, err, "SUPABASE_DB_URL")
}
