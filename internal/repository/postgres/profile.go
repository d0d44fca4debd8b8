package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"launchit/internal/domain"
	"launchit/internal/domain/models"
	"launchit/internal/domain/repositories"
)

// PostgresProfileRepository implements the ProfileRepository interface
type PostgresProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(config *RepositoryConfig) repositories.ProfileRepository {
	return &PostgresProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a profile by user ID
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT id, display_name, avatar_url, role, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Profiles)

	var profile models.Profile
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.Role,
		&profile.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}

// Upsert creates or updates a profile
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.Role == "" {
		profile.Role = models.RoleUser
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, display_name, avatar_url, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    avatar_url = EXCLUDED.avatar_url,
		    role = EXCLUDED.role
		RETURNING created_at
	`, r.tables.Profiles)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		profile.ID,
		profile.DisplayName,
		profile.AvatarURL,
		profile.Role,
		profile.CreatedAt,
	).Scan(&profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	r.logger.Debug("profile upserted", "id", profile.ID, "role", profile.Role)
	return nil
}
