package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"launchit/internal/domain"
	"launchit/internal/domain/models"
)

// ProfileRepository implements the ProfileRepository interface on SQLite
type ProfileRepository struct {
	db *sql.DB
}

// GetByID retrieves a profile by user ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	var avatarURL sql.NullString
	var role, createdAt string

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, display_name, avatar_url, role, created_at FROM profiles WHERE id = ?
	`, id).Scan(&profile.ID, &profile.DisplayName, &avatarURL, &role, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile.Role = models.Role(role)
	if avatarURL.Valid {
		profile.AvatarURL = &avatarURL.String
	}
	if profile.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or updates a profile
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.Role == "" {
		profile.Role = models.RoleUser
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	profile.CreatedAt = profile.CreatedAt.UTC()

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO profiles (id, display_name, avatar_url, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET display_name = excluded.display_name,
		    avatar_url = excluded.avatar_url,
		    role = excluded.role
	`, profile.ID, profile.DisplayName, profile.AvatarURL, string(profile.Role), formatTime(profile.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
