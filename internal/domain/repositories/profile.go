package repositories

import (
	"context"

	"launchit/internal/domain/models"
)

// ProfileRepository reads the profiles maintained by the identity provider
type ProfileRepository interface {
	// GetByID returns domain.ErrNotFound if the user has no profile
	GetByID(ctx context.Context, id string) (*models.Profile, error)

	// Upsert creates or replaces a profile (used by seeding)
	Upsert(ctx context.Context, profile *models.Profile) error
}
