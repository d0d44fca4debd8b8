package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"launchit/internal/domain"
	"launchit/internal/domain/models"
	"launchit/internal/domain/repositories"
)

// ProfileIdentityService resolves an actor's role from the profiles table.
// Users without a profile row get the plain user role.
type ProfileIdentityService struct {
	profileRepo repositories.ProfileRepository
	logger      *slog.Logger
}

// NewProfileIdentityService creates a new profile-backed identity service
func NewProfileIdentityService(profileRepo repositories.ProfileRepository, logger *slog.Logger) *ProfileIdentityService {
	return &ProfileIdentityService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// ResolveActor returns the actor for an authenticated user ID
func (s *ProfileIdentityService) ResolveActor(ctx context.Context, userID string) (models.Actor, error) {
	if userID == "" {
		return models.Actor{}, fmt.Errorf("resolve actor: empty user id: %w", domain.ErrUnauthorized)
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("no profile for user, defaulting role", "user_id", userID)
			return models.Actor{ID: userID, Role: models.RoleUser}, nil
		}
		return models.Actor{}, fmt.Errorf("resolve actor: %w", err)
	}

	role := profile.Role
	if role != models.RoleAdmin {
		role = models.RoleUser
	}

	return models.Actor{ID: userID, Role: role}, nil
}
