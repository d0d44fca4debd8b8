package repositories

import (
	"context"
	"time"

	"launchit/internal/domain/models"
)

// CommentRepository defines data access operations for comments
type CommentRepository interface {
	// Create inserts a new comment. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID retrieves a comment by ID
	// Returns domain.ErrNotFound if the row does not exist
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListByProject returns every comment of a project, oldest first,
	// joined with the author's display fields when a profile exists.
	ListByProject(ctx context.Context, projectID string) ([]models.Comment, error)

	// CountByProject counts the non-deleted comments of a project
	CountByProject(ctx context.Context, projectID string) (int, error)

	// CountReplies counts the direct replies of a comment
	CountReplies(ctx context.Context, id string) (int, error)

	// Erase physically removes a comment that has no replies.
	// Returns domain.ErrConflict if replies exist and domain.ErrNotFound if the row is gone.
	Erase(ctx context.Context, id string) error

	// Tombstone clears the content and sets the deleted flag
	Tombstone(ctx context.Context, id string, at time.Time) error

	// SweepTombstones erases tombstoned comments that have no replies left.
	// One pass; returns the number of erased rows.
	SweepTombstones(ctx context.Context) (int, error)
}
