package repositories

import (
	"context"
	"time"

	"launchit/internal/domain/models"
)

// ReportRepository defines data access operations for comment reports
type ReportRepository interface {
	// Create stores a new open report.
	// Returns *domain.ConflictError if the reporter already has an open report on the comment.
	Create(ctx context.Context, report *models.Report) error

	// List returns reports newest first, optionally filtered by status
	List(ctx context.Context, status *models.ReportStatus) ([]models.Report, error)

	// Resolve marks an open report as resolved and returns it
	Resolve(ctx context.Context, id, resolverID string, at time.Time) (*models.Report, error)
}
