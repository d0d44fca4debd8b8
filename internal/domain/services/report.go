package services

import (
	"context"

	"launchit/internal/domain/models"
)

// ReportCommentRequest represents an abuse report submitted by the actor
type ReportCommentRequest struct {
	CommentID   string              `json:"-"`
	Reason      models.ReportReason `json:"reason"`
	Description *string             `json:"description,omitempty"`
}

// ReportService defines the moderation reporting operations
type ReportService interface {
	// ReportComment files a report. Authors cannot report their own comments.
	ReportComment(ctx context.Context, actor models.Actor, req *ReportCommentRequest) (*models.Report, error)

	// ListReports returns reports for admin review, optionally filtered by status
	ListReports(ctx context.Context, actor models.Actor, status *models.ReportStatus) ([]models.Report, error)

	// ResolveReport closes an open report
	ResolveReport(ctx context.Context, actor models.Actor, reportID string) (*models.Report, error)
}
