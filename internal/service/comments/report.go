package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"launchit/internal/config"
	"launchit/internal/domain"
	"launchit/internal/domain/models"
	"launchit/internal/domain/repositories"
	"launchit/internal/domain/services"
	"launchit/internal/metrics"
	"launchit/internal/moderation"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// reportService implements the ReportService interface
type reportService struct {
	commentRepo repositories.CommentRepository
	reportRepo  repositories.ReportRepository
	authorizer  services.CommentAuthorizer
	catalog     *moderation.Catalog
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	commentRepo repositories.CommentRepository,
	reportRepo repositories.ReportRepository,
	authorizer services.CommentAuthorizer,
	catalog *moderation.Catalog,
	m *metrics.Metrics,
	logger *slog.Logger,
) services.ReportService {
	return &reportService{
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
		authorizer:  authorizer,
		catalog:     catalog,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// ReportComment files an abuse report against a comment.
// The request is validated before the comment is looked up.
func (s *reportService) ReportComment(ctx context.Context, actor models.Actor, req *services.ReportCommentRequest) (*models.Report, error) {
	if err := s.authorizer.CanComment(actor); err != nil {
		return nil, err
	}

	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			req.Description = nil
		} else {
			req.Description = &trimmed
		}
	}

	if err := s.validateReportRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	comment, err := s.commentRepo.GetByID(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanReport(actor, comment); err != nil {
		return nil, err
	}

	if comment.Deleted {
		return nil, fmt.Errorf("comment %s is already deleted: %w", comment.ID, domain.ErrConflict)
	}

	report := &models.Report{
		CommentID:   comment.ID,
		ReporterID:  actor.ID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusOpen,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.metrics.CommentReported(string(report.Reason))
	s.logger.Info("comment reported",
		"report_id", report.ID,
		"comment_id", report.CommentID,
		"reporter_id", report.ReporterID,
		"reason", report.Reason,
	)

	return report, nil
}

// ListReports returns reports for admin review
func (s *reportService) ListReports(ctx context.Context, actor models.Actor, status *models.ReportStatus) ([]models.Report, error) {
	if err := s.authorizer.CanModerate(actor); err != nil {
		return nil, err
	}
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown report status %q", domain.ErrValidation, *status)
	}
	return s.reportRepo.List(ctx, status)
}

// ResolveReport closes an open report on behalf of an admin
func (s *reportService) ResolveReport(ctx context.Context, actor models.Actor, reportID string) (*models.Report, error) {
	if err := s.authorizer.CanModerate(actor); err != nil {
		return nil, err
	}
	if reportID == "" {
		return nil, fmt.Errorf("%w: report id is required", domain.ErrValidation)
	}

	report, err := s.reportRepo.Resolve(ctx, reportID, actor.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("report resolved",
		"report_id", report.ID,
		"comment_id", report.CommentID,
		"resolved_by", actor.ID,
	)

	return report, nil
}

// validateReportRequest validates a report request against the reason catalog
func (s *reportService) validateReportRequest(req *services.ReportCommentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CommentID, validation.Required),
		validation.Field(&req.Reason,
			validation.Required,
			validation.By(s.knownReason),
		),
		validation.Field(&req.Description,
			validation.When(s.catalog.RequiresDescription(req.Reason),
				validation.Required.Error("a description is required for this reason"),
			),
			validation.RuneLength(0, config.MaxReportDescriptionLength),
		),
	)
}

// knownReason checks the reason exists in the catalog
func (s *reportService) knownReason(value interface{}) error {
	reason, ok := value.(models.ReportReason)
	if !ok {
		return fmt.Errorf("reason must be a string")
	}
	if _, ok := s.catalog.Get(reason); !ok {
		return fmt.Errorf("unknown reason %q", reason)
	}
	return nil
}
