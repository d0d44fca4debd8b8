package comments

import (
	"context"
	"errors"
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

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// commentService implements the CommentService interface
type commentService struct {
	commentRepo repositories.CommentRepository
	txManager   repositories.TransactionManager
	authorizer  services.CommentAuthorizer
	builder     *TreeBuilder
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	txManager repositories.TransactionManager,
	authorizer services.CommentAuthorizer,
	builder *TreeBuilder,
	m *metrics.Metrics,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		txManager:   txManager,
		authorizer:  authorizer,
		builder:     builder,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// GetThread fetches a project's comments and builds the reply tree
func (s *commentService) GetThread(ctx context.Context, projectID string) ([]*models.CommentNode, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", domain.ErrValidation)
	}

	list, err := s.commentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	roots := s.builder.Build(list)

	if reachable := len(Flatten(roots)); reachable < len(list) {
		s.logger.Debug("comments not reachable from any root",
			"project_id", projectID,
			"total", len(list),
			"reachable", reachable,
			"orphan_policy", s.builder.Policy(),
		)
	}

	return roots, nil
}

// CountComments counts the visible comments of a project
func (s *commentService) CountComments(ctx context.Context, projectID string) (int, error) {
	if projectID == "" {
		return 0, fmt.Errorf("%w: project id is required", domain.ErrValidation)
	}
	return s.commentRepo.CountByProject(ctx, projectID)
}

// CreateComment stores a top-level comment or a reply.
// Replies may target tombstoned parents; the parent must belong to the same project.
func (s *commentService) CreateComment(ctx context.Context, actor models.Actor, req *services.CreateCommentRequest) (*models.Comment, error) {
	if err := s.authorizer.CanComment(actor); err != nil {
		return nil, err
	}

	// Normalize empty string parent_id to nil for top-level comments
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Stored as written; clients escape on display
	content := strings.TrimSpace(req.Content)

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent comment %s does not exist", domain.ErrValidation, *req.ParentID)
			}
			return nil, err
		}
		if parent.ProjectID != req.ProjectID {
			return nil, fmt.Errorf("%w: parent comment %s belongs to another project", domain.ErrValidation, parent.ID)
		}
	}

	comment := &models.Comment{
		ProjectID: req.ProjectID,
		AuthorID:  actor.ID,
		ParentID:  req.ParentID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.metrics.CommentCreated(!comment.IsRoot())
	s.logger.Info("comment created",
		"id", comment.ID,
		"project_id", comment.ProjectID,
		"author_id", comment.AuthorID,
		"reply", !comment.IsRoot(),
	)

	return comment, nil
}

// DeleteComment applies the moderation transition for a delete action:
// a comment without replies is erased, one with replies is tombstoned.
// The guard runs before any mutation and the reply count and the
// transition share one transaction.
func (s *commentService) DeleteComment(ctx context.Context, actor models.Actor, commentID string) (*services.DeleteCommentResult, error) {
	// Anonymous visitors are turned away before the store is touched
	if err := s.authorizer.CanComment(actor); err != nil {
		return nil, err
	}
	if commentID == "" {
		return nil, fmt.Errorf("%w: comment id is required", domain.ErrValidation)
	}

	result := &services.DeleteCommentResult{CommentID: commentID}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		comment, err := s.commentRepo.GetByID(txCtx, commentID)
		if err != nil {
			return err
		}

		if err := s.authorizer.CanDelete(actor, comment); err != nil {
			return err
		}

		if comment.Deleted {
			return fmt.Errorf("comment %s is already deleted: %w", commentID, domain.ErrConflict)
		}

		replies, err := s.commentRepo.CountReplies(txCtx, commentID)
		if err != nil {
			return err
		}

		if replies == 0 {
			err := s.commentRepo.Erase(txCtx, commentID)
			if err == nil {
				result.Outcome = models.DeleteOutcomeErased
				return nil
			}
			if !errors.Is(err, domain.ErrConflict) {
				return err
			}
			// A reply landed after the count; keep the row for it
			s.logger.Debug("reply arrived during delete, tombstoning instead", "id", commentID)
		}

		if err := s.commentRepo.Tombstone(txCtx, commentID, s.now().UTC()); err != nil {
			return err
		}
		result.Outcome = models.DeleteOutcomeTombstoned
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CommentDeleted(string(result.Outcome))
	s.logger.Info("comment deleted",
		"id", commentID,
		"actor_id", actor.ID,
		"actor_role", actor.Role,
		"outcome", result.Outcome,
	)

	return result, nil
}

// validateCreateRequest validates a create comment request
func (s *commentService) validateCreateRequest(req *services.CreateCommentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Content,
			validation.Required,
			validation.RuneLength(1, config.MaxCommentLength),
			validation.By(notBlank("content")),
		),
		validation.Field(&req.ParentID, validation.NilOrNotEmpty, is.UUID),
	)
}

// notBlank rejects strings that are empty after trimming
func notBlank(field string) validation.RuleFunc {
	return func(value interface{}) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		default:
			return fmt.Errorf("%s must be a string", field)
		}

		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}
