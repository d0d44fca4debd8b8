package services

import (
	"context"

	"launchit/internal/domain/models"
)

// CreateCommentRequest represents a request to create a comment or a reply
type CreateCommentRequest struct {
	ProjectID string  `json:"-"`
	Content   string  `json:"content"`
	ParentID  *string `json:"parent_id,omitempty"`
}

// DeleteCommentResult describes which moderation transition was applied
type DeleteCommentResult struct {
	CommentID string               `json:"comment_id"`
	Outcome   models.DeleteOutcome `json:"outcome"`
}

// CommentService defines business logic operations for project comments.
// The actor is passed explicitly; services never look it up themselves.
type CommentService interface {
	// GetThread fetches the flat comment list of a project and builds the reply tree
	GetThread(ctx context.Context, projectID string) ([]*models.CommentNode, error)

	// CountComments counts visible (non-deleted) comments of a project
	CountComments(ctx context.Context, projectID string) (int, error)

	// CreateComment adds a top-level comment or a reply authored by the actor
	CreateComment(ctx context.Context, actor models.Actor, req *CreateCommentRequest) (*models.Comment, error)

	// DeleteComment erases a childless comment or tombstones one with replies.
	// Only the author or an admin may delete.
	DeleteComment(ctx context.Context, actor models.Actor, commentID string) (*DeleteCommentResult, error)
}
