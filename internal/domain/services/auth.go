package services

import (
	"context"

	"launchit/internal/domain/models"
)

// CommentAuthorizer decides which comment actions an actor may perform.
// Each method returns nil when allowed, or an error wrapping
// domain.ErrUnauthorized / domain.ErrForbidden.
//
// Services call the authorizer before touching the store, and handlers use
// the same checks to decide which actions to advertise.
type CommentAuthorizer interface {
	// CanComment checks the actor may post comments and replies
	CanComment(actor models.Actor) error

	// CanDelete checks the actor is the author or an admin
	CanDelete(actor models.Actor, comment *models.Comment) error

	// CanReport checks the actor is signed in and not the author
	CanReport(actor models.Actor, comment *models.Comment) error

	// CanModerate checks the actor is an admin
	CanModerate(actor models.Actor) error
}

// IdentityService resolves the application role of an authenticated user
type IdentityService interface {
	ResolveActor(ctx context.Context, userID string) (models.Actor, error)
}
