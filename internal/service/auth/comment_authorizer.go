package auth

import (
	"fmt"

	"launchit/internal/domain"
	"launchit/internal/domain/models"
)

// RoleBasedAuthorizer implements CommentAuthorizer using authorship and the actor's role.
//
// Rules:
//   - signed-in actors may comment and reply
//   - the author or an admin may delete
//   - anyone signed in except the author may report
//   - only admins moderate reports
type RoleBasedAuthorizer struct{}

// NewRoleBasedAuthorizer creates a new role-based authorizer
func NewRoleBasedAuthorizer() *RoleBasedAuthorizer {
	return &RoleBasedAuthorizer{}
}

// CanComment checks the actor is signed in
func (a *RoleBasedAuthorizer) CanComment(actor models.Actor) error {
	if !actor.IsAuthenticated() {
		return fmt.Errorf("sign in to comment: %w", domain.ErrUnauthorized)
	}
	return nil
}

// CanDelete checks the actor wrote the comment or is an admin
func (a *RoleBasedAuthorizer) CanDelete(actor models.Actor, comment *models.Comment) error {
	if err := a.CanComment(actor); err != nil {
		return err
	}
	if actor.ID == comment.AuthorID || actor.IsAdmin() {
		return nil
	}
	return fmt.Errorf("delete comment %s: %w", comment.ID, domain.ErrForbidden)
}

// CanReport checks the actor is signed in and did not write the comment
func (a *RoleBasedAuthorizer) CanReport(actor models.Actor, comment *models.Comment) error {
	if err := a.CanComment(actor); err != nil {
		return err
	}
	if actor.ID == comment.AuthorID {
		return fmt.Errorf("cannot report your own comment: %w", domain.ErrForbidden)
	}
	return nil
}

// CanModerate checks the actor is an admin
func (a *RoleBasedAuthorizer) CanModerate(actor models.Actor) error {
	if err := a.CanComment(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("moderation requires the admin role: %w", domain.ErrForbidden)
	}
	return nil
}
