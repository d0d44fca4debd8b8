package models

import "time"

// CommentState is the moderation state of a single comment.
type CommentState string

const (
	// CommentStateActive means the content is visible.
	CommentStateActive CommentState = "active"
	// CommentStateTombstoned means the content was removed but the row stays
	// so that replies keep their parent.
	CommentStateTombstoned CommentState = "tombstoned"
	// CommentStateErased means the row no longer exists.
	CommentStateErased CommentState = "erased"
)

// DeleteOutcome reports which transition a delete action performed.
type DeleteOutcome string

const (
	DeleteOutcomeErased     DeleteOutcome = "erased"
	DeleteOutcomeTombstoned DeleteOutcome = "tombstoned"
)

// Comment is a user-authored message attached to a project (a launch).
type Comment struct {
	ID        string         `json:"id" db:"id"`
	ProjectID string         `json:"project_id" db:"project_id"`
	AuthorID  string         `json:"author_id" db:"author_id"`
	ParentID  *string        `json:"parent_id" db:"parent_id"` // nil for top-level comments
	Content   string         `json:"content" db:"content"`
	Deleted   bool           `json:"deleted" db:"deleted"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty" db:"updated_at"`
	Author    *AuthorSummary `json:"author,omitempty"`
}

// AuthorSummary holds the display fields joined from the author's profile.
type AuthorSummary struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// IsRoot reports whether the comment is a top-level comment.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// State returns the moderation state of a stored comment.
// A row that exists is never Erased.
func (c *Comment) State() CommentState {
	if c.Deleted {
		return CommentStateTombstoned
	}
	return CommentStateActive
}

// CommentNode is a comment together with its direct replies in ascending
// creation order. It is a computed view and never persisted.
type CommentNode struct {
	Comment
	Children []*CommentNode `json:"children"`
}
