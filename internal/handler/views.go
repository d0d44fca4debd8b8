package handler

import (
	"time"

	"launchit/internal/domain/models"
	"launchit/internal/domain/services"
	"launchit/internal/utils"
)

// CommentView is a comment node as returned to clients, annotated with the
// actions the requesting actor may take on it
type CommentView struct {
	ID           string                `json:"id"`
	ProjectID    string                `json:"project_id"`
	AuthorID     string                `json:"author_id"`
	ParentID     *string               `json:"parent_id"`
	Content      string                `json:"content"`
	Deleted      bool                  `json:"deleted"`
	State        models.CommentState   `json:"state"`
	CreatedAt    time.Time             `json:"created_at"`
	RelativeTime string                `json:"relative_time"`
	Author       *models.AuthorSummary `json:"author,omitempty"`
	CanDelete    bool                  `json:"can_delete"`
	CanReport    bool                  `json:"can_report"`
	Children     []*CommentView        `json:"children"`
}

// ThreadResponse is the body of GET /api/projects/{id}/comments
type ThreadResponse struct {
	ProjectID string         `json:"project_id"`
	Comments  []*CommentView `json:"comments"`
}

// viewBuilder converts comment trees to views for one actor
type viewBuilder struct {
	actor      models.Actor
	authorizer services.CommentAuthorizer
	now        time.Time
	visited    map[*models.CommentNode]bool
}

func (b *viewBuilder) build(nodes []*models.CommentNode) []*CommentView {
	views := make([]*CommentView, 0, len(nodes))
	for _, node := range nodes {
		if b.visited[node] {
			continue
		}
		b.visited[node] = true
		views = append(views, b.view(node))
	}
	return views
}

func (b *viewBuilder) view(node *models.CommentNode) *CommentView {
	c := &node.Comment
	v := &CommentView{
		ID:           c.ID,
		ProjectID:    c.ProjectID,
		AuthorID:     c.AuthorID,
		ParentID:     c.ParentID,
		Content:      c.Content,
		Deleted:      c.Deleted,
		State:        c.State(),
		CreatedAt:    c.CreatedAt,
		RelativeTime: utils.FormatRelativeTime(b.now, c.CreatedAt),
		Author:       c.Author,
		CanDelete:    !c.Deleted && b.authorizer.CanDelete(b.actor, c) == nil,
		CanReport:    !c.Deleted && b.authorizer.CanReport(b.actor, c) == nil,
	}
	v.Children = b.build(node.Children)
	return v
}
