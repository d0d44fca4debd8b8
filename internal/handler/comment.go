package handler

import (
	"log/slog"
	"net/http"
	"time"

	"launchit/internal/domain/models"
	"launchit/internal/domain/services"
	"launchit/internal/httputil"
)

// CommentHandler handles comment thread HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	authorizer     services.CommentAuthorizer
	logger         *slog.Logger
	now            func() time.Time
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService services.CommentService, authorizer services.CommentAuthorizer, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authorizer:     authorizer,
		logger:         logger,
		now:            time.Now,
	}
}

// GetThread returns the reply tree of a project
// GET /api/projects/{id}/comments
func (h *CommentHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id", "project ID")
	if !ok {
		return
	}

	roots, err := h.commentService.GetThread(r.Context(), projectID)
	if err != nil {
		h.logger.Error("failed to load thread", "project_id", projectID, "error", err)
		handleError(w, err)
		return
	}

	vb := &viewBuilder{
		actor:      httputil.GetActor(r),
		authorizer: h.authorizer,
		now:        h.now(),
		visited:    make(map[*models.CommentNode]bool),
	}
	httputil.RespondJSON(w, http.StatusOK, ThreadResponse{
		ProjectID: projectID,
		Comments:  vb.build(roots),
	})
}

// CountComments returns the number of visible comments of a project
// GET /api/projects/{id}/comments/count
func (h *CommentHandler) CountComments(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id", "project ID")
	if !ok {
		return
	}

	count, err := h.commentService.CountComments(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"project_id": projectID,
		"count":      count,
	})
}

// CreateComment posts a top-level comment or a reply
// POST /api/projects/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id", "project ID")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}
	req.ProjectID = projectID

	comment, err := h.commentService.CreateComment(r.Context(), httputil.GetActor(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// DeleteComment erases or tombstones a comment
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id", "comment ID")
	if !ok {
		return
	}

	result, err := h.commentService.DeleteComment(r.Context(), httputil.GetActor(r), commentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
