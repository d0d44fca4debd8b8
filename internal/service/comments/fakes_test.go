package comments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"launchit/internal/domain"
	"launchit/internal/domain/models"
	"launchit/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// memCommentRepo is an in-memory CommentRepository that counts store calls
type memCommentRepo struct {
	rows   map[string]*models.Comment
	order  []string
	nextID int
	calls  int
	err    error
	// eraseConflict makes the next Erase report a racing reply
	eraseConflict bool
}

func newMemCommentRepo(comments ...models.Comment) *memCommentRepo {
	r := &memCommentRepo{rows: make(map[string]*models.Comment)}
	for i := range comments {
		c := comments[i]
		r.rows[c.ID] = &c
		r.order = append(r.order, c.ID)
	}
	return r
}

func (r *memCommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	if c.ID == "" {
		r.nextID++
		c.ID = fmt.Sprintf("new-%d", r.nextID)
	}
	stored := *c
	r.rows[c.ID] = &stored
	r.order = append(r.order, c.ID)
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (r *memCommentRepo) ListByProject(_ context.Context, projectID string) ([]models.Comment, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Comment
	for _, id := range r.order {
		if c, ok := r.rows[id]; ok && c.ProjectID == projectID {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memCommentRepo) CountByProject(_ context.Context, projectID string) (int, error) {
	r.calls++
	n := 0
	for _, c := range r.rows {
		if c.ProjectID == projectID && !c.Deleted {
			n++
		}
	}
	return n, nil
}

func (r *memCommentRepo) CountReplies(_ context.Context, id string) (int, error) {
	r.calls++
	n := 0
	for _, c := range r.rows {
		if c.ParentID != nil && *c.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (r *memCommentRepo) Erase(ctx context.Context, id string) error {
	r.calls++
	if r.eraseConflict {
		r.eraseConflict = false
		return fmt.Errorf("comment %s has replies: %w", id, domain.ErrConflict)
	}
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	if n, _ := r.CountReplies(ctx, id); n > 0 {
		return fmt.Errorf("comment %s has replies: %w", id, domain.ErrConflict)
	}
	delete(r.rows, id)
	return nil
}

func (r *memCommentRepo) Tombstone(_ context.Context, id string, at time.Time) error {
	r.calls++
	c, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Content = ""
	c.Deleted = true
	c.UpdatedAt = &at
	return nil
}

func (r *memCommentRepo) SweepTombstones(ctx context.Context) (int, error) {
	r.calls++
	var ids []string
	for id, c := range r.rows {
		if n, _ := r.CountReplies(ctx, id); c.Deleted && n == 0 {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(r.rows, id)
	}
	return len(ids), nil
}

// passthroughTx runs fn directly
type passthroughTx struct {
	runs int
}

func (t *passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	t.runs++
	return fn(ctx)
}

// memReportRepo is an in-memory ReportRepository
type memReportRepo struct {
	reports []*models.Report
	calls   int
}

func (r *memReportRepo) Create(_ context.Context, report *models.Report) error {
	r.calls++
	for _, existing := range r.reports {
		if existing.CommentID == report.CommentID &&
			existing.ReporterID == report.ReporterID &&
			existing.Status == models.ReportStatusOpen {
			return &domain.ConflictError{
				Message:      "you already reported this comment",
				ResourceType: "report",
				ResourceID:   existing.ID,
			}
		}
	}
	report.ID = fmt.Sprintf("report-%d", len(r.reports)+1)
	stored := *report
	r.reports = append(r.reports, &stored)
	return nil
}

func (r *memReportRepo) List(_ context.Context, status *models.ReportStatus) ([]models.Report, error) {
	r.calls++
	var out []models.Report
	for _, report := range r.reports {
		if status == nil || report.Status == *status {
			out = append(out, *report)
		}
	}
	return out, nil
}

func (r *memReportRepo) Resolve(_ context.Context, id, resolverID string, at time.Time) (*models.Report, error) {
	r.calls++
	for _, report := range r.reports {
		if report.ID == id {
			if report.Status != models.ReportStatusOpen {
				return nil, fmt.Errorf("report %s already resolved: %w", id, domain.ErrConflict)
			}
			report.Status = models.ReportStatusResolved
			report.ResolvedBy = &resolverID
			report.ResolvedAt = &at
			out := *report
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}
