package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"launchit/internal/domain"
	"launchit/internal/domain/models"
)

const reportColumns = `id, comment_id, reporter_id, reason, description, status, created_at, resolved_by, resolved_at`

// ReportRepository implements the ReportRepository interface on SQLite
type ReportRepository struct {
	db *sql.DB
}

// Create stores a new report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.Status == "" {
		report.Status = models.ReportStatusOpen
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	report.CreatedAt = report.CreatedAt.UTC()

	exec := getExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO comment_reports (id, comment_id, reporter_id, reason, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.CommentID, report.ReporterID, string(report.Reason), report.Description,
		string(report.Status), formatTime(report.CreatedAt))

	if err != nil {
		switch constraintCode(err) {
		case sqlite3.ErrConstraintUnique:
			var existingID string
			lookupErr := exec.QueryRowContext(ctx, `
				SELECT id FROM comment_reports WHERE comment_id = ? AND reporter_id = ? AND status = 'open'
			`, report.CommentID, report.ReporterID).Scan(&existingID)
			if lookupErr != nil {
				return fmt.Errorf("comment already reported: %w", domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      "you already reported this comment",
				ResourceType: "report",
				ResourceID:   existingID,
			}
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("comment %s: %w", report.CommentID, domain.ErrNotFound)
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: invalid report", domain.ErrValidation)
		}
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

// List retrieves reports newest first, optionally filtered by status
func (r *ReportRepository) List(ctx context.Context, status *models.ReportStatus) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM comment_reports`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// Resolve marks an open report as resolved
func (r *ReportRepository) Resolve(ctx context.Context, id, resolverID string, at time.Time) (*models.Report, error) {
	exec := getExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `
		UPDATE comment_reports
		SET status = 'resolved', resolved_by = ?, resolved_at = ?
		WHERE id = ? AND status = 'open'
	`, resolverID, formatTime(at), id)
	if err != nil {
		return nil, fmt.Errorf("resolve report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("resolve report: %w", err)
	}

	report, err := scanReport(exec.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM comment_reports WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	if affected == 0 {
		return nil, fmt.Errorf("report %s is already %s: %w", id, report.Status, domain.ErrConflict)
	}
	return report, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanReport returns sql.ErrNoRows unwrapped so callers can compare it
func scanReport(row scanner) (*models.Report, error) {
	var report models.Report
	var reason, status, createdAt string
	var description, resolvedBy, resolvedAt sql.NullString

	err := row.Scan(&report.ID, &report.CommentID, &report.ReporterID, &reason, &description,
		&status, &createdAt, &resolvedBy, &resolvedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	report.Reason = models.ReportReason(reason)
	report.Status = models.ReportStatus(status)
	if description.Valid {
		report.Description = &description.String
	}
	if resolvedBy.Valid {
		report.ResolvedBy = &resolvedBy.String
	}
	if report.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if report.ResolvedAt, err = parseNullTime(resolvedAt); err != nil {
		return nil, err
	}
	return &report, nil
}
