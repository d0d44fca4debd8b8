package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"launchit/internal/domain"
	"launchit/internal/domain/models"
	"launchit/internal/domain/repositories"
)

const reportColumns = `id, comment_id, reporter_id, reason, description, status, created_at, resolved_by, resolved_at`

// PostgresReportRepository implements the ReportRepository interface
type PostgresReportRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(config *RepositoryConfig) repositories.ReportRepository {
	return &PostgresReportRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create stores a new report
func (r *PostgresReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = models.ReportStatusOpen
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, comment_id, reporter_id, reason, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Reports)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		report.ID,
		report.CommentID,
		report.ReporterID,
		report.Reason,
		report.Description,
		report.Status,
		report.CreatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getOpenReportID(ctx, report.CommentID, report.ReporterID)
			if queryErr != nil {
				return fmt.Errorf("comment already reported: %w", domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      "you already reported this comment",
				ResourceType: "report",
				ResourceID:   existingID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("comment %s: %w", report.CommentID, domain.ErrNotFound)
		}
		if IsPgCheckViolation(err) {
			return fmt.Errorf("%w: invalid report", domain.ErrValidation)
		}
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

// List retrieves reports newest first, optionally filtered by status
func (r *PostgresReportRepository) List(ctx context.Context, status *models.ReportStatus) ([]models.Report, error) {
	var (
		rows pgx.Rows
		err  error
	)
	executor := GetExecutor(ctx, r.pool)
	if status != nil {
		query := fmt.Sprintf(`
			SELECT %s FROM %s WHERE status = $1 ORDER BY created_at DESC, id ASC
		`, reportColumns, r.tables.Reports)
		rows, err = executor.Query(ctx, query, *status)
	} else {
		query := fmt.Sprintf(`
			SELECT %s FROM %s ORDER BY created_at DESC, id ASC
		`, reportColumns, r.tables.Reports)
		rows, err = executor.Query(ctx, query)
	}
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
func (r *PostgresReportRepository) Resolve(ctx context.Context, id, resolverID string, at time.Time) (*models.Report, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND status = $5
		RETURNING %s
	`, r.tables.Reports, reportColumns)

	executor := GetExecutor(ctx, r.pool)
	report, err := scanReport(executor.QueryRow(ctx, query,
		id, models.ReportStatusResolved, resolverID, at, models.ReportStatusOpen,
	))
	if err == nil {
		return report, nil
	}
	if !IsPgNoRowsError(err) {
		return nil, err
	}

	// Distinguish a missing report from one that is already resolved
	var status models.ReportStatus
	lookup := fmt.Sprintf(`SELECT status FROM %s WHERE id = $1`, r.tables.Reports)
	if err := executor.QueryRow(ctx, lookup, id).Scan(&status); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return nil, fmt.Errorf("report %s is already %s: %w", id, status, domain.ErrConflict)
}

// getOpenReportID finds the reporter's open report on a comment
func (r *PostgresReportRepository) getOpenReportID(ctx context.Context, commentID, reporterID string) (string, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE comment_id = $1 AND reporter_id = $2 AND status = $3
	`, r.tables.Reports)

	var id string
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, commentID, reporterID, models.ReportStatusOpen).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("get open report: %w", err)
	}
	return id, nil
}

// scanReport scans one report row; the error wraps pgx.ErrNoRows when nothing matched
func scanReport(row pgx.Row) (*models.Report, error) {
	var report models.Report
	err := row.Scan(
		&report.ID,
		&report.CommentID,
		&report.ReporterID,
		&report.Reason,
		&report.Description,
		&report.Status,
		&report.CreatedAt,
		&report.ResolvedBy,
		&report.ResolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}
	return &report, nil
}
