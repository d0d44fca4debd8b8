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

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, author_id, parent_id, content, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		comment.ID,
		comment.ProjectID,
		comment.AuthorID,
		comment.ParentID,
		comment.Content,
		comment.Deleted,
		comment.CreatedAt,
	).Scan(&comment.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("%w: parent comment does not exist", domain.ErrValidation)
		}
		if IsPgCheckViolation(err) {
			return fmt.Errorf("%w: comment cannot reply to itself", domain.ErrValidation)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("comment %s already exists", comment.ID),
				ResourceType: "comment",
				ResourceID:   comment.ID,
			}
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, author_id, parent_id, content, deleted, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Comments)

	var comment models.Comment
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.ProjectID,
		&comment.AuthorID,
		&comment.ParentID,
		&comment.Content,
		&comment.Deleted,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

// ListByProject retrieves every comment of a project, oldest first, with author display fields
func (r *PostgresCommentRepository) ListByProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.project_id, c.author_id, c.parent_id, c.content, c.deleted,
		       c.created_at, c.updated_at, p.display_name, p.avatar_url
		FROM %s c
		LEFT JOIN %s p ON p.id = c.author_id
		WHERE c.project_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`, r.tables.Comments, r.tables.Profiles)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		var displayName, avatarURL *string
		err := rows.Scan(
			&comment.ID,
			&comment.ProjectID,
			&comment.AuthorID,
			&comment.ParentID,
			&comment.Content,
			&comment.Deleted,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&displayName,
			&avatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if displayName != nil {
			comment.Author = &models.AuthorSummary{DisplayName: *displayName, AvatarURL: avatarURL}
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// CountByProject counts non-deleted comments of a project
func (r *PostgresCommentRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE project_id = $1 AND deleted = false
	`, r.tables.Comments)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

// CountReplies counts the direct replies of a comment
func (r *PostgresCommentRepository) CountReplies(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE parent_id = $1
	`, r.tables.Comments)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count replies: %w", err)
	}
	return count, nil
}

// Erase deletes a comment only while it has no replies.
// The reply check is part of the DELETE so no error aborts an enclosing transaction.
func (r *PostgresCommentRepository) Erase(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM %[1]s child WHERE child.parent_id = $1)
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("erase comment: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("comment %s has replies: %w", id, domain.ErrConflict)
	}
	return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
}

// Tombstone clears the content and marks the comment deleted
func (r *PostgresCommentRepository) Tombstone(ctx context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = '', deleted = true, updated_at = $2
		WHERE id = $1
	`, r.tables.Comments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("tombstone comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SweepTombstones erases tombstoned comments without replies (one level per call)
func (r *PostgresCommentRepository) SweepTombstones(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`
		DELETE FROM %[1]s t
		WHERE t.deleted = true
		  AND NOT EXISTS (SELECT 1 FROM %[1]s child WHERE child.parent_id = t.id)
	`, r.tables.Comments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("sweep tombstones: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// exists reports whether a comment row exists
func (r *PostgresCommentRepository) exists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.tables.Comments)

	var exists bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check comment: %w", err)
	}
	return exists, nil
}
