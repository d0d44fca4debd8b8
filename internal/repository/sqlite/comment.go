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

// CommentRepository implements the CommentRepository interface on SQLite
type CommentRepository struct {
	db *sql.DB
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	comment.CreatedAt = comment.CreatedAt.UTC()

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO comments (id, project_id, author_id, parent_id, content, deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, comment.ID, comment.ProjectID, comment.AuthorID, comment.ParentID, comment.Content,
		comment.Deleted, formatTime(comment.CreatedAt))

	if err != nil {
		switch constraintCode(err) {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: parent comment does not exist", domain.ErrValidation)
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: comment cannot reply to itself", domain.ErrValidation)
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
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
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	row := getExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, project_id, author_id, parent_id, content, deleted, created_at, updated_at
		FROM comments WHERE id = ?
	`, id)

	var comment models.Comment
	var parentID, updatedAt sql.NullString
	var createdAt string
	err := row.Scan(&comment.ID, &comment.ProjectID, &comment.AuthorID, &parentID,
		&comment.Content, &comment.Deleted, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	if err := fillComment(&comment, parentID, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByProject retrieves every comment of a project, oldest first
func (r *CommentRepository) ListByProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT c.id, c.project_id, c.author_id, c.parent_id, c.content, c.deleted,
		       c.created_at, c.updated_at, p.display_name, p.avatar_url
		FROM comments c
		LEFT JOIN profiles p ON p.id = c.author_id
		WHERE c.project_id = ?
		ORDER BY c.created_at ASC, c.rowid ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		var parentID, updatedAt, displayName, avatarURL sql.NullString
		var createdAt string
		err := rows.Scan(&comment.ID, &comment.ProjectID, &comment.AuthorID, &parentID,
			&comment.Content, &comment.Deleted, &createdAt, &updatedAt, &displayName, &avatarURL)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if err := fillComment(&comment, parentID, createdAt, updatedAt); err != nil {
			return nil, err
		}
		if displayName.Valid {
			comment.Author = &models.AuthorSummary{DisplayName: displayName.String}
			if avatarURL.Valid {
				comment.Author.AvatarURL = &avatarURL.String
			}
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// CountByProject counts non-deleted comments of a project
func (r *CommentRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE project_id = ? AND deleted = 0`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

// CountReplies counts the direct replies of a comment
func (r *CommentRepository) CountReplies(ctx context.Context, id string) (int, error) {
	var count int
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE parent_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count replies: %w", err)
	}
	return count, nil
}

// Erase deletes a comment only while it has no replies
func (r *CommentRepository) Erase(ctx context.Context, id string) error {
	exec := getExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `
		DELETE FROM comments
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM comments child WHERE child.parent_id = ?)
	`, id, id)
	if err != nil {
		return fmt.Errorf("erase comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erase comment: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check comment: %w", err)
	}
	if exists {
		return fmt.Errorf("comment %s has replies: %w", id, domain.ErrConflict)
	}
	return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
}

// Tombstone clears the content and marks the comment deleted
func (r *CommentRepository) Tombstone(ctx context.Context, id string, at time.Time) error {
	result, err := getExecutor(ctx, r.db).ExecContext(ctx, `
		UPDATE comments SET content = '', deleted = 1, updated_at = ? WHERE id = ?
	`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("tombstone comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("tombstone comment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SweepTombstones erases tombstoned comments without replies (one level per call)
func (r *CommentRepository) SweepTombstones(ctx context.Context) (int, error) {
	result, err := getExecutor(ctx, r.db).ExecContext(ctx, `
		DELETE FROM comments
		WHERE deleted = 1
		  AND id NOT IN (SELECT parent_id FROM comments WHERE parent_id IS NOT NULL)
	`)
	if err != nil {
		return 0, fmt.Errorf("sweep tombstones: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep tombstones: %w", err)
	}
	return int(affected), nil
}

func fillComment(c *models.Comment, parentID sql.NullString, createdAt string, updatedAt sql.NullString) error {
	if parentID.Valid {
		c.ParentID = &parentID.String
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	if c.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return err
	}
	return nil
}
