package db

import (
	"context"
	"strings"

	"github.com/google/uuid"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

// AddComment creates a new comment on a task
func (db *DB) AddComment(ctx context.Context, c models.TaskComment) (*models.TaskComment, error) {
	if strings.TrimSpace(c.Content) == "" {
		return nil, wkerrors.InvalidArgumentError{Field: "comment", Reason: "content required"}
	}
	if _, err := db.Get(ctx, c.TaskID); err != nil {
		return nil, err
	}

	c.ID = uuid.NewString()
	c.CreatedAt = db.now()
	if err := insertComment(ctx, db, c); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "UPDATE tasks SET updated_at = ? WHERE id = ?", c.CreatedAt, c.TaskID); err != nil {
		return nil, wrap("touch task", err)
	}
	return &c, nil
}

func insertComment(ctx context.Context, q querier, c models.TaskComment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO comments (id, task_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.TaskID, c.UserID, c.Content, c.CreatedAt)
	return wrap("insert comment", err)
}

// getTaskComments retrieves all comments for a task, ordered by creation time (oldest first)
func getTaskComments(ctx context.Context, q querier, taskID string) ([]models.TaskComment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, task_id, user_id, content, created_at
		FROM comments
		WHERE task_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, taskID)
	if err != nil {
		return nil, wrap("get comments", err)
	}
	defer rows.Close()

	comments := []models.TaskComment{}
	for rows.Next() {
		var c models.TaskComment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, wrap("scan comment", err)
		}
		comments = append(comments, c)
	}
	return comments, wrap("get comments", rows.Err())
}
