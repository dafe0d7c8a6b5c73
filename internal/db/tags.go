package db

import (
	"context"
)

// setTaskTags replaces the tags of a task. Unknown tag names are created.
func setTaskTags(ctx context.Context, q querier, taskID string, tags []string) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return wrap("clear tags", err)
	}
	for _, name := range tags {
		if _, err := q.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name) VALUES (?)", name); err != nil {
			return wrap("create tag", err)
		}
		_, err := q.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_tags (task_id, tag_id)
			SELECT ?, id FROM tags WHERE name = ?
		`, taskID, name)
		if err != nil {
			return wrap("tag task", err)
		}
	}
	return nil
}

// getTaskTags returns all tag names for a task
func getTaskTags(ctx context.Context, q querier, taskID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.name
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name
	`, taskID)
	if err != nil {
		return nil, wrap("get tags", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrap("scan tag", err)
		}
		tags = append(tags, name)
	}
	return tags, wrap("get tags", rows.Err())
}
