package db

import (
	"context"

	"github.com/tgienger/weekly/internal/models"
)

// appendHistory inserts entries after the first offset entries of a task's
// copy history. Existing rows are never updated.
func appendHistory(ctx context.Context, q querier, taskID string, offset int, entries []models.CopyHistoryEntry) error {
	for i, h := range entries {
		_, err := q.ExecContext(ctx, `
			INSERT INTO copy_history (task_id, seq, id, original_task_id, copied_from_week,
				copied_to_week, copy_reason, copied_by, copied_at, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, taskID, offset+i, h.ID, h.OriginalTaskID, h.CopiedFromWeek,
			h.CopiedToWeek, h.CopyReason, h.CopiedBy, h.CopiedAt, h.Status)
		if err != nil {
			return wrap("append history", err)
		}
	}
	return nil
}

func getHistory(ctx context.Context, q querier, taskID string) ([]models.CopyHistoryEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, original_task_id, copied_from_week, copied_to_week, copy_reason,
			copied_by, copied_at, status
		FROM copy_history
		WHERE task_id = ?
		ORDER BY seq
	`, taskID)
	if err != nil {
		return nil, wrap("get history", err)
	}
	defer rows.Close()

	history := []models.CopyHistoryEntry{}
	for rows.Next() {
		var h models.CopyHistoryEntry
		if err := rows.Scan(&h.ID, &h.OriginalTaskID, &h.CopiedFromWeek, &h.CopiedToWeek,
			&h.CopyReason, &h.CopiedBy, &h.CopiedAt, &h.Status); err != nil {
			return nil, wrap("scan history", err)
		}
		history = append(history, h)
	}
	return history, wrap("get history", rows.Err())
}
