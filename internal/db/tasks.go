package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.assignee_id, t.project_id,
	t.week_of, t.due_date, t.estimated_hours, t.actual_hours, t.progress, t.ticket_number,
	t.original_task_id, t.copied_from_week, t.copied_to_week, t.copy_reason, t.copied_by,
	t.created_at, t.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner, t *models.Task) error {
	return s.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssigneeID, &t.ProjectID,
		&t.WeekOf, &t.DueDate, &t.EstimatedHours, &t.ActualHours, &t.Progress, &t.TicketNumber,
		&t.OriginalTaskID, &t.CopiedFromWeek, &t.CopiedToWeek, &t.CopyReason, &t.CopiedBy,
		&t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a new task with its tags, comments and copy history
func (db *DB) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	var id string
	err := db.withTx(ctx, "create task", func(tx *sql.Tx) error {
		var err error
		id, err = db.insertTask(ctx, tx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return db.Get(ctx, id)
}

func (db *DB) insertTask(ctx context.Context, q querier, t *models.Task) (string, error) {
	id := uuid.NewString()
	now := db.now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, assignee_id, project_id,
			week_of, due_date, estimated_hours, actual_hours, progress, ticket_number,
			original_task_id, copied_from_week, copied_to_week, copy_reason, copied_by,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.ProjectID,
		t.WeekOf, t.DueDate, t.EstimatedHours, t.ActualHours, t.Progress, t.TicketNumber,
		t.OriginalTaskID, t.CopiedFromWeek, t.CopiedToWeek, t.CopyReason, t.CopiedBy,
		now, now)
	if err != nil {
		return "", wrap("insert task", err)
	}

	if err := setTaskTags(ctx, q, id, t.Tags); err != nil {
		return "", err
	}
	// Comments carried onto a copy get fresh ids under the new task
	for _, c := range t.Comments {
		c.ID = uuid.NewString()
		c.TaskID = id
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if err := insertComment(ctx, q, c); err != nil {
			return "", err
		}
	}
	if err := appendHistory(ctx, q, id, 0, t.CopyHistory); err != nil {
		return "", err
	}
	return id, nil
}

// Get retrieves a task by ID with its tags, comments and copy history
func (db *DB) Get(ctx context.Context, id string) (*models.Task, error) {
	return getTask(ctx, db, id)
}

func getTask(ctx context.Context, q querier, id string) (*models.Task, error) {
	t := &models.Task{}
	err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id), t)
	if err == sql.ErrNoRows {
		return nil, wkerrors.TaskNotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrap("get task", err)
	}
	if err := loadChildren(ctx, q, t); err != nil {
		return nil, err
	}
	return t, nil
}

func loadChildren(ctx context.Context, q querier, t *models.Task) error {
	var err error
	if t.Tags, err = getTaskTags(ctx, q, t.ID); err != nil {
		return err
	}
	if t.Comments, err = getTaskComments(ctx, q, t.ID); err != nil {
		return err
	}
	if t.CopyHistory, err = getHistory(ctx, q, t.ID); err != nil {
		return err
	}
	return nil
}

// Query returns the tasks matching f
func (db *DB) Query(ctx context.Context, f models.Filter) ([]models.Task, error) {
	query, args := buildQuery(f)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("query tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, wrap("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query tasks", err)
	}

	// Load tags, comments and history for each task
	for i := range tasks {
		if err := loadChildren(ctx, db, &tasks[i]); err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

// buildQuery translates f into a SELECT. It must select exactly the tasks
// Filter.Matches accepts.
func buildQuery(f models.Filter) (string, []any) {
	var where []string
	var args []any

	if f.AssigneeID != "" {
		where = append(where, "t.assignee_id = ?")
		args = append(args, f.AssigneeID)
	}
	if len(f.Weeks) > 0 {
		where = append(where, "t.week_of IN ("+placeholders(len(f.Weeks))+")")
		for _, w := range f.Weeks {
			args = append(args, w)
		}
	}
	if len(f.Statuses) > 0 {
		where = append(where, "t.status IN ("+placeholders(len(f.Statuses))+")")
		for _, s := range f.Statuses {
			args = append(args, string(s))
		}
	}
	if f.Priority != "" {
		where = append(where, "t.priority = ?")
		args = append(args, string(f.Priority))
	}
	if f.ProjectID != "" {
		where = append(where, "t.project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.OriginalTaskID != "" {
		where = append(where, "t.original_task_id = ?")
		args = append(args, f.OriginalTaskID)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		where = append(where, `(ulower(t.title) LIKE ? ESCAPE '\' OR ulower(t.description) LIKE ? ESCAPE '\' OR ulower(t.ticket_number) LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(term) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch f.Sort {
	case models.SortDueDate:
		query += " ORDER BY t.due_date = '', t.due_date ASC, t.created_at DESC"
	default:
		query += " ORDER BY t.week_of DESC, t.created_at DESC"
	}
	return query, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update merges u into the stored task
func (db *DB) Update(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	err := db.withTx(ctx, "update task", func(tx *sql.Tx) error {
		return db.updateTask(ctx, tx, id, u)
	})
	if err != nil {
		return nil, err
	}
	return db.Get(ctx, id)
}

func (db *DB) updateTask(ctx context.Context, q querier, id string, u models.TaskUpdate) error {
	current, err := getTask(ctx, q, id)
	if err != nil {
		return err
	}
	prev := current.CopyHistory
	u.Apply(current)

	if u.CopyHistory != nil {
		if err := models.ValidateHistoryAppend(id, prev, current.CopyHistory); err != nil {
			return err
		}
		if err := appendHistory(ctx, q, id, len(prev), current.CopyHistory[len(prev):]); err != nil {
			return err
		}
	}
	if u.Tags != nil {
		if err := setTaskTags(ctx, q, id, current.Tags); err != nil {
			return err
		}
	}

	_, err = q.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, assignee_id = ?,
			project_id = ?, week_of = ?, due_date = ?, estimated_hours = ?, actual_hours = ?,
			progress = ?, ticket_number = ?, updated_at = ?
		WHERE id = ?
	`, current.Title, current.Description, current.Status, current.Priority, current.AssigneeID,
		current.ProjectID, current.WeekOf, current.DueDate, current.EstimatedHours, current.ActualHours,
		current.Progress, current.TicketNumber, db.now(), id)
	return wrap("update task", err)
}

// CommitCopy inserts cp and appends history to the source task in one
// transaction.
func (db *DB) CommitCopy(ctx context.Context, cp *models.Task, sourceID string, history []models.CopyHistoryEntry) (*models.Task, error) {
	var id string
	err := db.withTx(ctx, "commit copy", func(tx *sql.Tx) error {
		var err error
		if id, err = db.insertTask(ctx, tx, cp); err != nil {
			return err
		}
		return db.updateTask(ctx, tx, sourceID, models.HistoryUpdate(history))
	})
	if err != nil {
		return nil, err
	}
	return db.Get(ctx, id)
}

// Delete deletes a task along with its comments, tags and history
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return wrap("delete task", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrap("delete task", err)
	}
	if n == 0 {
		return wkerrors.TaskNotFoundError{ID: id}
	}
	return nil
}
