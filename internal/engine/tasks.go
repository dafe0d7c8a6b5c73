package engine

import (
	"context"
	"strings"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/week"
)

// CreateTask validates t, fills defaults and stores it. Comments and copy
// history always start empty.
func (e *Engine) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	const op = "engine.CreateTask"
	log := e.log.WithField("operation", op)

	in := t.Clone()
	in.ID = ""
	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.WeekOf == "" {
		in.WeekOf = week.KeyFor(e.now())
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Tags = models.NormalizeTags(in.Tags)
	in.Comments = []models.TaskComment{}
	in.CopyHistory = []models.CopyHistoryEntry{}

	if err := models.ValidateTask(in); err != nil {
		return nil, err
	}
	if err := e.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	created, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Create(ctx, in)
	})
	if err != nil {
		logFailure(log, err, "failed to create task")
		return nil, err
	}
	log.WithField("task_id", created.ID).Info("task created")
	return created, nil
}

// checkRefs verifies the assignee and project exist
func (e *Engine) checkRefs(ctx context.Context, t *models.Task) error {
	if _, err := e.store.GetUser(ctx, t.AssigneeID); err != nil {
		return err
	}
	if t.ProjectID != "" {
		if _, err := e.store.GetProject(ctx, t.ProjectID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTask applies u after validating the merged task. An empty update
// returns the stored task unchanged.
func (e *Engine) UpdateTask(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	const op = "engine.UpdateTask"
	log := e.log.WithField("operation", op).WithField("task_id", id)

	current, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Get(ctx, id)
	})
	if err != nil {
		logFailure(log, err, "failed to load task")
		return nil, err
	}
	if u.IsEmpty() {
		return current, nil
	}

	merged := current.Clone()
	u.Apply(merged)
	if err := models.ValidateTask(merged); err != nil {
		return nil, err
	}
	if merged.AssigneeID != current.AssigneeID || merged.ProjectID != current.ProjectID {
		if err := e.checkRefs(ctx, merged); err != nil {
			return nil, err
		}
	}

	updated, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Update(ctx, id, u)
	})
	if err != nil {
		logFailure(log, err, "failed to update task")
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	const op = "engine.DeleteTask"
	log := e.log.WithField("operation", op).WithField("task_id", id)

	err := retryErr(ctx, log, func(ctx context.Context) error {
		return e.store.Delete(ctx, id)
	})
	if err != nil {
		logFailure(log, err, "failed to delete task")
		return err
	}
	log.Info("task deleted")
	return nil
}

// GetTask returns a task with its comments and history
func (e *Engine) GetTask(ctx context.Context, id string) (*models.Task, error) {
	const op = "engine.GetTask"
	log := e.log.WithField("operation", op).WithField("task_id", id)

	t, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Get(ctx, id)
	})
	if err != nil {
		logFailure(log, err, "failed to get task")
		return nil, err
	}
	return t, nil
}

// AddComment appends a comment by userID to a task
func (e *Engine) AddComment(ctx context.Context, taskID, userID, content string) (*models.TaskComment, error) {
	const op = "engine.AddComment"
	log := e.log.WithField("operation", op).WithField("task_id", taskID)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, wkerrors.InvalidArgumentError{Field: "comment", Reason: "content required"}
	}
	if userID == "" {
		return nil, wkerrors.InvalidArgumentError{Field: "author", Reason: "required"}
	}

	c, err := retry(ctx, log, func(ctx context.Context) (*models.TaskComment, error) {
		return e.store.AddComment(ctx, models.TaskComment{TaskID: taskID, UserID: userID, Content: content})
	})
	if err != nil {
		logFailure(log, err, "failed to add comment")
		return nil, err
	}
	return c, nil
}

// Users lists everyone tasks can be assigned to
func (e *Engine) Users(ctx context.Context) ([]models.User, error) {
	return retry(ctx, e.log, e.store.ListUsers)
}

// User returns one user
func (e *Engine) User(ctx context.Context, id string) (*models.User, error) {
	return retry(ctx, e.log, func(ctx context.Context) (*models.User, error) {
		return e.store.GetUser(ctx, id)
	})
}

// Projects lists all projects
func (e *Engine) Projects(ctx context.Context) ([]models.Project, error) {
	return retry(ctx, e.log, e.store.ListProjects)
}
