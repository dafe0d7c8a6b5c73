package engine

import (
	"context"
	"slices"
	"time"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/store"
)

// MoveStatus sets the status of a task. Any status may move to any other and
// no other field is touched.
func (e *Engine) MoveStatus(ctx context.Context, taskID string, status models.Status) (*models.Task, error) {
	const op = "engine.MoveStatus"
	log := e.log.WithField("operation", op).WithField("task_id", taskID)

	if !models.IsValidStatus(status) {
		return nil, wkerrors.InvalidStatusError{Value: string(status)}
	}

	t, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Update(ctx, taskID, models.StatusUpdate(status))
	})
	if err != nil {
		logFailure(log, err, "failed to move task")
		return nil, err
	}
	log.WithField("status", status).Debug("task moved")
	return t, nil
}

// BuildCopy derives the copy of source for targetWeek. It does not touch any
// store.
//
// The copy keeps every field of source except:
//   - weekOf becomes targetWeek
//   - status and progress reset to todo and 0 when settings.ResetStatus is set
//   - actualHours resets to 0 unless settings.IncludeActualHours is set
//   - comments are dropped unless settings.IncludeComments is set
//   - lineage fields record the copy, and originalTaskId points at the root
//   - copyHistory is the source history plus one new active entry
//
// settings.IncludeProgress has no effect.
func BuildCopy(source *models.Task, targetWeek string, settings models.CopySettings, reason, copiedBy string, now time.Time, newID func() string) *models.Task {
	root := source.LineageRoot()

	c := source.Clone()
	c.ID = ""
	c.WeekOf = targetWeek
	if settings.ResetStatus {
		c.Status = models.StatusTodo
		c.Progress = 0
	}
	if !settings.IncludeActualHours {
		c.ActualHours = 0
	}
	if !settings.IncludeComments {
		c.Comments = []models.TaskComment{}
	}

	c.OriginalTaskID = root
	c.CopiedFromWeek = source.WeekOf
	c.CopiedToWeek = targetWeek
	c.CopyReason = reason
	c.CopiedBy = copiedBy
	c.CopyHistory = append(slices.Clone(source.CopyHistory), models.CopyHistoryEntry{
		ID:             newID(),
		OriginalTaskID: root,
		CopiedFromWeek: source.WeekOf,
		CopiedToWeek:   targetWeek,
		CopyReason:     reason,
		CopiedBy:       copiedBy,
		CopiedAt:       now,
		Status:         models.HistoryActive,
	})
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

// CopyTask copies a task into targetWeek and appends the new history entry to
// the source as well. Stores implementing store.CopyCommitter do both writes
// atomically. Otherwise a failed source update returns the created copy
// together with a PartialCopyError.
func (e *Engine) CopyTask(ctx context.Context, sourceID, targetWeek string, settings models.CopySettings, reason, copiedBy string) (*models.Task, error) {
	const op = "engine.CopyTask"
	log := e.log.WithField("operation", op).WithField("source_id", sourceID)

	if err := models.ValidateDate("target week", targetWeek, true); err != nil {
		return nil, err
	}

	source, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Get(ctx, sourceID)
	})
	if err != nil {
		logFailure(log, err, "failed to load source task")
		return nil, err
	}

	cp := BuildCopy(source, targetWeek, settings, reason, copiedBy, e.now().UTC(), e.newID)

	if committer, ok := e.store.(store.CopyCommitter); ok {
		created, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
			return committer.CommitCopy(ctx, cp, source.ID, cp.CopyHistory)
		})
		if err != nil {
			logFailure(log, err, "failed to commit copy")
			return nil, err
		}
		log.WithField("copy_id", created.ID).WithField("week", targetWeek).Info("task copied")
		return created, nil
	}

	created, err := retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Create(ctx, cp)
	})
	if err != nil {
		logFailure(log, err, "failed to create copy")
		return nil, err
	}

	_, err = retry(ctx, log, func(ctx context.Context) (*models.Task, error) {
		return e.store.Update(ctx, source.ID, models.HistoryUpdate(cp.CopyHistory))
	})
	if err != nil {
		log.WithError(err).WithField("copy_id", created.ID).Warn("copy created but source history not updated")
		return created, wkerrors.PartialCopyError{CopyID: created.ID, SourceID: source.ID, Err: err}
	}

	log.WithField("copy_id", created.ID).WithField("week", targetWeek).Info("task copied")
	return created, nil
}
