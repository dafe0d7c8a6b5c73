package engine

import (
	"context"
	"strings"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/week"
)

// Board is one user's week laid out in status columns
type Board struct {
	Week    string           `json:"week"`
	Range   string           `json:"range"`
	Columns []models.Column  `json:"columns"`
	Stats   models.WeekStats `json:"stats"`
}

func (e *Engine) query(ctx context.Context, op string, f models.Filter) ([]models.Task, error) {
	log := e.log.WithField("operation", op)
	tasks, err := retry(ctx, log, func(ctx context.Context) ([]models.Task, error) {
		return e.store.Query(ctx, f)
	})
	if err != nil {
		logFailure(log, err, "failed to query tasks")
		return nil, err
	}
	return tasks, nil
}

// Query runs an arbitrary filter
func (e *Engine) Query(ctx context.Context, f models.Filter) ([]models.Task, error) {
	return e.query(ctx, "engine.Query", f)
}

// TasksByWeek returns the tasks assigned to userID in weekKey. An empty
// userID matches every assignee.
func (e *Engine) TasksByWeek(ctx context.Context, userID, weekKey string) ([]models.Task, error) {
	if err := models.ValidateDate("week", weekKey, true); err != nil {
		return nil, err
	}
	return e.query(ctx, "engine.TasksByWeek", models.Filter{AssigneeID: userID, Weeks: []string{weekKey}})
}

// TasksByWeeks returns the tasks assigned to userID in any of weekKeys
func (e *Engine) TasksByWeeks(ctx context.Context, userID string, weekKeys []string) ([]models.Task, error) {
	if len(weekKeys) == 0 {
		return []models.Task{}, nil
	}
	for _, k := range weekKeys {
		if err := models.ValidateDate("week", k, true); err != nil {
			return nil, err
		}
	}
	return e.query(ctx, "engine.TasksByWeeks", models.Filter{AssigneeID: userID, Weeks: weekKeys})
}

// Search finds userID's tasks whose title, description or ticket number
// contains term
func (e *Engine) Search(ctx context.Context, userID, term string) ([]models.Task, error) {
	if strings.TrimSpace(term) == "" {
		return nil, wkerrors.InvalidArgumentError{Field: "search", Reason: "term required"}
	}
	return e.query(ctx, "engine.Search", models.Filter{AssigneeID: userID, Search: term})
}

// TasksByPriority returns userID's tasks of one priority, earliest due first
func (e *Engine) TasksByPriority(ctx context.Context, userID string, p models.Priority) ([]models.Task, error) {
	if !models.IsValidPriority(p) {
		return nil, wkerrors.InvalidPriorityError{Value: string(p)}
	}
	return e.query(ctx, "engine.TasksByPriority", models.Filter{AssigneeID: userID, Priority: p, Sort: models.SortDueDate})
}

// StatsByWeek summarizes userID's week
func (e *Engine) StatsByWeek(ctx context.Context, userID, weekKey string) (models.WeekStats, error) {
	tasks, err := e.TasksByWeek(ctx, userID, weekKey)
	if err != nil {
		return models.WeekStats{}, err
	}
	return models.Summarize(tasks), nil
}

// Board returns userID's week as Kanban columns
func (e *Engine) Board(ctx context.Context, userID, weekKey string) (*Board, error) {
	r, err := week.RangeOf(weekKey)
	if err != nil {
		return nil, err
	}
	tasks, err := e.TasksByWeek(ctx, userID, weekKey)
	if err != nil {
		return nil, err
	}
	return &Board{
		Week:    weekKey,
		Range:   r.String(),
		Columns: models.Columns(tasks),
		Stats:   models.Summarize(tasks),
	}, nil
}

// Lineage returns every copy descending from rootID
func (e *Engine) Lineage(ctx context.Context, rootID string) ([]models.Task, error) {
	if rootID == "" {
		return nil, wkerrors.InvalidArgumentError{Field: "task", Reason: "id required"}
	}
	return e.query(ctx, "engine.Lineage", models.Filter{OriginalTaskID: rootID})
}

// NotifyWeek sends userID's weekly report for weekKey
func (e *Engine) NotifyWeek(ctx context.Context, userID, weekKey string) error {
	const op = "engine.NotifyWeek"
	log := e.log.WithField("operation", op).WithField("user_id", userID)

	if e.notifier == nil {
		return ErrNoNotifier
	}
	user, err := e.User(ctx, userID)
	if err != nil {
		logFailure(log, err, "failed to load user")
		return err
	}
	tasks, err := e.TasksByWeek(ctx, userID, weekKey)
	if err != nil {
		return err
	}
	if err := e.notifier.Notify(ctx, *user, tasks, weekKey); err != nil {
		logFailure(log, err, "failed to send weekly report")
		return err
	}
	return nil
}
