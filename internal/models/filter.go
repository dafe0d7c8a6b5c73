package models

import (
	"slices"
	"sort"
	"strings"
)

// SortOrder selects how query results are ordered.
type SortOrder int

const (
	// SortNewest orders by week (latest first), then creation time (latest first)
	SortNewest SortOrder = iota
	// SortDueDate orders by due date (earliest first); undated tasks sort last
	SortDueDate
)

// Filter selects tasks. Zero-valued fields match everything.
type Filter struct {
	AssigneeID     string
	Weeks          []string
	Statuses       []Status
	Priority       Priority
	ProjectID      string
	OriginalTaskID string
	Search         string // case-insensitive substring of title, description or ticket number
	Sort           SortOrder
}

// Matches reports whether t passes every set field of f.
func (f Filter) Matches(t *Task) bool {
	if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
		return false
	}
	if len(f.Weeks) > 0 && !slices.Contains(f.Weeks, t.WeekOf) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.OriginalTaskID != "" && t.OriginalTaskID != f.OriginalTaskID {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(t.TicketNumber), term) {
			return false
		}
	}
	return true
}

// Apply returns the tasks matching f, ordered by f.Sort.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		if f.Matches(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	SortTasks(out, f.Sort)
	return out
}

// SortTasks orders tasks in place.
func SortTasks(tasks []Task, order SortOrder) {
	switch order {
	case SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			di, dj := tasks[i].DueDate, tasks[j].DueDate
			if di == "" || dj == "" {
				return di != "" && dj == ""
			}
			return di < dj
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			if tasks[i].WeekOf != tasks[j].WeekOf {
				return tasks[i].WeekOf > tasks[j].WeekOf
			}
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}
