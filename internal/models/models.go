package models

import (
	"slices"
	"time"
)

// Status is the lifecycle state of a task. Any status may move to any other.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

// Statuses lists every status in board column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted, StatusBlocked}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from least to most important.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// HistoryStatus is the state recorded on a copy history entry.
type HistoryStatus string

const (
	HistoryActive    HistoryStatus = "active"
	HistoryCompleted HistoryStatus = "completed"
	HistoryArchived  HistoryStatus = "archived"
)

// User is a person tasks are assigned to
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	LongName   string `json:"longName"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// DisplayName prefers the long name when one is set
func (u User) DisplayName() string {
	if u.LongName != "" {
		return u.LongName
	}
	return u.Name
}

// Project groups tasks for reporting
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// TaskComment is a comment owned by a task
type TaskComment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CopyHistoryEntry records one copy operation. Entries are never edited once
// appended to a task.
type CopyHistoryEntry struct {
	ID             string        `json:"id"`
	OriginalTaskID string        `json:"originalTaskId"`
	CopiedFromWeek string        `json:"copiedFromWeek"`
	CopiedToWeek   string        `json:"copiedToWeek"`
	CopyReason     string        `json:"copyReason"`
	CopiedBy       string        `json:"copiedBy"`
	CopiedAt       time.Time     `json:"copiedAt"`
	Status         HistoryStatus `json:"status"`
}

// CopySettings controls which fields carry over when a task is copied to
// another week. IncludeProgress is accepted for compatibility but has no
// effect: progress follows ResetStatus.
type CopySettings struct {
	IncludeComments    bool `json:"includeComments" yaml:"include_comments" mapstructure:"include_comments"`
	IncludeProgress    bool `json:"includeProgress" yaml:"include_progress" mapstructure:"include_progress"`
	IncludeActualHours bool `json:"includeActualHours" yaml:"include_actual_hours" mapstructure:"include_actual_hours"`
	ResetStatus        bool `json:"resetStatus" yaml:"reset_status" mapstructure:"reset_status"`
}

// DefaultCopySettings matches what the board's copy dialog starts with.
func DefaultCopySettings() CopySettings {
	return CopySettings{
		IncludeComments:    true,
		IncludeProgress:    false,
		IncludeActualHours: false,
		ResetStatus:        true,
	}
}

// Task is a unit of work bucketed into a week
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	AssigneeID     string   `json:"assigneeId"`
	ProjectID      string   `json:"projectId,omitempty"`
	WeekOf         string   `json:"weekOf"`  // Monday key, YYYY-MM-DD
	DueDate        string   `json:"dueDate"` // may fall outside WeekOf
	EstimatedHours float64  `json:"estimatedHours"`
	ActualHours    float64  `json:"actualHours"`
	Progress       int      `json:"progress"`
	TicketNumber   string   `json:"ticketNumber,omitempty"`
	Tags           []string `json:"tags"`

	Comments []TaskComment `json:"comments"`

	OriginalTaskID string             `json:"originalTaskId,omitempty"`
	CopiedFromWeek string             `json:"copiedFromWeek,omitempty"`
	CopiedToWeek   string             `json:"copiedToWeek,omitempty"`
	CopyReason     string             `json:"copyReason,omitempty"`
	CopiedBy       string             `json:"copiedBy,omitempty"`
	CopyHistory    []CopyHistoryEntry `json:"copyHistory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LineageRoot returns the ID of the root ancestor of t, which is t itself
// when it is not a copy.
func (t *Task) LineageRoot() string {
	if t.OriginalTaskID != "" {
		return t.OriginalTaskID
	}
	return t.ID
}

// Clone returns a deep copy of t
func (t *Task) Clone() *Task {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	c.Comments = slices.Clone(t.Comments)
	c.CopyHistory = slices.Clone(t.CopyHistory)
	return &c
}
