package mongostore

import (
	"time"

	"github.com/tgienger/weekly/internal/models"
)

type taskDoc struct {
	ID             string       `bson:"_id"`
	Title          string       `bson:"title"`
	Description    string       `bson:"description"`
	Status         string       `bson:"status"`
	Priority       string       `bson:"priority"`
	AssigneeID     string       `bson:"assignee_id"`
	ProjectID      string       `bson:"project_id,omitempty"`
	WeekOf         string       `bson:"week_of"`
	DueDate        string       `bson:"due_date"`
	EstimatedHours float64      `bson:"estimated_hours"`
	ActualHours    float64      `bson:"actual_hours"`
	Progress       int          `bson:"progress"`
	TicketNumber   string       `bson:"ticket_number,omitempty"`
	Tags           []string     `bson:"tags"`
	Comments       []commentDoc `bson:"comments"`
	OriginalTaskID string       `bson:"original_task_id,omitempty"`
	CopiedFromWeek string       `bson:"copied_from_week,omitempty"`
	CopiedToWeek   string       `bson:"copied_to_week,omitempty"`
	CopyReason     string       `bson:"copy_reason,omitempty"`
	CopiedBy       string       `bson:"copied_by,omitempty"`
	CopyHistory    []historyDoc `bson:"copy_history"`
	CreatedAt      time.Time    `bson:"created_at"`
	UpdatedAt      time.Time    `bson:"updated_at"`
}

type commentDoc struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"user_id"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
}

type historyDoc struct {
	ID             string    `bson:"id"`
	OriginalTaskID string    `bson:"original_task_id"`
	CopiedFromWeek string    `bson:"copied_from_week"`
	CopiedToWeek   string    `bson:"copied_to_week"`
	CopyReason     string    `bson:"copy_reason"`
	CopiedBy       string    `bson:"copied_by"`
	CopiedAt       time.Time `bson:"copied_at"`
	Status         string    `bson:"status"`
}

type userDoc struct {
	ID         string `bson:"_id"`
	Email      string `bson:"email"`
	Name       string `bson:"name"`
	LongName   string `bson:"long_name"`
	Role       string `bson:"role"`
	Department string `bson:"department"`
}

type projectDoc struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	Category string `bson:"category"`
	Color    string `bson:"color"`
}

type settingDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func toTaskDoc(t *models.Task) taskDoc {
	d := taskDoc{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		AssigneeID:     t.AssigneeID,
		ProjectID:      t.ProjectID,
		WeekOf:         t.WeekOf,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		Progress:       t.Progress,
		TicketNumber:   t.TicketNumber,
		Tags:           models.NormalizeTags(t.Tags),
		Comments:       make([]commentDoc, 0, len(t.Comments)),
		OriginalTaskID: t.OriginalTaskID,
		CopiedFromWeek: t.CopiedFromWeek,
		CopiedToWeek:   t.CopiedToWeek,
		CopyReason:     t.CopyReason,
		CopiedBy:       t.CopiedBy,
		CopyHistory:    toHistoryDocs(t.CopyHistory),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	for _, c := range t.Comments {
		d.Comments = append(d.Comments, commentDoc{ID: c.ID, UserID: c.UserID, Content: c.Content, CreatedAt: c.CreatedAt})
	}
	return d
}

func toHistoryDocs(entries []models.CopyHistoryEntry) []historyDoc {
	out := make([]historyDoc, 0, len(entries))
	for _, h := range entries {
		out = append(out, historyDoc{
			ID:             h.ID,
			OriginalTaskID: h.OriginalTaskID,
			CopiedFromWeek: h.CopiedFromWeek,
			CopiedToWeek:   h.CopiedToWeek,
			CopyReason:     h.CopyReason,
			CopiedBy:       h.CopiedBy,
			CopiedAt:       h.CopiedAt,
			Status:         string(h.Status),
		})
	}
	return out
}

func (d taskDoc) toModel() models.Task {
	t := models.Task{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Status:         models.Status(d.Status),
		Priority:       models.Priority(d.Priority),
		AssigneeID:     d.AssigneeID,
		ProjectID:      d.ProjectID,
		WeekOf:         d.WeekOf,
		DueDate:        d.DueDate,
		EstimatedHours: d.EstimatedHours,
		ActualHours:    d.ActualHours,
		Progress:       d.Progress,
		TicketNumber:   d.TicketNumber,
		Tags:           append([]string{}, d.Tags...),
		Comments:       make([]models.TaskComment, 0, len(d.Comments)),
		OriginalTaskID: d.OriginalTaskID,
		CopiedFromWeek: d.CopiedFromWeek,
		CopiedToWeek:   d.CopiedToWeek,
		CopyReason:     d.CopyReason,
		CopiedBy:       d.CopiedBy,
		CopyHistory:    make([]models.CopyHistoryEntry, 0, len(d.CopyHistory)),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	for _, c := range d.Comments {
		t.Comments = append(t.Comments, models.TaskComment{
			ID: c.ID, TaskID: d.ID, UserID: c.UserID, Content: c.Content, CreatedAt: c.CreatedAt.UTC(),
		})
	}
	for _, h := range d.CopyHistory {
		t.CopyHistory = append(t.CopyHistory, models.CopyHistoryEntry{
			ID:             h.ID,
			OriginalTaskID: h.OriginalTaskID,
			CopiedFromWeek: h.CopiedFromWeek,
			CopiedToWeek:   h.CopiedToWeek,
			CopyReason:     h.CopyReason,
			CopiedBy:       h.CopiedBy,
			CopiedAt:       h.CopiedAt.UTC(),
			Status:         models.HistoryStatus(h.Status),
		})
	}
	return t
}

func (d userDoc) toModel() models.User {
	return models.User{ID: d.ID, Email: d.Email, Name: d.Name, LongName: d.LongName, Role: d.Role, Department: d.Department}
}

func (d projectDoc) toModel() models.Project {
	return models.Project{ID: d.ID, Name: d.Name, Category: d.Category, Color: d.Color}
}
