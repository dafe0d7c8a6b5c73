package models

// TaskUpdate is a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title          *string             `json:"title,omitempty"`
	Description    *string             `json:"description,omitempty"`
	Status         *Status             `json:"status,omitempty"`
	Priority       *Priority           `json:"priority,omitempty"`
	AssigneeID     *string             `json:"assigneeId,omitempty"`
	ProjectID      *string             `json:"projectId,omitempty"`
	WeekOf         *string             `json:"weekOf,omitempty"`
	DueDate        *string             `json:"dueDate,omitempty"`
	EstimatedHours *float64            `json:"estimatedHours,omitempty"`
	ActualHours    *float64            `json:"actualHours,omitempty"`
	Progress       *int                `json:"progress,omitempty"`
	TicketNumber   *string             `json:"ticketNumber,omitempty"`
	Tags           *[]string           `json:"tags,omitempty"`
	CopyHistory    *[]CopyHistoryEntry `json:"-"` // only the copy engine sets this
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.AssigneeID == nil && u.ProjectID == nil &&
		u.WeekOf == nil && u.DueDate == nil && u.EstimatedHours == nil &&
		u.ActualHours == nil && u.Progress == nil && u.TicketNumber == nil &&
		u.Tags == nil && u.CopyHistory == nil
}

// Apply merges the set fields of u into t.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssigneeID != nil {
		t.AssigneeID = *u.AssigneeID
	}
	if u.ProjectID != nil {
		t.ProjectID = *u.ProjectID
	}
	if u.WeekOf != nil {
		t.WeekOf = *u.WeekOf
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.EstimatedHours != nil {
		t.EstimatedHours = *u.EstimatedHours
	}
	if u.ActualHours != nil {
		t.ActualHours = *u.ActualHours
	}
	if u.Progress != nil {
		t.Progress = *u.Progress
	}
	if u.TicketNumber != nil {
		t.TicketNumber = *u.TicketNumber
	}
	if u.Tags != nil {
		t.Tags = NormalizeTags(*u.Tags)
	}
	if u.CopyHistory != nil {
		t.CopyHistory = append([]CopyHistoryEntry(nil), (*u.CopyHistory)...)
	}
}

// StatusUpdate is the update produced by moving a card between columns.
func StatusUpdate(s Status) TaskUpdate {
	return TaskUpdate{Status: &s}
}

// HistoryUpdate replaces the copy history with entries, which must extend
// the stored history.
func HistoryUpdate(entries []CopyHistoryEntry) TaskUpdate {
	return TaskUpdate{CopyHistory: &entries}
}
