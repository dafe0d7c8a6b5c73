package output

import (
	"fmt"
	"strings"

	"github.com/tgienger/weekly/internal/engine"
	"github.com/tgienger/weekly/internal/models"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t *models.Task) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", t.ID, t.Title))
	sb.WriteString(fmt.Sprintf("  Status:   %s\n", t.Status))
	sb.WriteString(fmt.Sprintf("  Priority: %s\n", t.Priority))
	sb.WriteString(fmt.Sprintf("  Week:     %s\n", t.WeekOf))
	sb.WriteString(fmt.Sprintf("  Assignee: %s\n", t.AssigneeID))
	if t.ProjectID != "" {
		sb.WriteString(fmt.Sprintf("  Project:  %s\n", t.ProjectID))
	}
	if t.DueDate != "" {
		sb.WriteString(fmt.Sprintf("  Due:      %s\n", t.DueDate))
	}
	sb.WriteString(fmt.Sprintf("  Hours:    %g / %g\n", t.ActualHours, t.EstimatedHours))
	sb.WriteString(fmt.Sprintf("  Progress: %d%%\n", t.Progress))
	if t.TicketNumber != "" {
		sb.WriteString(fmt.Sprintf("  Ticket:   %s\n", t.TicketNumber))
	}
	if len(t.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("  Tags:     %s\n", strings.Join(t.Tags, ", ")))
	}
	if t.OriginalTaskID != "" {
		sb.WriteString(fmt.Sprintf("  Copied:   %s -> %s from %s\n", t.CopiedFromWeek, t.CopiedToWeek, t.OriginalTaskID))
	}
	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}
	if len(t.Comments) > 0 {
		sb.WriteString("\nComments:\n")
		for _, c := range t.Comments {
			sb.WriteString(fmt.Sprintf("  %s %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.UserID, c.Content))
		}
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for i := range tasks {
		sb.WriteString(f.formatTaskLine(&tasks[i]))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t *models.Task) string {
	due := ""
	if t.DueDate != "" {
		due = " (due " + t.DueDate + ")"
	}
	return fmt.Sprintf("%s %s %s [%s] %s%s\n", f.statusIcon(t.Status), f.priorityMark(t.Priority), t.WeekOf, t.ID, t.Title, due)
}

func (f *HumanFormatter) statusIcon(s models.Status) string {
	switch s {
	case models.StatusTodo:
		return "[ ]"
	case models.StatusInProgress:
		return "[*]"
	case models.StatusCompleted:
		return "[X]"
	case models.StatusBlocked:
		return "[!]"
	default:
		return "[?]"
	}
}

func (f *HumanFormatter) priorityMark(p models.Priority) string {
	switch p {
	case models.PriorityUrgent:
		return "P0"
	case models.PriorityHigh:
		return "P1"
	case models.PriorityMedium:
		return "P2"
	case models.PriorityLow:
		return "P3"
	default:
		return "P?"
	}
}

// FormatBoard lists each status column with its count.
func (f *HumanFormatter) FormatBoard(b *engine.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Week %s (%s)\n", b.Week, b.Range)
	for _, col := range b.Columns {
		fmt.Fprintf(&sb, "\n%s (%d)\n", col.Title, len(col.Tasks))
		for i := range col.Tasks {
			t := &col.Tasks[i]
			fmt.Fprintf(&sb, "  %s [%s] %s\n", f.priorityMark(t.Priority), t.ID, t.Title)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(f.FormatStats(b.Week, b.Stats))
	return sb.String()
}

// FormatStats formats a week summary.
func (f *HumanFormatter) FormatStats(weekKey string, s models.WeekStats) string {
	return fmt.Sprintf("%s: %d tasks, %d completed, %d in progress, %d pending, %d blocked (%d%% done), %g/%g hours\n",
		weekKey, s.Total, s.Completed, s.InProgress, s.Pending, s.Blocked, s.CompletionPercent(), s.ActualHours, s.EstimatedHours)
}

// FormatWeeks formats the selectable weeks, marking the current one.
func (f *HumanFormatter) FormatWeeks(weeks []WeekLine) string {
	var sb strings.Builder
	for _, w := range weeks {
		marker := "  "
		if w.Current {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%s  %s\n", marker, w.Key, w.Range)
	}
	return sb.String()
}

// FormatHistory formats a task's copy history, oldest first.
func (f *HumanFormatter) FormatHistory(t *models.Task) string {
	if len(t.CopyHistory) == 0 {
		return fmt.Sprintf("[%s] has never been copied.\n", t.ID)
	}
	var sb strings.Builder
	for _, h := range t.CopyHistory {
		fmt.Fprintf(&sb, "%s  %s -> %s  by %s", h.CopiedAt.Format("2006-01-02 15:04"), h.CopiedFromWeek, h.CopiedToWeek, h.CopiedBy)
		if h.CopyReason != "" {
			fmt.Fprintf(&sb, "  (%s)", h.CopyReason)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatLineage formats a root task and its copies as a tree. A nil root
// means the original was deleted.
func (f *HumanFormatter) FormatLineage(root *models.Task, copies []models.Task) string {
	var sb strings.Builder
	if root != nil {
		fmt.Fprintf(&sb, "%s %s [%s] %s\n", f.statusIcon(root.Status), root.WeekOf, root.ID, root.Title)
	} else {
		sb.WriteString("(original deleted)\n")
	}
	for i := range copies {
		connector := "├── "
		if i == len(copies)-1 {
			connector = "└── "
		}
		c := &copies[i]
		fmt.Fprintf(&sb, "%s%s %s [%s] %s\n", connector, f.statusIcon(c.Status), c.WeekOf, c.ID, c.Title)
	}
	return sb.String()
}

// FormatUsers formats the user directory.
func (f *HumanFormatter) FormatUsers(users []models.User) string {
	if len(users) == 0 {
		return "No users found.\n"
	}
	var sb strings.Builder
	for _, u := range users {
		fmt.Fprintf(&sb, "[%s] %s <%s>", u.ID, u.DisplayName(), u.Email)
		if u.Role != "" {
			fmt.Fprintf(&sb, " %s", u.Role)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
