package output

import (
	"encoding/json"

	"github.com/tgienger/weekly/internal/engine"
	"github.com/tgienger/weekly/internal/models"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t *models.Task) string {
	return marshalJSON(t)
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []models.Task) string {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return marshalJSON(tasks)
}

// FormatBoard formats a board as JSON.
func (f *JSONFormatter) FormatBoard(b *engine.Board) string {
	return marshalJSON(b)
}

type statsJSON struct {
	Week string `json:"week"`
	models.WeekStats
	CompletionPercent int `json:"completionPercent"`
}

// FormatStats formats a week summary as JSON.
func (f *JSONFormatter) FormatStats(weekKey string, s models.WeekStats) string {
	return marshalJSON(statsJSON{Week: weekKey, WeekStats: s, CompletionPercent: s.CompletionPercent()})
}

// FormatWeeks formats the selectable weeks as JSON.
func (f *JSONFormatter) FormatWeeks(weeks []WeekLine) string {
	return marshalJSON(weeks)
}

// FormatHistory formats a task's copy history as JSON.
func (f *JSONFormatter) FormatHistory(t *models.Task) string {
	h := t.CopyHistory
	if h == nil {
		h = []models.CopyHistoryEntry{}
	}
	return marshalJSON(h)
}

type lineageJSON struct {
	Root   *models.Task  `json:"root"`
	Copies []models.Task `json:"copies"`
}

// FormatLineage formats a root task and its copies as JSON.
func (f *JSONFormatter) FormatLineage(root *models.Task, copies []models.Task) string {
	if copies == nil {
		copies = []models.Task{}
	}
	return marshalJSON(lineageJSON{Root: root, Copies: copies})
}

// FormatUsers formats the user directory as JSON.
func (f *JSONFormatter) FormatUsers(users []models.User) string {
	if users == nil {
		users = []models.User{}
	}
	return marshalJSON(users)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
