// Package output renders CLI results as human-readable text or JSON.
package output

import (
	"github.com/tgienger/weekly/internal/engine"
	"github.com/tgienger/weekly/internal/models"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t *models.Task) string
	FormatTaskList(tasks []models.Task) string
	FormatBoard(b *engine.Board) string
	FormatStats(weekKey string, s models.WeekStats) string
	FormatWeeks(weeks []WeekLine) string
	FormatHistory(t *models.Task) string
	FormatLineage(root *models.Task, copies []models.Task) string
	FormatUsers(users []models.User) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// WeekLine is one row of the week picker.
type WeekLine struct {
	Key     string `json:"week"`
	Range   string `json:"range"`
	Current bool   `json:"current"`
}

// New returns the JSON formatter when asJSON is set, the human one otherwise.
func New(asJSON bool) Formatter {
	if asJSON {
		return NewJSONFormatter()
	}
	return NewHumanFormatter()
}
