package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/weekly/internal/models"
)

// task form fields in focus order
const (
	fieldTitle = iota
	fieldDesc
	fieldPriority
	fieldDue
	fieldEstimate
	fieldActual
	fieldProgress
	fieldTicket
	fieldTags
	fieldSave
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:    "Title",
	fieldDesc:     "Description",
	fieldPriority: "Priority",
	fieldDue:      "Due date",
	fieldEstimate: "Estimated hours",
	fieldActual:   "Actual hours",
	fieldProgress: "Progress %",
	fieldTicket:   "Ticket",
	fieldTags:     "Tags",
}

// formState backs the new/edit task form. The inputs at fieldDesc and
// fieldSave are unused.
type formState struct {
	editingID string
	status    models.Status
	inputs    [fieldCount]textinput.Model
	desc      textarea.Model
	focusIdx  int
	err       string
}

func newFormState() formState {
	var f formState
	placeholders := map[int]string{
		fieldTitle:    "Task title",
		fieldPriority: "low, medium, high, urgent",
		fieldDue:      "YYYY-MM-DD",
		fieldEstimate: "0",
		fieldActual:   "0",
		fieldProgress: "0-100",
		fieldTicket:   "TICKET-123",
		fieldTags:     "comma separated",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		f.inputs[i] = in
	}

	f.desc = textarea.New()
	f.desc.Placeholder = "Description"
	f.desc.CharLimit = 1000
	f.desc.SetWidth(50)
	f.desc.SetHeight(3)
	f.desc.ShowLineNumbers = false
	return f
}

func (f *formState) setWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
	f.desc.SetWidth(w)
}

func (f *formState) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.desc.Reset()
	f.focusIdx = fieldTitle
	f.err = ""
}

// startNew opens an empty form for a card in status
func (f *formState) startNew(status models.Status) {
	f.reset()
	f.editingID = ""
	f.status = status
}

func (f *formState) startEdit(t *models.Task) {
	f.reset()
	f.editingID = t.ID
	f.status = t.Status
	f.inputs[fieldTitle].SetValue(t.Title)
	f.desc.SetValue(t.Description)
	f.inputs[fieldPriority].SetValue(string(t.Priority))
	f.inputs[fieldDue].SetValue(t.DueDate)
	f.inputs[fieldEstimate].SetValue(formatHours(t.EstimatedHours))
	f.inputs[fieldActual].SetValue(formatHours(t.ActualHours))
	f.inputs[fieldProgress].SetValue(strconv.Itoa(t.Progress))
	f.inputs[fieldTicket].SetValue(t.TicketNumber)
	f.inputs[fieldTags].SetValue(strings.Join(t.Tags, ", "))
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func (f *formState) focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.desc.Blur()
	switch f.focusIdx {
	case fieldDesc:
		return f.desc.Focus()
	case fieldSave:
		return nil
	default:
		return f.inputs[f.focusIdx].Focus()
	}
}

func (f *formState) move(delta int) tea.Cmd {
	f.focusIdx = (f.focusIdx + delta + fieldCount) % fieldCount
	return f.focus()
}

func (f *formState) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focusIdx {
	case fieldDesc:
		f.desc, cmd = f.desc.Update(msg)
	case fieldSave:
	default:
		f.inputs[f.focusIdx], cmd = f.inputs[f.focusIdx].Update(msg)
	}
	return cmd
}

func (f *formState) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

func parseHours(field int, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", strings.ToLower(fieldLabels[field]))
	}
	return h, nil
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return models.NormalizeTags(strings.Split(s, ","))
}

// parsed holds the typed form values
type parsed struct {
	priority models.Priority
	estimate float64
	actual   float64
	progress int
}

func (f *formState) parse() (parsed, error) {
	var p parsed
	var err error
	if raw := f.value(fieldPriority); raw != "" {
		if p.priority, err = models.ParsePriority(raw); err != nil {
			return p, err
		}
	}
	if p.estimate, err = parseHours(fieldEstimate, f.value(fieldEstimate)); err != nil {
		return p, err
	}
	if p.actual, err = parseHours(fieldActual, f.value(fieldActual)); err != nil {
		return p, err
	}
	if raw := f.value(fieldProgress); raw != "" {
		if p.progress, err = strconv.Atoi(raw); err != nil {
			return p, errors.New("progress must be a whole number")
		}
	}
	return p, nil
}

// task builds a new task for userID in weekKey from the form
func (f *formState) task(userID, weekKey string) (*models.Task, error) {
	p, err := f.parse()
	if err != nil {
		return nil, err
	}
	return &models.Task{
		Title:          f.value(fieldTitle),
		Description:    strings.TrimSpace(f.desc.Value()),
		Status:         f.status,
		Priority:       p.priority,
		AssigneeID:     userID,
		WeekOf:         weekKey,
		DueDate:        f.value(fieldDue),
		EstimatedHours: p.estimate,
		ActualHours:    p.actual,
		Progress:       p.progress,
		TicketNumber:   f.value(fieldTicket),
		Tags:           splitTags(f.value(fieldTags)),
	}, nil
}

// changes builds the update for the task being edited
func (f *formState) changes() (models.TaskUpdate, error) {
	p, err := f.parse()
	if err != nil {
		return models.TaskUpdate{}, err
	}
	title := f.value(fieldTitle)
	desc := strings.TrimSpace(f.desc.Value())
	due := f.value(fieldDue)
	ticket := f.value(fieldTicket)
	tags := splitTags(f.value(fieldTags))

	u := models.TaskUpdate{
		Title:          &title,
		Description:    &desc,
		DueDate:        &due,
		EstimatedHours: &p.estimate,
		ActualHours:    &p.actual,
		Progress:       &p.progress,
		TicketNumber:   &ticket,
		Tags:           &tags,
	}
	if p.priority != "" {
		u.Priority = &p.priority
	}
	return u, nil
}

// copy modal focus order
const (
	copyFocusWeeks = iota
	copyFocusComments
	copyFocusProgress
	copyFocusActual
	copyFocusReset
	copyFocusReason
	copyFocusConfirm
	copyFocusCount
)

type copyState struct {
	source     *models.Task
	weeks      []string
	weekCursor int
	settings   models.CopySettings
	reason     textinput.Model
	focusIdx   int
}

func newCopyState(defaults models.CopySettings) copyState {
	reason := textinput.New()
	reason.Placeholder = "Reason (optional)"
	reason.CharLimit = 200
	return copyState{settings: defaults, reason: reason}
}

// start opens the modal for t with the week after t preselected
func (c *copyState) start(t *models.Task, weeks []string, defaults models.CopySettings) {
	c.source = t
	c.weeks = weeks
	c.settings = defaults
	c.reason.Reset()
	c.reason.Blur()
	c.focusIdx = copyFocusWeeks
	c.weekCursor = 0
	for i, k := range weeks {
		if k > t.WeekOf {
			c.weekCursor = i
			break
		}
	}
}

func (c *copyState) move(delta int) tea.Cmd {
	c.focusIdx = (c.focusIdx + delta + copyFocusCount) % copyFocusCount
	if c.focusIdx == copyFocusReason {
		return c.reason.Focus()
	}
	c.reason.Blur()
	return nil
}

func (c *copyState) toggle() {
	switch c.focusIdx {
	case copyFocusComments:
		c.settings.IncludeComments = !c.settings.IncludeComments
	case copyFocusProgress:
		c.settings.IncludeProgress = !c.settings.IncludeProgress
	case copyFocusActual:
		c.settings.IncludeActualHours = !c.settings.IncludeActualHours
	case copyFocusReset:
		c.settings.ResetStatus = !c.settings.ResetStatus
	}
}
