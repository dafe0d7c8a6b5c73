package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/week"
)

const dayLayout = "02/01/2006"

// Message is a rendered weekly report ready to send
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type reportSection struct {
	Title  string
	Class  string
	Tasks  []models.Task
	Detail func(models.Task) string
}

type reportData struct {
	Name     string
	Start    string
	End      string
	Stats    models.WeekStats
	Sections []reportSection
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Weekly Task Report</title>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.header { background: #3B82F6; color: white; padding: 20px; text-align: center; }
.content { padding: 20px; }
.summary { background: #f8f9fa; padding: 15px; border-radius: 8px; margin: 20px 0; }
.task-item { border: 1px solid #e9ecef; padding: 15px; margin: 10px 0; border-radius: 6px; }
.status-completed { border-left: 4px solid #10B981; }
.status-in-progress { border-left: 4px solid #F59E0B; }
.status-todo { border-left: 4px solid #EF4444; }
</style>
</head>
<body>
<div class="header">
<h1>Weekly Task Report</h1>
<p>{{.Name}} - {{.Start}} to {{.End}}</p>
</div>
<div class="content">
<div class="summary">
<h2>Week summary</h2>
<ul>
<li><strong>Total tasks:</strong> {{.Stats.Total}}</li>
<li><strong>Completed:</strong> {{.Stats.Completed}}</li>
<li><strong>In progress:</strong> {{.Stats.InProgress}}</li>
<li><strong>Pending:</strong> {{.Stats.Pending}}</li>
<li><strong>Estimated hours:</strong> {{.Stats.EstimatedHours}}h</li>
<li><strong>Hours worked:</strong> {{.Stats.ActualHours}}h</li>
</ul>
</div>
{{range .Sections}}{{if .Tasks}}{{$s := .}}
<div class="task-section">
<h3>{{.Title}}</h3>
{{range .Tasks}}<div class="task-item {{$s.Class}}">
<h4>{{.Title}}</h4>
<p>{{.Description}}</p>
<p><strong>Priority:</strong> {{.Priority}}</p>
<p>{{call $s.Detail .}}</p>
</div>
{{end}}</div>
{{end}}{{end}}
</div>
</body>
</html>
`))

// Subject is the report subject line for a user's week.
func Subject(user models.User, r week.Range) string {
	return fmt.Sprintf("Weekly tasks - %s - %s to %s", user.DisplayName(), r.Start.Format(dayLayout), r.End.Format(dayLayout))
}

// BuildReport renders the weekly report for user. Blocked tasks are counted
// in the summary but get no section.
func BuildReport(user models.User, tasks []models.Task, weekKey string) (Message, error) {
	if user.Email == "" {
		return Message{}, wkerrors.InvalidArgumentError{Field: "email", Reason: "user " + user.ID + " has no email address"}
	}
	r, err := week.RangeOf(weekKey)
	if err != nil {
		return Message{}, err
	}

	data := reportData{
		Name:  user.DisplayName(),
		Start: r.Start.Format(dayLayout),
		End:   r.End.Format(dayLayout),
		Stats: models.Summarize(tasks),
		Sections: []reportSection{
			{
				Title: "Completed",
				Class: "status-completed",
				Tasks: byStatus(tasks, models.StatusCompleted),
				Detail: func(t models.Task) string {
					return fmt.Sprintf("Hours: %gh / %gh estimated", t.ActualHours, t.EstimatedHours)
				},
			},
			{
				Title: "In progress",
				Class: "status-in-progress",
				Tasks: byStatus(tasks, models.StatusInProgress),
				Detail: func(t models.Task) string {
					return fmt.Sprintf("Due: %s. Hours: %gh / %gh estimated", dueLabel(t), t.ActualHours, t.EstimatedHours)
				},
			},
			{
				Title: "Pending",
				Class: "status-todo",
				Tasks: byStatus(tasks, models.StatusTodo),
				Detail: func(t models.Task) string {
					return fmt.Sprintf("Due: %s. Estimated hours: %gh", dueLabel(t), t.EstimatedHours)
				},
			},
		},
	}

	var html bytes.Buffer
	if err := reportTemplate.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render report: %w", err)
	}

	return Message{
		To:      user.Email,
		Subject: Subject(user, r),
		HTML:    html.String(),
		Text:    plainText(data),
	}, nil
}

func byStatus(tasks []models.Task, s models.Status) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status == s {
			out = append(out, t)
		}
	}
	return out
}

func dueLabel(t models.Task) string {
	d, err := week.Parse(t.DueDate)
	if err != nil {
		return "none"
	}
	return d.Format(dayLayout)
}

func plainText(d reportData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s to %s\n\n", d.Name, d.Start, d.End)
	fmt.Fprintf(&b, "Total: %d  Completed: %d  In progress: %d  Pending: %d\n", d.Stats.Total, d.Stats.Completed, d.Stats.InProgress, d.Stats.Pending)
	fmt.Fprintf(&b, "Hours: %gh worked / %gh estimated\n", d.Stats.ActualHours, d.Stats.EstimatedHours)
	for _, s := range d.Sections {
		if len(s.Tasks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", s.Title)
		for _, t := range s.Tasks {
			fmt.Fprintf(&b, "  - [%s] %s\n", t.Priority, t.Title)
		}
	}
	return b.String()
}
