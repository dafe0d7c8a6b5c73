//nolint:testpackage // Tests require internal access for thorough testing
package models

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	wkerrors "github.com/tgienger/weekly/internal/errors"
)

func validTask() *Task {
	return &Task{
		ID:         "t1",
		Title:      "Budget planning",
		Status:     StatusTodo,
		Priority:   PriorityHigh,
		AssigneeID: "u1",
		WeekOf:     "2024-01-08",
		DueDate:    "2024-01-20",
		Progress:   10,
	}
}

func TestIsValidStatus(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusTodo, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{StatusBlocked, true},
		{Status("done"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := IsValidStatus(tt.status); got != tt.valid {
				t.Errorf("IsValidStatus(%q) = %v, want %v", tt.status, got, tt.valid)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" Urgent ")
	if err != nil || p != PriorityUrgent {
		t.Errorf("ParsePriority = %q, %v; want urgent", p, err)
	}
	if _, err := ParsePriority("p0"); !wkerrors.IsValidation(err) {
		t.Errorf("ParsePriority(p0) error = %v, want validation error", err)
	}
}

func TestPriorityOrder(t *testing.T) {
	if PriorityOrder(PriorityUrgent) >= PriorityOrder(PriorityHigh) {
		t.Error("Urgent should have lower order than High")
	}
	if PriorityOrder(PriorityHigh) >= PriorityOrder(PriorityMedium) {
		t.Error("High should have lower order than Medium")
	}
	if PriorityOrder(PriorityMedium) >= PriorityOrder(PriorityLow) {
		t.Error("Medium should have lower order than Low")
	}
}

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Task)
		ok     bool
	}{
		{"valid", func(*Task) {}, true},
		{"due date outside week is allowed", func(t *Task) { t.DueDate = "2030-01-01" }, true},
		{"empty due date", func(t *Task) { t.DueDate = "" }, true},
		{"missing title", func(t *Task) { t.Title = "  " }, false},
		{"bad status", func(t *Task) { t.Status = "done" }, false},
		{"bad priority", func(t *Task) { t.Priority = "p1" }, false},
		{"no assignee", func(t *Task) { t.AssigneeID = "" }, false},
		{"no week", func(t *Task) { t.WeekOf = "" }, false},
		{"malformed week", func(t *Task) { t.WeekOf = "08-01-2024" }, false},
		{"malformed due date", func(t *Task) { t.DueDate = "tomorrow" }, false},
		{"negative estimate", func(t *Task) { t.EstimatedHours = -1 }, false},
		{"negative actual", func(t *Task) { t.ActualHours = -0.5 }, false},
		{"progress over 100", func(t *Task) { t.Progress = 101 }, false},
		{"negative progress", func(t *Task) { t.Progress = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.modify(task)
			err := ValidateTask(task)
			if tt.ok && err != nil {
				t.Errorf("ValidateTask() = %v, want nil", err)
			}
			if !tt.ok && !wkerrors.IsValidation(err) {
				t.Errorf("ValidateTask() = %v, want validation error", err)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Review", " planning", "review", "", "budget"})
	want := []string{"budget", "planning", "review"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeTagsTruncatesByRune(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short", in: "diseño", want: "diseño"},
		{name: "ascii over limit", in: strings.Repeat("x", 40), want: strings.Repeat("x", 32)},
		{name: "multi-byte over limit", in: "a" + strings.Repeat("ñ", 40), want: "a" + strings.Repeat("ñ", 31)},
		{name: "exactly at limit", in: strings.Repeat("ó", 32), want: strings.Repeat("ó", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags([]string{tt.in})
			if len(got) != 1 {
				t.Fatalf("NormalizeTags(%q) = %v", tt.in, got)
			}
			if !utf8.ValidString(got[0]) {
				t.Errorf("NormalizeTags(%q) = %q is not valid UTF-8", tt.in, got[0])
			}
			if got[0] != tt.want {
				t.Errorf("NormalizeTags(%q) = %q, want %q", tt.in, got[0], tt.want)
			}
		})
	}
}

func TestValidateHistoryAppend(t *testing.T) {
	a := CopyHistoryEntry{ID: "h1"}
	b := CopyHistoryEntry{ID: "h2"}
	c := CopyHistoryEntry{ID: "h3"}

	if err := ValidateHistoryAppend("t1", nil, []CopyHistoryEntry{a}); err != nil {
		t.Errorf("append to empty: %v", err)
	}
	if err := ValidateHistoryAppend("t1", []CopyHistoryEntry{a}, []CopyHistoryEntry{a, b}); err != nil {
		t.Errorf("append: %v", err)
	}
	if err := ValidateHistoryAppend("t1", []CopyHistoryEntry{a, b}, []CopyHistoryEntry{a, b}); err != nil {
		t.Errorf("same history: %v", err)
	}

	var he wkerrors.HistoryRewriteError
	if err := ValidateHistoryAppend("t1", []CopyHistoryEntry{a, b}, []CopyHistoryEntry{a}); err == nil {
		t.Error("shrinking history should fail")
	} else if !asHistoryRewrite(err, &he) || he.TaskID != "t1" {
		t.Errorf("error = %v, want HistoryRewriteError for t1", err)
	}
	if err := ValidateHistoryAppend("t1", []CopyHistoryEntry{a, b}, []CopyHistoryEntry{a, c, b}); err == nil {
		t.Error("editing history should fail")
	}
}

func asHistoryRewrite(err error, target *wkerrors.HistoryRewriteError) bool {
	he, ok := err.(wkerrors.HistoryRewriteError)
	if ok {
		*target = he
	}
	return ok
}

func TestTaskUpdateApply(t *testing.T) {
	task := validTask()
	title := "Renamed"
	hours := 3.5
	tags := []string{"B", "a", "b"}
	u := TaskUpdate{Title: &title, ActualHours: &hours, Tags: &tags}

	if u.IsEmpty() {
		t.Fatal("update should not be empty")
	}
	u.Apply(task)

	if task.Title != "Renamed" {
		t.Errorf("Title = %q", task.Title)
	}
	if task.ActualHours != 3.5 {
		t.Errorf("ActualHours = %v", task.ActualHours)
	}
	if len(task.Tags) != 2 || task.Tags[0] != "a" || task.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", task.Tags)
	}
	// Untouched fields survive
	if task.Status != StatusTodo || task.Progress != 10 {
		t.Errorf("unrelated fields changed: %+v", task)
	}
}

func TestStatusUpdateOnlyTouchesStatus(t *testing.T) {
	task := validTask()
	before := *task
	StatusUpdate(StatusBlocked).Apply(task)

	if task.Status != StatusBlocked {
		t.Errorf("Status = %q, want blocked", task.Status)
	}
	task.Status = before.Status
	if task.Progress != before.Progress || task.ActualHours != before.ActualHours || len(task.CopyHistory) != len(before.CopyHistory) {
		t.Error("StatusUpdate changed more than status")
	}
}

func TestTaskUpdateIsEmpty(t *testing.T) {
	if !(TaskUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	if HistoryUpdate(nil).IsEmpty() {
		t.Error("history update should not be empty")
	}
}

func TestCloneIsDeep(t *testing.T) {
	task := validTask()
	task.Tags = []string{"a"}
	task.CopyHistory = []CopyHistoryEntry{{ID: "h1"}}

	c := task.Clone()
	c.Tags[0] = "changed"
	c.CopyHistory = append(c.CopyHistory, CopyHistoryEntry{ID: "h2"})

	if task.Tags[0] != "a" {
		t.Error("Clone shares tags")
	}
	if len(task.CopyHistory) != 1 {
		t.Error("Clone shares history")
	}
}

func TestFilterMatches(t *testing.T) {
	task := validTask()
	task.Description = "Plan Q1 allocation"
	task.TicketNumber = "SD-1042"

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"assignee", Filter{AssigneeID: "u1"}, true},
		{"other assignee", Filter{AssigneeID: "u2"}, false},
		{"week in list", Filter{Weeks: []string{"2024-01-01", "2024-01-08"}}, true},
		{"week not in list", Filter{Weeks: []string{"2024-01-15"}}, false},
		{"status", Filter{Statuses: []Status{StatusTodo}}, true},
		{"other status", Filter{Statuses: []Status{StatusCompleted, StatusBlocked}}, false},
		{"priority", Filter{Priority: PriorityHigh}, true},
		{"other priority", Filter{Priority: PriorityLow}, false},
		{"search title case-insensitive", Filter{Search: "BUDGET"}, true},
		{"search description", Filter{Search: "q1 alloc"}, true},
		{"search ticket", Filter{Search: "sd-10"}, true},
		{"search miss", Filter{Search: "wireframe"}, false},
		{"lineage", Filter{OriginalTaskID: "root"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(task); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterApplySortsNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "a", WeekOf: "2024-01-08", CreatedAt: base},
		{ID: "b", WeekOf: "2024-01-15", CreatedAt: base},
		{ID: "c", WeekOf: "2024-01-08", CreatedAt: base.Add(time.Hour)},
	}

	got := Filter{}.Apply(tasks)
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestSortDueDateKeepsUndatedLast(t *testing.T) {
	tasks := []Task{
		{ID: "none"},
		{ID: "late", DueDate: "2024-02-01"},
		{ID: "early", DueDate: "2024-01-10"},
	}
	SortTasks(tasks, SortDueDate)
	want := []string{"early", "late", "none"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d] = %s, want %s", i, tasks[i].ID, id)
		}
	}
}

func TestSummarize(t *testing.T) {
	tasks := []Task{
		{Status: StatusCompleted, EstimatedHours: 6, ActualHours: 5},
		{Status: StatusInProgress, EstimatedHours: 4, ActualHours: 2},
		{Status: StatusTodo, EstimatedHours: 2},
		{Status: StatusBlocked, EstimatedHours: 1},
	}
	s := Summarize(tasks)

	if s.Total != 4 || s.Completed != 1 || s.InProgress != 1 || s.Pending != 1 || s.Blocked != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.EstimatedHours != 13 || s.ActualHours != 7 {
		t.Errorf("hours = %v / %v", s.EstimatedHours, s.ActualHours)
	}
	if s.CompletionPercent() != 25 {
		t.Errorf("CompletionPercent = %d, want 25", s.CompletionPercent())
	}
	if (WeekStats{}).CompletionPercent() != 0 {
		t.Error("empty stats should be 0%")
	}
}

func TestColumns(t *testing.T) {
	tasks := []Task{
		{ID: "1", Status: StatusBlocked},
		{ID: "2", Status: StatusTodo},
		{ID: "3", Status: StatusTodo},
	}
	cols := Columns(tasks)
	if len(cols) != 4 {
		t.Fatalf("len(cols) = %d, want 4", len(cols))
	}
	if cols[0].Status != StatusTodo || len(cols[0].Tasks) != 2 {
		t.Errorf("todo column = %+v", cols[0])
	}
	if cols[3].Status != StatusBlocked || len(cols[3].Tasks) != 1 {
		t.Errorf("blocked column = %+v", cols[3])
	}
	if cols[1].Tasks == nil {
		t.Error("empty columns should hold an empty slice")
	}
}
