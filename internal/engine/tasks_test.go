//nolint:testpackage // Tests require internal access for thorough testing
package engine

import (
	"context"
	"errors"
	"testing"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTaskDefaults(t *testing.T) {
	s := newMemStore()
	e := newTestEngine(s)

	got, err := e.CreateTask(context.Background(), &models.Task{
		ID:          "ignored",
		Title:       "  Write report  ",
		AssigneeID:  "u1",
		Tags:        []string{"Report", "report", " "},
		Comments:    []models.TaskComment{{ID: "x"}},
		CopyHistory: []models.CopyHistoryEntry{{ID: "x"}},
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if got.ID == "ignored" || got.ID == "" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Title != "Write report" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Status != models.StatusTodo || got.Priority != models.PriorityMedium {
		t.Errorf("status/priority = %s/%s", got.Status, got.Priority)
	}
	if got.WeekOf != "2024-01-08" {
		t.Errorf("WeekOf = %q, want current week 2024-01-08", got.WeekOf)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "report" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if len(got.Comments) != 0 || len(got.CopyHistory) != 0 {
		t.Error("comments and history must start empty")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want func(error) bool
	}{
		{
			name: "missing title",
			task: models.Task{AssigneeID: "u1"},
			want: wkerrors.IsValidation,
		},
		{
			name: "bad status",
			task: models.Task{Title: "x", AssigneeID: "u1", Status: "done"},
			want: func(err error) bool { var e wkerrors.InvalidStatusError; return errors.As(err, &e) },
		},
		{
			name: "bad priority",
			task: models.Task{Title: "x", AssigneeID: "u1", Priority: "critical"},
			want: func(err error) bool { var e wkerrors.InvalidPriorityError; return errors.As(err, &e) },
		},
		{
			name: "missing assignee",
			task: models.Task{Title: "x"},
			want: wkerrors.IsValidation,
		},
		{
			name: "bad due date",
			task: models.Task{Title: "x", AssigneeID: "u1", DueDate: "tomorrow"},
			want: wkerrors.IsValidation,
		},
		{
			name: "progress out of range",
			task: models.Task{Title: "x", AssigneeID: "u1", Progress: 120},
			want: wkerrors.IsValidation,
		},
		{
			name: "unknown assignee",
			task: models.Task{Title: "x", AssigneeID: "ghost"},
			want: wkerrors.IsNotFound,
		},
		{
			name: "unknown project",
			task: models.Task{Title: "x", AssigneeID: "u1", ProjectID: "p9"},
			want: wkerrors.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore()
			e := newTestEngine(s)
			_, err := e.CreateTask(context.Background(), &tt.task)
			if !tt.want(err) {
				t.Errorf("CreateTask() error = %v", err)
			}
			if s.count("Create") != 0 {
				t.Error("invalid task reached the store")
			}
		})
	}
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedTask(s)
	e := newTestEngine(s)

	got, err := e.UpdateTask(ctx, "t1", models.TaskUpdate{})
	if err != nil || got.Title != "Budget planning" {
		t.Fatalf("empty update = %+v, %v", got, err)
	}
	if s.count("Update") != 0 {
		t.Error("empty update should not write")
	}

	got, err = e.UpdateTask(ctx, "t1", models.TaskUpdate{Title: ptr("Budget Q1"), Progress: ptr(80)})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if got.Title != "Budget Q1" || got.Progress != 80 || got.Status != models.StatusInProgress {
		t.Errorf("updated = %+v", got)
	}

	if _, err := e.UpdateTask(ctx, "t1", models.TaskUpdate{Progress: ptr(-1)}); !wkerrors.IsValidation(err) {
		t.Errorf("negative progress error = %v", err)
	}
	if _, err := e.UpdateTask(ctx, "t1", models.TaskUpdate{AssigneeID: ptr("ghost")}); !wkerrors.IsNotFound(err) {
		t.Errorf("unknown assignee error = %v", err)
	}
	if _, err := e.UpdateTask(ctx, "nope", models.TaskUpdate{Title: ptr("x")}); !wkerrors.IsNotFound(err) {
		t.Errorf("missing task error = %v", err)
	}
	if s.count("Update") != 1 {
		t.Errorf("Update calls = %d, want 1", s.count("Update"))
	}
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedTask(s)
	e := newTestEngine(s)

	if err := e.DeleteTask(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := e.GetTask(ctx, "t1"); !wkerrors.IsNotFound(err) {
		t.Errorf("GetTask() after delete = %v", err)
	}
	if err := e.DeleteTask(ctx, "t1"); !wkerrors.IsNotFound(err) {
		t.Errorf("second DeleteTask() = %v", err)
	}
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedTask(s)
	e := newTestEngine(s)

	c, err := e.AddComment(ctx, "t1", "u1", "  looks good ")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if c.Content != "looks good" || c.TaskID != "t1" || c.ID == "" {
		t.Errorf("comment = %+v", c)
	}

	for _, content := range []string{"", "   "} {
		if _, err := e.AddComment(ctx, "t1", "u1", content); !wkerrors.IsValidation(err) {
			t.Errorf("AddComment(%q) error = %v", content, err)
		}
	}
	if _, err := e.AddComment(ctx, "t1", "", "hi"); !wkerrors.IsValidation(err) {
		t.Errorf("AddComment without author error = %v", err)
	}
	if s.count("AddComment") != 1 {
		t.Errorf("AddComment calls = %d, want 1", s.count("AddComment"))
	}
}

func seedWeek(s *memStore) {
	for _, task := range []models.Task{
		{ID: "a", Title: "API integration", AssigneeID: "u1", WeekOf: "2024-01-08", Status: models.StatusInProgress, Priority: models.PriorityHigh, DueDate: "2024-01-16", EstimatedHours: 12, ActualHours: 8},
		{ID: "b", Title: "Database optimization", AssigneeID: "u1", WeekOf: "2024-01-08", Status: models.StatusTodo, Priority: models.PriorityHigh, EstimatedHours: 6},
		{ID: "c", Title: "Unit tests", AssigneeID: "u1", WeekOf: "2024-01-08", Status: models.StatusCompleted, Priority: models.PriorityHigh, DueDate: "2024-01-14", EstimatedHours: 4, ActualHours: 5},
		{ID: "d", Title: "Other week", AssigneeID: "u1", WeekOf: "2024-01-15", Status: models.StatusTodo, Priority: models.PriorityLow, TicketNumber: "OPS-7"},
		{ID: "e", Title: "Someone else", AssigneeID: "u2", WeekOf: "2024-01-08", Status: models.StatusBlocked, Priority: models.PriorityHigh},
	} {
		s.put(&task)
	}
}

func TestTasksByWeek(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedWeek(s)
	e := newTestEngine(s)

	got, err := e.TasksByWeek(ctx, "u1", "2024-01-08")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}

	all, err := e.TasksByWeek(ctx, "", "2024-01-08")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("all assignees len = %d, want 4", len(all))
	}

	if _, err := e.TasksByWeek(ctx, "u1", "08-01-2024"); !wkerrors.IsValidation(err) {
		t.Errorf("bad week error = %v", err)
	}
}

func TestTasksByWeeks(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedWeek(s)
	e := newTestEngine(s)

	got, err := e.TasksByWeeks(ctx, "u1", []string{"2024-01-08", "2024-01-15"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[0].WeekOf != "2024-01-15" {
		t.Errorf("got %d tasks, first week %q", len(got), got[0].WeekOf)
	}

	none, err := e.TasksByWeeks(ctx, "u1", nil)
	if err != nil || len(none) != 0 || s.count("Query") != 1 {
		t.Errorf("empty weeks = %v, %v (queries %d)", none, err, s.count("Query"))
	}
}

func TestSearchAndPriority(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedWeek(s)
	e := newTestEngine(s)

	got, err := e.Search(ctx, "u1", "ops-7")
	if err != nil || len(got) != 1 || got[0].ID != "d" {
		t.Errorf("Search(ticket) = %v, %v", got, err)
	}
	got, err = e.Search(ctx, "u1", "DATABASE")
	if err != nil || len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Search(title) = %v, %v", got, err)
	}
	if _, err := e.Search(ctx, "u1", "  "); !wkerrors.IsValidation(err) {
		t.Errorf("blank search error = %v", err)
	}

	high, err := e.TasksByPriority(ctx, "u1", models.PriorityHigh)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(high))
	for i, task := range high {
		ids[i] = task.ID
	}
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
		t.Errorf("TasksByPriority order = %v, want [c a b]", ids)
	}
	if _, err := e.TasksByPriority(ctx, "u1", "critical"); err == nil {
		t.Error("unknown priority accepted")
	}
}

func TestBoardAndStats(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedWeek(s)
	e := newTestEngine(s)

	b, err := e.Board(ctx, "u1", "2024-01-08")
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if b.Range != "08/01/2024 - 12/01/2024" {
		t.Errorf("Range = %q", b.Range)
	}
	if len(b.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(b.Columns))
	}
	counts := map[models.Status]int{}
	for _, c := range b.Columns {
		counts[c.Status] = len(c.Tasks)
	}
	if counts[models.StatusTodo] != 1 || counts[models.StatusInProgress] != 1 ||
		counts[models.StatusCompleted] != 1 || counts[models.StatusBlocked] != 0 {
		t.Errorf("column counts = %v", counts)
	}

	want := models.WeekStats{Total: 3, Completed: 1, InProgress: 1, Pending: 1, EstimatedHours: 22, ActualHours: 13}
	if b.Stats != want {
		t.Errorf("Stats = %+v, want %+v", b.Stats, want)
	}
	stats, err := e.StatsByWeek(ctx, "u1", "2024-01-08")
	if err != nil || stats != want {
		t.Errorf("StatsByWeek() = %+v, %v", stats, err)
	}

	if _, err := e.Board(ctx, "u1", "soon"); !wkerrors.IsValidation(err) {
		t.Errorf("bad week error = %v", err)
	}
}

func TestLineageRequiresID(t *testing.T) {
	e := newTestEngine(newMemStore())
	if _, err := e.Lineage(context.Background(), ""); !wkerrors.IsValidation(err) {
		t.Errorf("error = %v", err)
	}
}

func TestNotifyWeek(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedWeek(s)

	if err := newTestEngine(s).NotifyWeek(ctx, "u1", "2024-01-08"); !errors.Is(err, ErrNoNotifier) {
		t.Errorf("without notifier error = %v", err)
	}

	n := &recordingNotifier{}
	e := newTestEngine(s, WithNotifier(n))
	if err := e.NotifyWeek(ctx, "u1", "2024-01-08"); err != nil {
		t.Fatalf("NotifyWeek() error = %v", err)
	}
	if n.user.Email != "anna@example.com" || n.week != "2024-01-08" || len(n.tasks) != 3 {
		t.Errorf("notified %+v, week %q, %d tasks", n.user, n.week, len(n.tasks))
	}

	if err := e.NotifyWeek(ctx, "ghost", "2024-01-08"); !wkerrors.IsNotFound(err) {
		t.Errorf("unknown user error = %v", err)
	}

	n.err = errors.New("smtp down")
	if err := e.NotifyWeek(ctx, "u1", "2024-01-08"); err == nil {
		t.Error("notifier error swallowed")
	}
}
