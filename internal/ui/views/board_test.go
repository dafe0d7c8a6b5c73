//nolint:testpackage // Tests require internal access for thorough testing
package views

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/weekly/internal/engine"
	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/week"
)

var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type copyCall struct {
	sourceID, target, reason, copiedBy string
	settings                           models.CopySettings
}

// fakeEngine serves a fixed task list and records writes
type fakeEngine struct {
	tasks     []models.Task
	queries   []models.Filter
	moves     map[string]models.Status
	copies    []copyCall
	moveErr   error
	copyErr   error
	notifyErr error
	notified  int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		moves: map[string]models.Status{},
		tasks: []models.Task{
			{ID: "a", Title: "Wireframes", Status: models.StatusTodo, Priority: models.PriorityHigh, AssigneeID: "u1", WeekOf: "2024-01-08"},
			{ID: "b", Title: "Research", Status: models.StatusTodo, Priority: models.PriorityLow, AssigneeID: "u1", WeekOf: "2024-01-08"},
			{ID: "c", Title: "API", Status: models.StatusInProgress, Priority: models.PriorityMedium, AssigneeID: "u1", WeekOf: "2024-01-08"},
			{ID: "d", Title: "Other user", Status: models.StatusTodo, Priority: models.PriorityLow, AssigneeID: "u2", WeekOf: "2024-01-08"},
		},
	}
}

func (f *fakeEngine) Users(context.Context) ([]models.User, error) {
	return []models.User{{ID: "u1", Name: "Mike Johnson", Email: "mike.johnson@taskie.com"}, {ID: "u2", Name: "Emma Davis"}}, nil
}

func (f *fakeEngine) Board(_ context.Context, userID, weekKey string) (*engine.Board, error) {
	tasks := models.Filter{AssigneeID: userID, Weeks: []string{weekKey}}.Apply(f.tasks)
	r, err := week.RangeOf(weekKey)
	if err != nil {
		return nil, err
	}
	return &engine.Board{Week: weekKey, Range: r.String(), Columns: models.Columns(tasks), Stats: models.Summarize(tasks)}, nil
}

func (f *fakeEngine) Query(_ context.Context, flt models.Filter) ([]models.Task, error) {
	f.queries = append(f.queries, flt)
	return flt.Apply(f.tasks), nil
}

func (f *fakeEngine) find(id string) *models.Task {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			return &f.tasks[i]
		}
	}
	return nil
}

func (f *fakeEngine) GetTask(_ context.Context, id string) (*models.Task, error) {
	if t := f.find(id); t != nil {
		return t.Clone(), nil
	}
	return nil, wkerrors.TaskNotFoundError{ID: id}
}

func (f *fakeEngine) CreateTask(_ context.Context, t *models.Task) (*models.Task, error) {
	c := t.Clone()
	c.ID = "new"
	f.tasks = append(f.tasks, *c)
	return c, nil
}

func (f *fakeEngine) UpdateTask(_ context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	t := f.find(id)
	if t == nil {
		return nil, wkerrors.TaskNotFoundError{ID: id}
	}
	u.Apply(t)
	return t.Clone(), nil
}

func (f *fakeEngine) DeleteTask(_ context.Context, id string) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return wkerrors.TaskNotFoundError{ID: id}
}

func (f *fakeEngine) MoveStatus(_ context.Context, id string, s models.Status) (*models.Task, error) {
	if f.moveErr != nil {
		return nil, f.moveErr
	}
	t := f.find(id)
	if t == nil {
		return nil, wkerrors.TaskNotFoundError{ID: id}
	}
	t.Status = s
	f.moves[id] = s
	return t.Clone(), nil
}

func (f *fakeEngine) CopyTask(_ context.Context, sourceID, target string, settings models.CopySettings, reason, copiedBy string) (*models.Task, error) {
	f.copies = append(f.copies, copyCall{sourceID: sourceID, target: target, reason: reason, copiedBy: copiedBy, settings: settings})
	if f.copyErr != nil {
		return nil, f.copyErr
	}
	src := f.find(sourceID)
	return &models.Task{ID: "copy", Title: src.Title, WeekOf: target}, nil
}

func (f *fakeEngine) AddComment(_ context.Context, taskID, userID, content string) (*models.TaskComment, error) {
	t := f.find(taskID)
	if t == nil {
		return nil, wkerrors.TaskNotFoundError{ID: taskID}
	}
	c := models.TaskComment{ID: "c1", TaskID: taskID, UserID: userID, Content: content}
	t.Comments = append(t.Comments, c)
	return &c, nil
}

func (f *fakeEngine) NotifyWeek(context.Context, string, string) error {
	f.notified++
	return f.notifyErr
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestBoard(t *testing.T, eng *fakeEngine) *BoardView {
	t.Helper()
	v := NewBoardView(context.Background(), eng, models.User{ID: "u1", Name: "Mike Johnson", Email: "mike.johnson@taskie.com"}, BoardOptions{
		CopyDefaults: models.DefaultCopySettings(),
		WeekCount:    4,
		Now:          func() time.Time { return testNow },
	})
	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	v.Update(v.loadBoard())
	return v
}

// deliver runs cmd and hands its message back to the view
func deliver(t *testing.T, v *BoardView, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	v.Update(cmd())
	v.Update(v.loadBoard())
}

func TestBoardLoadsUserWeek(t *testing.T) {
	v := newTestBoard(t, newFakeEngine())

	if v.weekKey != "2024-01-08" {
		t.Fatalf("weekKey = %s", v.weekKey)
	}
	if got := len(v.board.Columns[0].Tasks); got != 2 {
		t.Errorf("todo column has %d tasks, want 2", got)
	}
	if sel := v.selected(); sel == nil || sel.ID != "a" {
		t.Errorf("selected = %+v, want a", sel)
	}

	out := v.View()
	for _, want := range []string{"To Do (2)", "In Progress (1)", "08/01/2024 - 12/01/2024", "3 tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBoardNavigation(t *testing.T) {
	v := newTestBoard(t, newFakeEngine())

	v.Update(keyPress("j"))
	if sel := v.selected(); sel.ID != "b" {
		t.Errorf("after down selected = %s, want b", sel.ID)
	}
	v.Update(keyPress("j"))
	if sel := v.selected(); sel.ID != "b" {
		t.Errorf("down past the end moved to %s", sel.ID)
	}
	v.Update(keyPress("l"))
	if sel := v.selected(); sel.ID != "c" {
		t.Errorf("after right selected = %s, want c", sel.ID)
	}
	v.Update(keyPress("l"))
	if v.selected() != nil {
		t.Error("completed column should be empty")
	}
}

func TestMoveCardFollowsIt(t *testing.T) {
	eng := newFakeEngine()
	v := newTestBoard(t, eng)

	_, cmd := v.Update(keyPress("L"))
	deliver(t, v, cmd)

	if eng.moves["a"] != models.StatusInProgress {
		t.Fatalf("moves = %v", eng.moves)
	}
	if v.col != 1 {
		t.Errorf("cursor column = %d, want 1", v.col)
	}
	if sel := v.selected(); sel == nil || sel.ID != "a" {
		t.Errorf("selected = %+v, want a", sel)
	}
	if v.bannerErr || !strings.Contains(v.banner, "In Progress") {
		t.Errorf("banner = %q", v.banner)
	}
}

func TestMoveByNumber(t *testing.T) {
	eng := newFakeEngine()
	v := newTestBoard(t, eng)

	_, cmd := v.Update(keyPress("4"))
	deliver(t, v, cmd)
	if eng.moves["a"] != models.StatusBlocked {
		t.Errorf("moves = %v", eng.moves)
	}

	// moving to the current status does nothing
	v.Update(keyPress("h"))
	v.Update(keyPress("h"))
	v.Update(keyPress("h"))
	if _, cmd := v.Update(keyPress("1")); cmd != nil {
		t.Error("move to same status should not issue a command")
	}
}

func TestMoveFailureLeavesBoard(t *testing.T) {
	eng := newFakeEngine()
	eng.moveErr = wkerrors.TransientError{Err: errors.New("locked")}
	v := newTestBoard(t, eng)

	_, cmd := v.Update(keyPress("L"))
	deliver(t, v, cmd)

	if !v.bannerErr {
		t.Error("expected error banner")
	}
	if got := len(v.board.Columns[0].Tasks); got != 2 {
		t.Errorf("todo column has %d tasks after failed move", got)
	}
}

func TestWeekNavigation(t *testing.T) {
	v := newTestBoard(t, newFakeEngine())

	v.Update(keyPress("]"))
	if v.weekKey != "2024-01-15" {
		t.Errorf("next week = %s", v.weekKey)
	}
	v.Update(keyPress("["))
	v.Update(keyPress("["))
	if v.weekKey != "2024-01-01" {
		t.Errorf("prev week = %s", v.weekKey)
	}
	v.Update(keyPress("t"))
	if v.weekKey != "2024-01-08" {
		t.Errorf("this week = %s", v.weekKey)
	}
}

func TestPriorityFilterQueries(t *testing.T) {
	eng := newFakeEngine()
	v := newTestBoard(t, eng)

	v.Update(keyPress("p"))
	if v.priority != models.PriorityLow {
		t.Fatalf("priority = %s", v.priority)
	}
	v.Update(v.loadBoard())

	last := eng.queries[len(eng.queries)-1]
	if last.Priority != models.PriorityLow || last.AssigneeID != "u1" || last.Weeks[0] != "2024-01-08" {
		t.Errorf("query = %+v", last)
	}
	if v.board.Stats.Total != 1 {
		t.Errorf("filtered total = %d, want 1", v.board.Stats.Total)
	}
}

func TestNextPriorityCycles(t *testing.T) {
	p := models.Priority("")
	var seen []models.Priority
	for i := 0; i < 5; i++ {
		p = nextPriority(p)
		seen = append(seen, p)
	}
	want := []models.Priority{"low", "medium", "high", "urgent", ""}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

func TestCopyModal(t *testing.T) {
	eng := newFakeEngine()
	v := newTestBoard(t, eng)

	v.Update(keyPress("c"))
	if v.mode != modeCopy {
		t.Fatalf("mode = %d, want copy", v.mode)
	}
	c := v.copying
	if c.settings != models.DefaultCopySettings() {
		t.Errorf("settings = %+v", c.settings)
	}
	for _, k := range c.weeks {
		if k == "2024-01-08" {
			t.Error("source week offered as a target")
		}
	}
	if got := c.weeks[c.weekCursor]; got != "2024-01-15" {
		t.Errorf("preselected week = %s, want 2024-01-15", got)
	}

	// toggle include comments off
	v.Update(keyPress("tab"))
	v.Update(keyPress(" "))
	if v.copying.settings.IncludeComments {
		t.Error("include comments should be toggled off")
	}

	_, cmd := v.Update(keyPress("ctrl+s"))
	deliver(t, v, cmd)

	if len(eng.copies) != 1 {
		t.Fatalf("copies = %d", len(eng.copies))
	}
	got := eng.copies[0]
	if got.sourceID != "a" || got.target != "2024-01-15" || got.copiedBy != "u1" || got.settings.IncludeComments {
		t.Errorf("copy call = %+v", got)
	}
	if v.mode != modeBoard || v.bannerErr {
		t.Errorf("mode = %d banner = %q", v.mode, v.banner)
	}
}

func TestPartialCopyBanner(t *testing.T) {
	eng := newFakeEngine()
	eng.copyErr = wkerrors.PartialCopyError{CopyID: "copy", SourceID: "a", Err: errors.New("boom")}
	v := newTestBoard(t, eng)

	v.Update(keyPress("c"))
	_, cmd := v.Update(keyPress("ctrl+s"))
	deliver(t, v, cmd)

	if !v.bannerErr || !strings.Contains(v.banner, "source history was not updated") {
		t.Errorf("banner = %q", v.banner)
	}
}

func TestNotifyBanner(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
		want    string
	}{
		{"sent", nil, false, "mike.johnson@taskie.com"},
		{"no notifier", engine.ErrNoNotifier, true, "No notifier configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newFakeEngine()
			eng.notifyErr = tt.err
			v := newTestBoard(t, eng)

			_, cmd := v.Update(keyPress("m"))
			deliver(t, v, cmd)

			if eng.notified != 1 {
				t.Errorf("notified = %d", eng.notified)
			}
			if v.bannerErr != tt.wantErr || !strings.Contains(v.banner, tt.want) {
				t.Errorf("banner = %q err = %v", v.banner, v.bannerErr)
			}
		})
	}
}

func TestDeleteConfirm(t *testing.T) {
	eng := newFakeEngine()
	v := newTestBoard(t, eng)

	v.Update(keyPress("d"))
	if v.mode != modeConfirmDelete {
		t.Fatalf("mode = %d", v.mode)
	}
	v.Update(keyPress("n"))
	if v.mode != modeBoard || len(eng.tasks) != 4 {
		t.Fatal("cancel should keep the task")
	}

	v.Update(keyPress("d"))
	_, cmd := v.Update(keyPress("y"))
	deliver(t, v, cmd)
	if eng.find("a") != nil {
		t.Error("task a should be deleted")
	}
	if got := len(v.board.Columns[0].Tasks); got != 1 {
		t.Errorf("todo column has %d tasks, want 1", got)
	}
}

func TestDetailComment(t *testing.T) {
	eng := newFakeEngine()
	v := newTestBoard(t, eng)

	_, cmd := v.Update(keyPress("enter"))
	v.Update(cmd())
	if v.mode != modeDetail || v.detail.ID != "a" {
		t.Fatalf("mode = %d detail = %+v", v.mode, v.detail)
	}

	v.Update(keyPress("a"))
	if !v.commentFocused {
		t.Fatal("comment input should be focused")
	}
	v.commentInput.SetValue("looks good")
	_, cmd = v.Update(keyPress("ctrl+s"))
	v.Update(cmd())
	v.Update(v.loadDetail("a")())

	if len(v.detail.Comments) != 1 || v.detail.Comments[0].UserID != "u1" {
		t.Errorf("comments = %+v", v.detail.Comments)
	}
	if !strings.Contains(v.View(), "looks good") {
		t.Error("detail view should show the comment")
	}
}

func TestFormCreatesInFocusedColumn(t *testing.T) {
	eng := newFakeEngine()
	v := newTestBoard(t, eng)

	v.Update(keyPress("l"))
	v.Update(keyPress("n"))
	if v.mode != modeForm {
		t.Fatalf("mode = %d", v.mode)
	}
	v.form.inputs[fieldTitle].SetValue("Write docs")
	v.form.inputs[fieldEstimate].SetValue("2.5")
	v.form.inputs[fieldTags].SetValue("Docs, docs ,api")

	_, cmd := v.Update(keyPress("ctrl+s"))
	deliver(t, v, cmd)

	created := eng.find("new")
	if created == nil {
		t.Fatal("task not created")
	}
	if created.Status != models.StatusInProgress || created.WeekOf != "2024-01-08" || created.AssigneeID != "u1" {
		t.Errorf("created = %+v", created)
	}
	if created.EstimatedHours != 2.5 || strings.Join(created.Tags, ",") != "api,docs" {
		t.Errorf("created hours/tags = %v %v", created.EstimatedHours, created.Tags)
	}
}

func TestFormRejectsBadNumbers(t *testing.T) {
	f := newFormState()
	f.startNew(models.StatusTodo)
	f.inputs[fieldTitle].SetValue("x")
	f.inputs[fieldActual].SetValue("lots")

	if _, err := f.task("u1", "2024-01-08"); err == nil || !strings.Contains(err.Error(), "actual hours") {
		t.Errorf("err = %v", err)
	}

	f.inputs[fieldActual].SetValue("")
	f.inputs[fieldPriority].SetValue("critical")
	if _, err := f.task("u1", "2024-01-08"); err == nil {
		t.Error("unknown priority should fail")
	}
}

func TestFormEditRoundTrip(t *testing.T) {
	src := &models.Task{ID: "a", Title: "API", Description: "wire it", Priority: models.PriorityHigh, DueDate: "2024-01-16", EstimatedHours: 12, ActualHours: 8, Progress: 60, Tags: []string{"backend"}}
	f := newFormState()
	f.startEdit(src)

	u, err := f.changes()
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	got := src.Clone()
	u.Apply(got)
	if got.Title != src.Title || got.Priority != src.Priority || got.EstimatedHours != 12 || got.ActualHours != 8 || got.Progress != 60 || got.Tags[0] != "backend" {
		t.Errorf("edit with no changes altered the task: %+v", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated", 5, "trun…"},
		{"äöüäöü", 3, "äö…"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestHelpPopupListsBindings(t *testing.T) {
	v := newTestBoard(t, newFakeEngine())

	v.Update(keyPress("?"))
	out := v.View()
	for _, want := range []string{"Keyboard Shortcuts", "copy to another week", "mail the weekly report", "back to users"} {
		if !strings.Contains(out, want) {
			t.Errorf("help popup missing %q", want)
		}
	}

	v.Update(keyPress("x"))
	if v.showHelpPopup {
		t.Error("any key should close the help popup")
	}
}
