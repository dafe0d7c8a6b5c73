package views

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/weekly/internal/engine"
	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/ui/keys"
	"github.com/tgienger/weekly/internal/ui/styles"
	"github.com/tgienger/weekly/internal/week"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Engine is the task surface the board drives
type Engine interface {
	Directory
	Board(ctx context.Context, userID, weekKey string) (*engine.Board, error)
	Query(ctx context.Context, f models.Filter) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	MoveStatus(ctx context.Context, taskID string, status models.Status) (*models.Task, error)
	CopyTask(ctx context.Context, sourceID, targetWeek string, settings models.CopySettings, reason, copiedBy string) (*models.Task, error)
	AddComment(ctx context.Context, taskID, userID, content string) (*models.TaskComment, error)
	NotifyWeek(ctx context.Context, userID, weekKey string) error
}

// BoardOptions carries the configured board defaults
type BoardOptions struct {
	CopyDefaults models.CopySettings
	WeekCount    int
	Now          func() time.Time
}

type boardMode int

const (
	modeBoard boardMode = iota
	modeSearch
	modeDetail
	modeForm
	modeCopy
	modeConfirmDelete
)

// BackToUsers returns to the user picker
type BackToUsers struct{}

type boardLoadedMsg struct {
	board *engine.Board
	err   error
}

type detailLoadedMsg struct {
	task *models.Task
	err  error
}

type namesLoadedMsg struct {
	names map[string]string
}

// actionDoneMsg reports the outcome of a write. The board reloads either way
// so it never shows a change the store did not accept.
type actionDoneMsg struct {
	banner string
	err    error
	follow string // task id to keep selected after the reload
}

// BoardView is one user's week as Kanban columns
type BoardView struct {
	ctx    context.Context
	eng    Engine
	user   models.User
	opts   BoardOptions
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	weekKey string
	board   *engine.Board
	loaded  bool
	names   map[string]string

	// cursor
	col    int
	rows   [4]int
	follow string

	mode          boardMode
	showHelpPopup bool

	banner    string
	bannerErr bool

	// filters
	searchInput textinput.Model
	priority    models.Priority

	// detail
	detail         *models.Task
	commentInput   textarea.Model
	commentFocused bool

	// task form
	form formState

	// copy modal
	copying copyState

	deleteTarget *models.Task
}

func NewBoardView(ctx context.Context, eng Engine, user models.User, opts BoardOptions) *BoardView {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WeekCount <= 0 {
		opts.WeekCount = week.DefaultCount
	}

	search := textinput.New()
	search.Placeholder = "Search this week..."
	search.CharLimit = 100

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = 2000
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	return &BoardView{
		ctx:          ctx,
		eng:          eng,
		user:         user,
		opts:         opts,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		weekKey:      week.KeyFor(opts.Now()),
		names:        map[string]string{},
		searchInput:  search,
		commentInput: commentInput,
		form:         newFormState(),
		copying:      newCopyState(opts.CopyDefaults),
	}
}

func (v *BoardView) Init() tea.Cmd {
	return tea.Batch(v.loadBoard, v.loadNames)
}

func (v *BoardView) filtered() bool {
	return strings.TrimSpace(v.searchInput.Value()) != "" || v.priority != ""
}

func (v *BoardView) loadBoard() tea.Msg {
	if !v.filtered() {
		b, err := v.eng.Board(v.ctx, v.user.ID, v.weekKey)
		return boardLoadedMsg{board: b, err: err}
	}

	r, err := week.RangeOf(v.weekKey)
	if err != nil {
		return boardLoadedMsg{err: err}
	}
	tasks, err := v.eng.Query(v.ctx, models.Filter{
		AssigneeID: v.user.ID,
		Weeks:      []string{v.weekKey},
		Search:     v.searchInput.Value(),
		Priority:   v.priority,
	})
	if err != nil {
		return boardLoadedMsg{err: err}
	}
	return boardLoadedMsg{board: &engine.Board{
		Week:    v.weekKey,
		Range:   r.String(),
		Columns: models.Columns(tasks),
		Stats:   models.Summarize(tasks),
	}}
}

func (v *BoardView) loadNames() tea.Msg {
	users, err := v.eng.Users(v.ctx)
	if err != nil {
		return namesLoadedMsg{}
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return namesLoadedMsg{names: names}
}

func (v *BoardView) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := v.eng.GetTask(v.ctx, id)
		return detailLoadedMsg{task: t, err: err}
	}
}

// selected returns the highlighted card, or nil on an empty column
func (v *BoardView) selected() *models.Task {
	if v.board == nil || v.col >= len(v.board.Columns) {
		return nil
	}
	tasks := v.board.Columns[v.col].Tasks
	if len(tasks) == 0 {
		return nil
	}
	t := tasks[clamp(v.rows[v.col], 0, len(tasks)-1)]
	return &t
}

func (v *BoardView) setBanner(msg string, err error) {
	if err != nil {
		v.banner = describeError(err)
		v.bannerErr = true
		return
	}
	v.banner = msg
	v.bannerErr = false
}

// describeError turns engine errors into one banner line
func describeError(err error) string {
	var partial wkerrors.PartialCopyError
	switch {
	case errors.As(err, &partial):
		return fmt.Sprintf("Copy %s created but the source history was not updated", partial.CopyID)
	case errors.Is(err, engine.ErrNoNotifier):
		return "No notifier configured"
	default:
		return "Error: " + err.Error()
	}
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 60)
		v.commentInput.SetWidth(inputWidth)
		v.form.setWidth(inputWidth)
		return v, nil

	case boardLoadedMsg:
		v.loaded = true
		if msg.err != nil {
			v.setBanner("", msg.err)
			return v, nil
		}
		v.board = msg.board
		v.placeCursor()
		return v, nil

	case namesLoadedMsg:
		if msg.names != nil {
			v.names = msg.names
		}
		return v, nil

	case detailLoadedMsg:
		if msg.err != nil {
			v.mode = modeBoard
			v.detail = nil
			v.setBanner("", msg.err)
			return v, v.loadBoard
		}
		v.detail = msg.task
		return v, nil

	case actionDoneMsg:
		v.setBanner(msg.banner, msg.err)
		v.follow = msg.follow
		cmds := []tea.Cmd{v.loadBoard}
		if v.mode == modeDetail && v.detail != nil {
			cmds = append(cmds, v.loadDetail(v.detail.ID))
		}
		return v, tea.Batch(cmds...)

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		switch v.mode {
		case modeSearch:
			return v.updateSearch(msg)
		case modeDetail:
			return v.updateDetail(msg)
		case modeForm:
			return v.updateForm(msg)
		case modeCopy:
			return v.updateCopy(msg)
		case modeConfirmDelete:
			return v.updateConfirmDelete(msg)
		default:
			return v.updateBoard(msg)
		}
	}

	return v, nil
}

// placeCursor keeps the cursor inside the columns and on the followed task
func (v *BoardView) placeCursor() {
	if v.follow != "" {
		for c, col := range v.board.Columns {
			for r, t := range col.Tasks {
				if t.ID == v.follow {
					v.col, v.rows[c] = c, r
				}
			}
		}
		v.follow = ""
	}
	for c, col := range v.board.Columns {
		v.rows[c] = clamp(v.rows[c], 0, max(len(col.Tasks)-1, 0))
	}
}

func (v *BoardView) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToUsers{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Left):
		v.col = clamp(v.col-1, 0, len(models.Statuses)-1)
		return v, nil

	case key.Matches(msg, v.keys.Right):
		v.col = clamp(v.col+1, 0, len(models.Statuses)-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.rows[v.col] = max(v.rows[v.col]-1, 0)
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.board != nil {
			last := len(v.board.Columns[v.col].Tasks) - 1
			v.rows[v.col] = clamp(v.rows[v.col]+1, 0, max(last, 0))
		}
		return v, nil

	case key.Matches(msg, v.keys.MoveLeft):
		return v, v.moveBy(-1)

	case key.Matches(msg, v.keys.MoveRight):
		return v, v.moveBy(1)

	case msg.String() >= "1" && msg.String() <= "4" && len(msg.String()) == 1:
		idx := int(msg.String()[0] - '1')
		return v, v.moveTo(models.Statuses[idx])

	case key.Matches(msg, v.keys.PrevWeek):
		return v, v.shiftWeek(-1)

	case key.Matches(msg, v.keys.NextWeek):
		return v, v.shiftWeek(1)

	case key.Matches(msg, v.keys.Today):
		v.weekKey = week.KeyFor(v.opts.Now())
		return v, v.loadBoard

	case key.Matches(msg, v.keys.Search):
		v.mode = modeSearch
		return v, v.searchInput.Focus()

	case key.Matches(msg, v.keys.Filter):
		v.priority = nextPriority(v.priority)
		return v, v.loadBoard

	case key.Matches(msg, v.keys.Enter):
		if t := v.selected(); t != nil {
			v.mode = modeDetail
			v.detail = t
			v.commentFocused = false
			return v, v.loadDetail(t.ID)
		}

	case key.Matches(msg, v.keys.New):
		v.form.startNew(models.Statuses[v.col])
		v.mode = modeForm
		return v, v.form.focus()

	case key.Matches(msg, v.keys.Edit):
		if t := v.selected(); t != nil {
			v.form.startEdit(t)
			v.mode = modeForm
			return v, v.form.focus()
		}

	case key.Matches(msg, v.keys.Delete):
		if t := v.selected(); t != nil {
			v.deleteTarget = t
			v.mode = modeConfirmDelete
		}

	case key.Matches(msg, v.keys.Copy):
		if t := v.selected(); t != nil {
			return v, v.openCopy(t)
		}

	case key.Matches(msg, v.keys.Notify):
		return v, v.notify()
	}

	return v, nil
}

func nextPriority(p models.Priority) models.Priority {
	if p == "" {
		return models.Priorities[0]
	}
	i := slices.Index(models.Priorities, p)
	if i < 0 || i == len(models.Priorities)-1 {
		return ""
	}
	return models.Priorities[i+1]
}

func (v *BoardView) shiftWeek(n int) tea.Cmd {
	next, err := week.Shift(v.weekKey, n)
	if err != nil {
		v.setBanner("", err)
		return nil
	}
	v.weekKey = next
	v.banner = ""
	return v.loadBoard
}

func (v *BoardView) moveBy(delta int) tea.Cmd {
	t := v.selected()
	if t == nil {
		return nil
	}
	idx := slices.Index(models.Statuses, t.Status) + delta
	if idx < 0 || idx >= len(models.Statuses) {
		return nil
	}
	return v.moveTo(models.Statuses[idx])
}

func (v *BoardView) moveTo(status models.Status) tea.Cmd {
	t := v.selected()
	if t == nil || t.Status == status {
		return nil
	}
	id := t.ID
	return func() tea.Msg {
		moved, err := v.eng.MoveStatus(v.ctx, id, status)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{banner: fmt.Sprintf("Moved to %s", models.StatusTitle(moved.Status)), follow: id}
	}
}

func (v *BoardView) notify() tea.Cmd {
	userID, weekKey := v.user.ID, v.weekKey
	return func() tea.Msg {
		if err := v.eng.NotifyWeek(v.ctx, userID, weekKey); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{banner: "Weekly report sent to " + v.user.Email}
	}
}

func (v *BoardView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searchInput.Reset()
		v.searchInput.Blur()
		v.mode = modeBoard
		return v, v.loadBoard
	case key.Matches(msg, v.keys.Enter):
		v.searchInput.Blur()
		v.mode = modeBoard
		return v, v.loadBoard
	}
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	return v, tea.Batch(cmd, v.loadBoard)
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := v.deleteTarget
		v.deleteTarget = nil
		v.mode = modeBoard
		if target == nil {
			return v, nil
		}
		return v, func() tea.Msg {
			if err := v.eng.DeleteTask(v.ctx, target.ID); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{banner: fmt.Sprintf("Deleted %q", target.Title)}
		}
	case "n", "N", "esc":
		v.deleteTarget = nil
		v.mode = modeBoard
	}
	return v, nil
}

func (v *BoardView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.commentFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentFocused = false
			v.commentInput.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Save):
			return v, v.submitComment()
		}
		var cmd tea.Cmd
		v.commentInput, cmd = v.commentInput.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBoard
		v.detail = nil
		return v, v.loadBoard
	case key.Matches(msg, v.keys.Comment):
		v.commentFocused = true
		v.commentInput.Reset()
		return v, v.commentInput.Focus()
	case key.Matches(msg, v.keys.Edit):
		if v.detail != nil {
			v.form.startEdit(v.detail)
			v.mode = modeForm
			return v, v.form.focus()
		}
	case key.Matches(msg, v.keys.Copy):
		if v.detail != nil {
			return v, v.openCopy(v.detail)
		}
	}
	return v, nil
}

func (v *BoardView) submitComment() tea.Cmd {
	content := strings.TrimSpace(v.commentInput.Value())
	if content == "" || v.detail == nil {
		return nil
	}
	taskID := v.detail.ID
	v.commentInput.Reset()
	v.commentInput.Blur()
	v.commentFocused = false
	return func() tea.Msg {
		if _, err := v.eng.AddComment(v.ctx, taskID, v.user.ID, content); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{banner: "Comment added", follow: taskID}
	}
}

func (v *BoardView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.closeForm()
		return v, nil
	case key.Matches(msg, v.keys.Save):
		return v, v.submitForm()
	case msg.String() == "shift+tab":
		return v, v.form.move(-1)
	case key.Matches(msg, v.keys.Tab):
		return v, v.form.move(1)
	case key.Matches(msg, v.keys.Enter) && v.form.focusIdx == fieldSave:
		return v, v.submitForm()
	case key.Matches(msg, v.keys.Enter) && v.form.focusIdx != fieldDesc:
		return v, v.form.move(1)
	}
	return v, v.form.update(msg)
}

func (v *BoardView) closeForm() {
	if v.detail != nil {
		v.mode = modeDetail
		return
	}
	v.mode = modeBoard
}

func (v *BoardView) submitForm() tea.Cmd {
	if v.form.editingID == "" {
		t, err := v.form.task(v.user.ID, v.weekKey)
		if err != nil {
			v.form.err = err.Error()
			return nil
		}
		v.closeForm()
		return func() tea.Msg {
			created, err := v.eng.CreateTask(v.ctx, t)
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{banner: fmt.Sprintf("Created %q", created.Title), follow: created.ID}
		}
	}

	id := v.form.editingID
	u, err := v.form.changes()
	if err != nil {
		v.form.err = err.Error()
		return nil
	}
	v.closeForm()
	return func() tea.Msg {
		updated, err := v.eng.UpdateTask(v.ctx, id, u)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{banner: fmt.Sprintf("Saved %q", updated.Title), follow: id}
	}
}

func (v *BoardView) openCopy(t *models.Task) tea.Cmd {
	weeks, err := week.Available(week.KeyFor(v.opts.Now()), v.opts.WeekCount)
	if err != nil {
		v.setBanner("", err)
		return nil
	}
	weeks = slices.DeleteFunc(weeks, func(k string) bool { return k == t.WeekOf })
	v.copying.start(t, weeks, v.opts.CopyDefaults)
	v.mode = modeCopy
	return nil
}

func (v *BoardView) updateCopy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &v.copying
	switch {
	case key.Matches(msg, v.keys.Back):
		v.closeCopy()
		return v, nil
	case key.Matches(msg, v.keys.Save):
		return v, v.submitCopy()
	case msg.String() == "shift+tab":
		return v, c.move(-1)
	case key.Matches(msg, v.keys.Tab):
		return v, c.move(1)
	}

	switch c.focusIdx {
	case copyFocusWeeks:
		switch {
		case key.Matches(msg, v.keys.Up):
			c.weekCursor = max(c.weekCursor-1, 0)
		case key.Matches(msg, v.keys.Down):
			c.weekCursor = clamp(c.weekCursor+1, 0, max(len(c.weeks)-1, 0))
		case key.Matches(msg, v.keys.Enter):
			return v, c.move(1)
		}
		return v, nil
	case copyFocusReason:
		if key.Matches(msg, v.keys.Enter) {
			return v, c.move(1)
		}
		var cmd tea.Cmd
		c.reason, cmd = c.reason.Update(msg)
		return v, cmd
	case copyFocusConfirm:
		if key.Matches(msg, v.keys.Enter) {
			return v, v.submitCopy()
		}
		return v, nil
	default:
		if msg.String() == " " || key.Matches(msg, v.keys.Enter) {
			c.toggle()
		}
		return v, nil
	}
}

func (v *BoardView) closeCopy() {
	if v.detail != nil {
		v.mode = modeDetail
		return
	}
	v.mode = modeBoard
}

func (v *BoardView) submitCopy() tea.Cmd {
	c := &v.copying
	if c.source == nil || len(c.weeks) == 0 {
		return nil
	}
	sourceID := c.source.ID
	target := c.weeks[clamp(c.weekCursor, 0, len(c.weeks)-1)]
	settings := c.settings
	reason := strings.TrimSpace(c.reason.Value())
	v.closeCopy()
	return func() tea.Msg {
		cp, err := v.eng.CopyTask(v.ctx, sourceID, target, settings, reason, v.user.ID)
		if err != nil {
			return actionDoneMsg{err: err, follow: sourceID}
		}
		label := target
		if r, err := week.RangeOf(target); err == nil {
			label = r.String()
		}
		return actionDoneMsg{banner: fmt.Sprintf("Copied %q to %s", cp.Title, label), follow: sourceID}
	}
}
