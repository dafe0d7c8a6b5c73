package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/store"
	"github.com/tgienger/weekly/internal/ui/views"
)

// lastUserKey is the preference holding the board reopened on start
const lastUserKey = "last_user_id"

// Currently active view
type View int

const (
	ViewUsers View = iota
	ViewBoard
)

type App struct {
	ctx         context.Context
	eng         views.Engine
	prefs       store.Preferences
	opts        views.BoardOptions
	log         *logrus.Entry
	currentView View
	userList    *views.UserListView
	board       *views.BoardView
	width       int
	height      int
}

// NewApp creates the board application
func NewApp(ctx context.Context, eng views.Engine, prefs store.Preferences, opts views.BoardOptions, log *logrus.Entry) *App {
	return &App{
		ctx:         ctx,
		eng:         eng,
		prefs:       prefs,
		opts:        opts,
		log:         log,
		currentView: ViewUsers,
		userList:    views.NewUserListView(ctx, eng),
	}
}

type restoredMsg struct {
	user *views.SelectedUser
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.userList.Init(), a.restoreLastUser)
}

// restoreLastUser reopens the board that was open when the app last quit
func (a *App) restoreLastUser() tea.Msg {
	id, err := a.prefs.GetSetting(a.ctx, lastUserKey)
	if err != nil || id == "" {
		return restoredMsg{}
	}
	users, err := a.eng.Users(a.ctx)
	if err != nil {
		return restoredMsg{}
	}
	for _, u := range users {
		if u.ID == id {
			return restoredMsg{user: &views.SelectedUser{User: u}}
		}
	}
	return restoredMsg{}
}

func (a *App) remember(userID string) {
	if err := a.prefs.SetSetting(a.ctx, lastUserKey, userID); err != nil {
		a.log.WithError(err).WithField("operation", "ui.App.remember").Warn("failed to save last user")
	}
}

func (a *App) openBoard(sel views.SelectedUser) tea.Cmd {
	a.currentView = ViewBoard
	a.board = views.NewBoardView(a.ctx, a.eng, sel.User, a.opts)
	a.remember(sel.User.ID)

	return tea.Batch(
		a.board.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// the user list persists behind the board
		a.userList.Update(msg)

	case restoredMsg:
		if msg.user != nil && a.currentView == ViewUsers {
			return a, a.openBoard(*msg.user)
		}
		return a, nil

	case views.SelectedUser:
		return a, a.openBoard(msg)

	case views.BackToUsers:
		a.currentView = ViewUsers
		a.remember("")
		return a, tea.Batch(
			a.userList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewUsers:
		_, cmd = a.userList.Update(msg)
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewBoard && a.board != nil {
		return a.board.View()
	}
	return a.userList.View()
}
