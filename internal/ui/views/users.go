package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/ui/keys"
	"github.com/tgienger/weekly/internal/ui/styles"
)

// Directory lists the people boards can be opened for
type Directory interface {
	Users(ctx context.Context) ([]models.User, error)
}

type userItem struct {
	user models.User
}

func (i userItem) Title() string { return i.user.DisplayName() }

func (i userItem) Description() string {
	parts := make([]string, 0, 2)
	for _, s := range []string{i.user.Role, i.user.Department} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

func (i userItem) FilterValue() string { return i.user.Name + " " + i.user.LongName }

type userDelegate struct {
	styles *styles.Styles
	width  int
}

func (d userDelegate) Height() int                             { return 2 }
func (d userDelegate) Spacing() int                            { return 1 }
func (d userDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d userDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	u, ok := item.(userItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)

	base := d.styles.ListItem
	if index == m.Index() {
		base = d.styles.ListSelected
	}
	title := base.Width(width).Render(u.Title())
	desc := base.Foreground(styles.Current.ForegroundDim).Width(width).Render(u.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// SelectedUser opens the board of User
type SelectedUser struct {
	User models.User
}

type usersLoadedMsg struct {
	users []models.User
	err   error
}

// UserListView picks whose board to open
type UserListView struct {
	ctx      context.Context
	dir      Directory
	list     list.Model
	delegate *userDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	err      error

	showHelpPopup bool
}

func NewUserListView(ctx context.Context, dir Directory) *UserListView {
	s := styles.NewStyles()
	delegate := &userDelegate{styles: s, width: styles.MaxWidth}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Team"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &UserListView{
		ctx:      ctx,
		dir:      dir,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *UserListView) Init() tea.Cmd {
	return v.loadUsers
}

func (v *UserListView) loadUsers() tea.Msg {
	users, err := v.dir.Users(v.ctx)
	return usersLoadedMsg{users: users, err: err}
}

func (v *UserListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case usersLoadedMsg:
		v.loaded = true
		v.err = msg.err
		items := make([]list.Item, len(msg.users))
		for i, u := range msg.users {
			items[i] = userItem{user: u}
		}
		v.list.SetItems(items)
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		// let the list own keys while its filter is being typed
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(userItem); ok {
				return v, func() tea.Msg {
					return SelectedUser{User: item.user}
				}
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *UserListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}
	if v.err != nil {
		return v.renderMessage("Could not load users", v.err.Error())
	}
	if len(v.list.Items()) == 0 {
		return v.renderMessage("No Users", "Run 'weekly seed' to load the sample team")
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *UserListView) renderMessage(title, detail string) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render(title),
		"",
		s.TitleMuted.Render(detail),
	)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UserListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open board • %s filter • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *UserListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Keyboard Shortcuts"),
		"",
		s.HelpKey.Render("↵")+"      "+s.HelpDesc.Render("open board"),
		s.HelpKey.Render("/")+"      "+s.HelpDesc.Render("filter users"),
		s.HelpKey.Render("q")+"      "+s.HelpDesc.Render("quit"),
		"",
		s.TitleMuted.Render("Press any key to close"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
