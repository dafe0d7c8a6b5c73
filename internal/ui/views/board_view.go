package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/ui/styles"
	"github.com/tgienger/weekly/internal/week"
)

// truncate cuts s to n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func priorityBadge(p models.Priority) string {
	label := map[models.Priority]string{
		models.PriorityLow:    "low",
		models.PriorityMedium: "med",
		models.PriorityHigh:   "high",
		models.PriorityUrgent: "URG",
	}[p]
	if label == "" {
		label = string(p)
	}
	return lipgloss.NewStyle().Foreground(styles.PriorityColor(p)).Bold(true).Render(label)
}

func (v *BoardView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	switch v.mode {
	case modeConfirmDelete:
		return v.renderDeleteConfirm()
	case modeForm:
		return v.renderForm()
	case modeCopy:
		return v.renderCopy()
	case modeDetail:
		return v.renderDetail()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	sections := []string{v.renderHeader()}
	if v.mode == modeSearch || v.filtered() {
		sections = append(sections, v.renderFilterBar())
	}
	sections = append(sections, v.renderColumns(), v.renderStats())
	if v.banner != "" {
		sections = append(sections, v.renderBanner())
	}
	sections = append(sections, v.renderHelp())

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, sections...), v.width, v.height)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	label := v.weekKey
	if r, err := week.RangeOf(v.weekKey); err == nil {
		label = r.String()
	}
	current := ""
	if v.weekKey == week.KeyFor(v.opts.Now()) {
		current = s.TitleMuted.Render(" (this week)")
	}
	return s.TitleBar.Render(
		s.Title.Render(v.user.DisplayName()) + s.TitleMuted.Render("  ◂ ") + label + s.TitleMuted.Render(" ▸") + current,
	)
}

func (v *BoardView) renderFilterBar() string {
	s := v.styles
	parts := []string{s.HelpKey.Render("/") + " " + v.searchInput.View()}
	if v.priority != "" {
		parts = append(parts, s.TitleMuted.Render("priority: ")+priorityBadge(v.priority))
	}
	return s.Stats.Render(strings.Join(parts, "   "))
}

func (v *BoardView) columnWidth() int {
	return max(styles.ContentWidth(v.width)/len(models.Statuses), 16)
}

// visibleCards is how many cards fit in a column at the current height
func (v *BoardView) visibleCards() int {
	// header, filter, stats, banner and help take about ten lines
	return max((v.height-12)/3, 1)
}

func (v *BoardView) renderColumns() string {
	if v.board == nil {
		return ""
	}
	colWidth := v.columnWidth()
	inner := colWidth - 4
	limit := v.visibleCards()

	cols := make([]string, 0, len(v.board.Columns))
	for c, col := range v.board.Columns {
		header := v.styles.ColumnHeader.Foreground(styles.StatusColor(col.Status)).
			Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks)))

		lines := []string{header}
		start := max(0, v.rows[c]-limit+1)
		end := min(len(col.Tasks), start+limit)
		if start > 0 {
			lines = append(lines, v.styles.TitleMuted.Render(fmt.Sprintf("  ↑ %d more", start)))
		}
		for r := start; r < end; r++ {
			lines = append(lines, v.renderCard(&col.Tasks[r], inner, c == v.col && r == v.rows[c]))
		}
		if end < len(col.Tasks) {
			lines = append(lines, v.styles.TitleMuted.Render(fmt.Sprintf("  ↓ %d more", len(col.Tasks)-end)))
		}
		if len(col.Tasks) == 0 {
			lines = append(lines, v.styles.TitleMuted.Render("  empty"))
		}

		style := v.styles.Column
		if c == v.col {
			style = v.styles.ColumnFocused
		}
		cols = append(cols, style.Width(inner).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (v *BoardView) renderCard(t *models.Task, width int, selected bool) string {
	s := v.styles
	mark := ""
	if t.OriginalTaskID != "" {
		mark = "↻ "
	}
	title := truncate(mark+t.Title, width-1)

	var meta []string
	meta = append(meta, priorityBadge(t.Priority))
	if len(t.DueDate) == len("2006-01-02") {
		meta = append(meta, "due "+t.DueDate[5:])
	}
	if t.EstimatedHours > 0 {
		meta = append(meta, fmt.Sprintf("%gh", t.EstimatedHours))
	}
	if t.Progress > 0 {
		meta = append(meta, fmt.Sprintf("%d%%", t.Progress))
	}

	titleStyle := s.Card
	if selected {
		titleStyle = s.CardSelected
	}
	return titleStyle.Width(width).Render(title) + "\n" +
		s.CardMeta.Width(width).Render(strings.Join(meta, " · ")) + "\n"
}

func (v *BoardView) renderStats() string {
	if v.board == nil {
		return ""
	}
	st := v.board.Stats
	return v.styles.Stats.Render(fmt.Sprintf(
		"%d tasks · %d done (%d%%) · %d in progress · %d to do · %d blocked · %gh est / %gh actual",
		st.Total, st.Completed, st.CompletionPercent(), st.InProgress, st.Pending, st.Blocked,
		st.EstimatedHours, st.ActualHours,
	))
}

func (v *BoardView) renderBanner() string {
	if v.bannerErr {
		return v.styles.BannerError.Render(v.banner)
	}
	return v.styles.BannerOK.Render(v.banner)
}

func (v *BoardView) renderHelp() string {
	s := v.styles
	if w := styles.ContentWidth(v.width); w > 0 && w < 80 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	return s.Help.Render(fmt.Sprintf(
		"%s move • %s week • %s open • %s new • %s copy • %s mail • %s help • %s users",
		s.HelpKey.Render("H/L"),
		s.HelpKey.Render("[ ]"),
		s.HelpKey.Render("↵"),
		s.HelpKey.Render("n"),
		s.HelpKey.Render("c"),
		s.HelpKey.Render("m"),
		s.HelpKey.Render("?"),
		s.HelpKey.Render("esc"),
	))
}

func (v *BoardView) place(content string) string {
	centered := lipgloss.Place(styles.ContentWidth(v.width), v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderHelpPopup() string {
	s := v.styles
	bindings := []struct{ keys, desc string }{
		{"←/→ h/l", "change column"},
		{"↑/↓ j/k", "change card"},
		{"H/L 1-4", "move card to a status"},
		{"[ ] t", "previous, next, this week"},
		{"↵", "open task"},
		{"n e d", "new, edit, delete"},
		{"c", "copy to another week"},
		{"/ p", "search, cycle priority"},
		{"m", "mail the weekly report"},
		{"esc", "back to users"},
		{"q", "quit"},
	}
	lines := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, b := range bindings {
		lines = append(lines, s.HelpKey.Width(10).Render(b.keys)+" "+s.HelpDesc.Render(b.desc))
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))
	return v.place(s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (v *BoardView) renderDeleteConfirm() string {
	s := v.styles
	name := ""
	if v.deleteTarget != nil {
		name = v.deleteTarget.Title
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and its comments will be removed.", name)),
		s.TitleMuted.Render("Copies in other weeks are kept."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	return v.place(content)
}

func (v *BoardView) renderForm() string {
	s := v.styles
	f := &v.form

	title := "New Task"
	if f.editingID != "" {
		title = "Edit Task"
	}
	lines := []string{s.Title.Render(title), s.TitleMuted.Render("Status: " + models.StatusTitle(f.status)), ""}

	for i := fieldTitle; i < fieldSave; i++ {
		inputStyle := s.Input
		if f.focusIdx == i {
			inputStyle = s.InputFocused
		}
		view := f.inputs[i].View()
		if i == fieldDesc {
			view = f.desc.View()
		}
		lines = append(lines, fieldLabels[i]+":", inputStyle.Render(view))
	}

	btn := s.Button
	if f.focusIdx == fieldSave {
		btn = s.ButtonFocused
	}
	lines = append(lines, "", btn.Render(" Save "))
	if f.err != "" {
		lines = append(lines, "", s.BannerError.Render(f.err))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))
	return v.place(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *BoardView) renderCopy() string {
	s := v.styles
	c := &v.copying
	if c.source == nil {
		return ""
	}

	lines := []string{
		s.Title.Render("Copy Task"),
		s.TitleMuted.Render(truncate(c.source.Title, 50)),
		"",
		"Target week:",
	}
	current := week.KeyFor(v.opts.Now())
	for i, k := range c.weeks {
		label := k
		if r, err := week.RangeOf(k); err == nil {
			label = r.String()
		}
		if k == current {
			label += " (this week)"
		}
		cursor := "  "
		style := s.Toggle
		if i == c.weekCursor {
			cursor = "▸ "
			if c.focusIdx == copyFocusWeeks {
				style = s.ToggleFocused
			}
		}
		lines = append(lines, style.Render(cursor+label))
	}

	toggle := func(idx int, label string, on bool) string {
		box := "[ ]"
		if on {
			box = "[x]"
		}
		style := s.Toggle
		if c.focusIdx == idx {
			style = s.ToggleFocused
		}
		return style.Render(box + " " + label)
	}
	lines = append(lines, "",
		toggle(copyFocusComments, "Include comments", c.settings.IncludeComments),
		toggle(copyFocusProgress, "Include progress", c.settings.IncludeProgress),
		toggle(copyFocusActual, "Include actual hours", c.settings.IncludeActualHours),
		toggle(copyFocusReset, "Reset status to To Do", c.settings.ResetStatus),
		"",
	)

	reasonStyle := s.Input
	if c.focusIdx == copyFocusReason {
		reasonStyle = s.InputFocused
	}
	btn := s.Button
	if c.focusIdx == copyFocusConfirm {
		btn = s.ButtonFocused
	}
	lines = append(lines,
		"Reason:",
		reasonStyle.Render(c.reason.View()),
		"",
		btn.Render(" Copy "),
		"",
		s.TitleMuted.Render("Tab: next • Space: toggle • Ctrl+S: copy • Esc: cancel"),
	)
	return v.place(s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (v *BoardView) author(id string) string {
	if id == v.user.ID {
		return "you"
	}
	if name, ok := v.names[id]; ok {
		return name
	}
	return id
}

func (v *BoardView) renderDetail() string {
	s := v.styles
	t := v.detail
	if t == nil {
		return s.TitleMuted.Render("Loading...")
	}
	width := clamp(styles.ContentWidth(v.width)-6, 30, 90)

	field := func(label, value string) string {
		return s.TitleMuted.Width(12).Render(label) + value
	}
	lines := []string{
		s.Title.Render(t.Title),
		"",
		field("Status", lipgloss.NewStyle().Foreground(styles.StatusColor(t.Status)).Render(models.StatusTitle(t.Status))),
		field("Priority", priorityBadge(t.Priority)),
		field("Week", t.WeekOf),
	}
	if t.DueDate != "" {
		lines = append(lines, field("Due", t.DueDate))
	}
	lines = append(lines,
		field("Hours", fmt.Sprintf("%g / %g", t.ActualHours, t.EstimatedHours)),
		field("Progress", fmt.Sprintf("%d%%", t.Progress)),
	)
	if t.TicketNumber != "" {
		lines = append(lines, field("Ticket", t.TicketNumber))
	}
	if len(t.Tags) > 0 {
		lines = append(lines, field("Tags", strings.Join(t.Tags, ", ")))
	}
	if t.Description != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(t.Description))
	}

	if len(t.CopyHistory) > 0 {
		lines = append(lines, "", s.HelpKey.Render("Copy history"))
		for _, h := range t.CopyHistory {
			entry := fmt.Sprintf("%s → %s by %s", h.CopiedFromWeek, h.CopiedToWeek, v.author(h.CopiedBy))
			if h.CopyReason != "" {
				entry += ": " + h.CopyReason
			}
			lines = append(lines, "  "+truncate(entry, width-2))
		}
	}

	lines = append(lines, "", s.HelpKey.Render(fmt.Sprintf("Comments (%d)", len(t.Comments))))
	for _, c := range t.Comments {
		head := s.TitleMuted.Render(c.CreatedAt.Local().Format("02/01 15:04") + " " + v.author(c.UserID))
		lines = append(lines, "  "+head, lipgloss.NewStyle().Width(width).PaddingLeft(4).Render(c.Content))
	}

	if v.commentFocused {
		lines = append(lines, "", s.InputFocused.Render(v.commentInput.View()),
			s.TitleMuted.Render("Ctrl+S: post • Esc: cancel"))
	} else {
		lines = append(lines, "", s.TitleMuted.Render("a: comment • e: edit • c: copy • esc: back"))
	}
	if v.banner != "" {
		lines = append(lines, "", v.renderBanner())
	}

	return styles.CenterView(s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)), v.width, v.height)
}
