package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"corkboard/internal/markup"
	"corkboard/internal/render"
	"corkboard/internal/tui/state"
)

// View renders the current frame. The board view delegates to the rendered
// tree, which records hit rectangles as a side effect; the open-card modes
// render a full-screen modal instead.
func (m Model) View() string {
	w, h := m.uiState.Size()
	if w == 0 || h == 0 {
		w, h = 80, 24
	}

	switch m.uiState.Mode() {
	case state.ModeOpenCard, state.ModeEditTitle, state.ModeEditContent:
		return m.openCardView(w, h)
	}
	return m.boardView(w, h)
}

func (m Model) boardView(w, h int) string {
	hover, _ := m.session.Hover()
	board := m.tree.View(render.ViewOptions{
		Width:          w,
		Height:         h - 1,
		Hover:          hover,
		ShowDeleteZone: m.session.DeleteZoneEnabled(),
	})

	lines := strings.Split(board, "\n")
	for len(lines) < h-1 {
		lines = append(lines, "")
	}
	lines = append(lines, m.statusView(w))
	return strings.Join(lines, "\n")
}

// statusView is the single line under the board: an active prompt editor, a
// drag ghost, a pending notification, or the key hints, in that priority.
func (m Model) statusView(w int) string {
	style := lipgloss.NewStyle().Width(w).MaxHeight(1)

	if m.uiState.Mode() == state.ModePrompt {
		return style.Render(promptLabel(m.prompt.Kind()) + m.prompt.Input().View())
	}

	if ghost := m.session.Ghost(); ghost.Visible {
		return style.
			Foreground(lipgloss.Color(m.cfg.Theme.Hover)).
			Render("⠿ " + ghost.Label)
	}

	if msg, level := m.notification.Message(); msg != "" {
		if level == state.LevelError {
			style = style.Foreground(lipgloss.Color(m.cfg.Theme.DangerBg))
		}
		return style.Render(msg)
	}

	return style.
		Foreground(lipgloss.Color(m.cfg.Theme.Subtle)).
		Render("drag to move · click card to open · N new list · l/e/d labels · r reload · q quit")
}

func promptLabel(kind state.PromptKind) string {
	switch kind {
	case state.PromptRenameList:
		return "rename list: "
	case state.PromptAddCard:
		return "new card title: "
	case state.PromptAddList:
		return "new list name: "
	case state.PromptAddLabel:
		return "new label (name color): "
	case state.PromptEditLabel:
		return "edit label (index name color): "
	case state.PromptDeleteLabel:
		return "delete label (index): "
	}
	return ""
}

func (m Model) openCardView(w, h int) string {
	card := m.openCard.Card()
	theme := lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.Theme.Subtle))

	title := card.Title
	if card.Locked {
		title = "🔒 " + title
	}
	if m.openCard.FromCache() {
		title += theme.Render("  (cached)")
	}
	header := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color(m.cfg.Theme.Accent)).
		Render(title)

	var body string
	switch m.uiState.Mode() {
	case state.ModeEditTitle:
		body = "title: " + m.openCard.TitleInput().View()
	case state.ModeEditContent:
		body = m.openCard.ContentInput().View()
	default:
		body = m.contentView(card.Content, w-4)
	}

	var sections []string
	sections = append(sections, header, "", body)

	if atts := m.openCard.Attachments(); len(atts) > 0 {
		sections = append(sections, "", theme.Render("attachments"))
		for _, att := range atts {
			sections = append(sections, m.tree.LoadOpenCardAttachment(*att).View(false))
		}
	}

	sections = append(sections, "", m.openCardHints(card.Content))
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.cfg.Theme.CardBorder)).
		Padding(1, 2).
		Width(min(w-2, 76)).
		Render(strings.Join(sections, "\n"))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, modal)
}

// contentView renders the stored markup as styled terminal text via glamour.
func (m Model) contentView(src string, width int) string {
	if src == "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.cfg.Theme.Subtle)).
			Italic(true).
			Render("no content — press e to write")
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return src
	}
	out, err := renderer.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) openCardHints(content string) string {
	hints := "esc close · t title · e edit · L lock · 1-8 labels"
	if count := markup.CheckboxCount(content); count > 0 {
		sel := m.openCard.Checkbox()
		hints += fmt.Sprintf(" · tab select box (%d/%d) · x toggle", sel+1, count)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.cfg.Theme.Subtle)).
		Render(hints)
}
