package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/drag"
	"corkboard/internal/markup"
	"corkboard/internal/models"
	"corkboard/internal/tui/state"
)

// Update is the single entry point for every event. Pointer events go
// through the translator and the drag session; drop intents become mutation
// cycles; everything else is routed by mode.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Fire cover loads for cards that were visible in the previous frame.
	m.tree.FlushVisible()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.uiState.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case boardLoadedMsg:
		if msg.err != nil {
			return m, m.notifyError("loading board: " + msg.err.Error())
		}
		m.tree.SetBoard(msg.res.Board, msg.res.Labels, msg.res.Lists, msg.res.Cards)
		m.notification.Clear()
		return m, nil

	case cardLoadedMsg:
		return m.handleCardLoaded(msg)

	case attachmentsLoadedMsg:
		if msg.err == nil && m.openCard.CardID() == msg.cardID {
			m.openCard.SetAttachments(msg.atts)
		}
		return m, nil

	case outcomeMsg:
		if err := m.queue.Resolve(msg.outcome); err != nil {
			return m, m.notifyError(err.Error())
		}
		return m, nil

	case notificationExpiredMsg:
		m.notification.Expire(msg.seq)
		return m, nil
	}

	return m, nil
}

// handleMouse feeds board-mode pointer events through the translation layer.
// A release that never activated a drag is a plain click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.uiState.Mode() != state.ModeBoard {
		return m, nil
	}

	var kind drag.PointerKind
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		kind = drag.PointerPress
	case tea.MouseActionMotion:
		kind = drag.PointerMove
	case tea.MouseActionRelease:
		kind = drag.PointerRelease
	default:
		return m, nil
	}

	wasActive := m.translator.Active()
	events := m.translator.Translate(drag.PointerEvent{
		Kind: kind,
		X:    msg.X,
		Y:    msg.Y,
		At:   time.Now(),
	})

	var cmds []tea.Cmd
	for _, ev := range events {
		for _, intent := range m.session.Handle(ev) {
			if cmd := m.handleIntent(intent); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	if kind == drag.PointerRelease && !wasActive && !m.translator.Active() {
		if cmd := m.handleClick(msg.X, msg.Y); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleClick runs the handler of the node under the click and acts on
// whatever it requested. A click on a list's empty top row, which belongs to
// no node, starts the add-card prompt for that list.
func (m Model) handleClick(x, y int) tea.Cmd {
	m.clicks.openCardID = 0
	m.clicks.renameListID = 0
	if !m.tree.ClickAt(x, y) {
		if listID, ok := m.tree.ListTopAt(x, y); ok {
			m.prompt.Start(state.PromptAddCard, listID, "")
			m.uiState.SetMode(state.ModePrompt)
		}
		return nil
	}

	if id := m.clicks.openCardID; id != 0 {
		m.uiState.SetMode(state.ModeOpenCard)
		return tea.Batch(m.loadCardCmd(id), m.loadAttachmentsCmd(id))
	}
	if id := m.clicks.renameListID; id != 0 {
		if list, ok := findList(m.tree.Lists(), id); ok {
			m.prompt.Start(state.PromptRenameList, id, list.Name)
			m.uiState.SetMode(state.ModePrompt)
		}
	}
	return nil
}

// handleCardLoaded fills the open-card view, falling back to the local
// cache when the server is unreachable.
func (m Model) handleCardLoaded(msg cardLoadedMsg) (tea.Model, tea.Cmd) {
	if m.uiState.Mode() != state.ModeOpenCard {
		return m, nil
	}

	if msg.err != nil {
		if cached, ok := m.cache.Get(msg.cardID); ok {
			m.openCard.Open(cached, true)
			return m, m.notifyInfo("offline: showing cached card")
		}
		m.uiState.SetMode(state.ModeBoard)
		return m, m.notifyError("loading card: " + msg.err.Error())
	}

	m.cache.Put(msg.card)
	m.openCard.Open(msg.card, false)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.uiState.Mode() {
	case state.ModeBoard:
		return m.handleBoardKey(msg)
	case state.ModeOpenCard:
		return m.handleOpenCardKey(msg)
	case state.ModeEditTitle:
		return m.handleTitleEditKey(msg)
	case state.ModeEditContent:
		return m.handleContentEditKey(msg)
	case state.ModePrompt:
		return m.handlePromptKey(msg)
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.loadBoardCmd()
	case "N":
		m.prompt.Start(state.PromptAddList, 0, "")
		m.uiState.SetMode(state.ModePrompt)
		return m, nil
	case "l":
		m.prompt.Start(state.PromptAddLabel, 0, "")
		m.uiState.SetMode(state.ModePrompt)
		return m, nil
	case "e":
		m.prompt.Start(state.PromptEditLabel, 0, "")
		m.uiState.SetMode(state.ModePrompt)
		return m, nil
	case "d":
		m.prompt.Start(state.PromptDeleteLabel, 0, "")
		m.uiState.SetMode(state.ModePrompt)
		return m, nil
	}
	return m, nil
}

// handleOpenCardKey routes keys in the card detail view. Content is
// restricted markup at rest; checkbox navigation and toggling work on it
// directly, only the editor gets the HTML form.
func (m Model) handleOpenCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	card := m.openCard.Card()

	switch msg.String() {
	case "esc", "q":
		m.openCard.Close()
		m.uiState.SetMode(state.ModeBoard)
		return m, nil

	case "t":
		if card.Locked {
			return m, m.notifyInfo("card is locked")
		}
		m.openCard.StartTitleEdit()
		m.uiState.SetMode(state.ModeEditTitle)
		return m, nil

	case "e":
		if card.Locked {
			return m, m.notifyInfo("card is locked")
		}
		m.openCard.StartContentEdit(markup.ToHTML(card.Content))
		m.uiState.SetMode(state.ModeEditContent)
		return m, nil

	case "L":
		return m, m.toggleLockMutation(card.ID, !card.Locked)

	case "tab", "j":
		m.openCard.SelectCheckbox(1, markup.CheckboxCount(card.Content))
		return m, nil

	case "shift+tab", "k":
		m.openCard.SelectCheckbox(-1, markup.CheckboxCount(card.Content))
		return m, nil

	case "x", " ":
		if card.Locked {
			return m, m.notifyInfo("card is locked")
		}
		n := m.openCard.Checkbox()
		toggled, ok := markup.ToggleCheckbox(card.Content, n)
		if !ok {
			return m, nil
		}
		// Checkbox toggles sync immediately; there is no save step.
		return m, m.saveContentMutation(card.ID, toggled)

	case "1", "2", "3", "4", "5", "6", "7", "8":
		index := int(msg.String()[0] - '1')
		return m, m.toggleCardLabelMutation(card.ID, index, !card.LabelMask.Has(index))
	}
	return m, nil
}

func (m Model) handleTitleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := m.openCard.TitleInput().Value()
		m.openCard.StopEditing()
		m.uiState.SetMode(state.ModeOpenCard)
		if title == "" {
			return m, nil
		}
		return m, m.saveTitleMutation(m.openCard.CardID(), title)
	case "esc":
		m.openCard.StopEditing()
		m.uiState.SetMode(state.ModeOpenCard)
		return m, nil
	}
	input, cmd := m.openCard.TitleInput().Update(msg)
	*m.openCard.TitleInput() = input
	return m, cmd
}

func (m Model) handleContentEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		html := m.openCard.ContentInput().Value()
		m.openCard.StopEditing()
		m.uiState.SetMode(state.ModeOpenCard)
		// The editor holds the HTML form; what syncs is the markup.
		return m, m.saveContentMutation(m.openCard.CardID(), markup.FromHTML(html))
	case "esc":
		m.openCard.StopEditing()
		m.uiState.SetMode(state.ModeOpenCard)
		return m, nil
	}
	input, cmd := m.openCard.ContentInput().Update(msg)
	*m.openCard.ContentInput() = input
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		kind, targetID := m.prompt.Kind(), m.prompt.TargetID()
		value := m.prompt.Input().Value()
		m.prompt.Stop()
		m.uiState.SetMode(state.ModeBoard)
		return m, m.submitPrompt(kind, targetID, value)
	case "esc":
		m.prompt.Stop()
		m.uiState.SetMode(state.ModeBoard)
		return m, nil
	}
	input, cmd := m.prompt.Input().Update(msg)
	*m.prompt.Input() = input
	return m, cmd
}

// submitPrompt interprets the submitted line by prompt kind and starts the
// matching mutation. Empty or malformed input cancels silently, matching the
// rename behavior.
func (m Model) submitPrompt(kind state.PromptKind, targetID int64, value string) tea.Cmd {
	fields := strings.Fields(value)
	switch kind {
	case state.PromptRenameList:
		if value == "" {
			return nil
		}
		return m.renameListMutation(targetID, value)

	case state.PromptAddCard:
		if value == "" {
			return nil
		}
		return m.addCardMutation(targetID, value)

	case state.PromptAddList:
		if value == "" {
			return nil
		}
		return m.addListMutation(value)

	case state.PromptAddLabel:
		if len(fields) == 0 {
			return nil
		}
		color := defaultLabelColor
		if len(fields) > 1 {
			color = fields[1]
		}
		return m.createLabelMutation(fields[0], color)

	case state.PromptEditLabel:
		if len(fields) < 2 {
			return nil
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil || index < 0 || index >= models.MaxLabelSlots {
			return m.notifyError("label slot must be 0-7")
		}
		color := defaultLabelColor
		if len(fields) > 2 {
			color = fields[2]
		}
		return m.updateLabelMutation(index, fields[1], color)

	case state.PromptDeleteLabel:
		if len(fields) == 0 {
			return nil
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil || index < 0 || index >= models.MaxLabelSlots {
			return m.notifyError("label slot must be 0-7")
		}
		return m.deleteLabelMutation(index)
	}
	return nil
}
