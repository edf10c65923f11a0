// Package tui is the terminal shell of the board client. It owns the
// bubbletea event loop and wires the pointer translator, the drag session,
// the mutation queue, and the rendered tree together; all of those stay
// UI-toolkit-agnostic and are driven from Update.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/config"
	"corkboard/internal/drag"
	"corkboard/internal/render"
	"corkboard/internal/service"
	"corkboard/internal/sync"
	"corkboard/internal/tui/state"
)

// clickState carries click handler results out of the rendered tree and
// into the update loop. Node click handlers run synchronously inside
// Update, so a plain shared struct is enough.
type clickState struct {
	openCardID   int64
	renameListID int64
}

// Model represents the application state for the TUI
type Model struct {
	cfg     *config.Config
	boardID int64

	boards *service.BoardService
	cards  *service.CardService
	lists  *service.ListService

	queue *sync.Queue
	cache *sync.OpenCardCache

	session    *drag.Session
	translator *drag.Translator
	tree       *render.Reconciler
	clicks     *clickState

	uiState      *state.UIState
	openCard     *state.OpenCardState
	prompt       *state.PromptState
	notification *state.NotificationState
}

// InitialModel creates the TUI model against the configured server.
func InitialModel(cfg *config.Config, boardID int64) Model {
	caller := service.NewHTTPCaller(cfg.Server.URL, cfg.Server.Offline)

	clicks := &clickState{}
	theme := render.Theme{
		Accent:     cfg.Theme.Accent,
		Subtle:     cfg.Theme.Subtle,
		CardBorder: cfg.Theme.CardBorder,
		HoverColor: cfg.Theme.Hover,
		DangerBg:   cfg.Theme.DangerBg,
		LockColor:  cfg.Theme.Lock,
	}
	tree := render.NewReconciler(theme, render.NewViewportWatcher(),
		render.CardHandlers{OnOpen: func(id int64) { clicks.openCardID = id }},
		render.ListHandlers{OnRename: func(id int64) { clicks.renameListID = id }},
	)

	translatorCfg := drag.TranslatorConfig{
		HoldDelay:     msToDuration(cfg.Drag.HoldDelayMS),
		MoveThreshold: cfg.Drag.MoveThresholdCells,
	}

	return Model{
		cfg:          cfg,
		boardID:      boardID,
		boards:       service.NewBoardService(caller),
		cards:        service.NewCardService(caller),
		lists:        service.NewListService(caller),
		queue:        sync.NewQueue(),
		cache:        sync.NewOpenCardCache(),
		session:      drag.NewSession(),
		translator:   drag.NewTranslator(tree, translatorCfg),
		tree:         tree,
		clicks:       clicks,
		uiState:      state.NewUIState(),
		openCard:     state.NewOpenCardState(),
		prompt:       state.NewPromptState(),
		notification: state.NewNotificationState(),
	}
}

// Init starts the initial board load.
// Required by tea.Model interface
func (m Model) Init() tea.Cmd {
	return m.loadBoardCmd()
}
