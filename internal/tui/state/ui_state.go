package state

// Mode is the top-level interaction mode of the client.
type Mode int

const (
	// ModeBoard shows the board with drag and drop active.
	ModeBoard Mode = iota
	// ModeOpenCard shows one card's content and attachments read-only.
	ModeOpenCard
	// ModeEditTitle edits the open card's title in a single-line input.
	ModeEditTitle
	// ModeEditContent edits the open card's content in a textarea.
	ModeEditContent
	// ModePrompt collects one line of input on the board (rename, add card,
	// add list, label edits); see PromptState.
	ModePrompt
)

// UIState manages presentation state that belongs to the session, not to any
// entity: window size and the current interaction mode.
type UIState struct {
	mode   Mode
	width  int
	height int
}

// NewUIState creates UI state in board mode.
func NewUIState() *UIState {
	return &UIState{}
}

// Mode returns the current interaction mode.
func (s *UIState) Mode() Mode { return s.mode }

// SetMode switches the interaction mode.
func (s *UIState) SetMode(m Mode) { s.mode = m }

// Size returns the last known window size.
func (s *UIState) Size() (w, h int) { return s.width, s.height }

// SetSize records a window resize.
func (s *UIState) SetSize(w, h int) {
	s.width = w
	s.height = h
}
