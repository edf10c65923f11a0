package state

import "github.com/charmbracelet/bubbles/textinput"

// PromptKind says what the inline prompt under the board is collecting.
type PromptKind int

const (
	PromptNone PromptKind = iota
	// PromptRenameList renames the target list.
	PromptRenameList
	// PromptAddCard titles a new card for the target list.
	PromptAddCard
	// PromptAddList names a new list for the board.
	PromptAddList
	// PromptAddLabel collects "name color" for the next free label slot.
	PromptAddLabel
	// PromptEditLabel collects "index name color" for an existing slot.
	PromptEditLabel
	// PromptDeleteLabel collects the slot index to invalidate.
	PromptDeleteLabel
)

// PromptState manages the inline one-line editor under the board. One editor
// serves every board-level prompt; the kind decides how the submitted text is
// interpreted.
type PromptState struct {
	kind     PromptKind
	targetID int64
	input    textinput.Model
}

// NewPromptState creates an inactive prompt.
func NewPromptState() *PromptState {
	input := textinput.New()
	input.CharLimit = 100
	return &PromptState{input: input}
}

// Start activates the prompt, seeds the editor, and focuses it. targetID is
// the entity the prompt acts on, 0 for board-level prompts.
func (s *PromptState) Start(kind PromptKind, targetID int64, seed string) {
	s.kind = kind
	s.targetID = targetID
	s.input.SetValue(seed)
	s.input.CursorEnd()
	s.input.Focus()
}

// Stop deactivates the prompt and blurs the editor.
func (s *PromptState) Stop() {
	s.kind = PromptNone
	s.targetID = 0
	s.input.Blur()
}

// Kind returns the active prompt kind, PromptNone when inactive.
func (s *PromptState) Kind() PromptKind { return s.kind }

// TargetID returns the entity the prompt acts on.
func (s *PromptState) TargetID() int64 { return s.targetID }

// Input exposes the editor widget.
func (s *PromptState) Input() *textinput.Model { return &s.input }
