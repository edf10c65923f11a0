package state

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"corkboard/internal/models"
)

// OpenCardState manages the card detail view: the card snapshot being
// shown, its attachments, and the edit widgets. Content lives in restricted
// markup everywhere at rest; it is transcoded to its editable HTML form when
// an edit starts and back to markup when it ends.
type OpenCardState struct {
	cardID      int64
	card        models.Card
	attachments []*models.Attachment

	// fromCache marks a snapshot served by the local cache because the
	// server was unreachable.
	fromCache bool

	// checkbox is the index of the selected checkbox in the content, for
	// keyboard toggling. -1 when the content has none.
	checkbox int

	titleInput   textinput.Model
	contentInput textarea.Model
}

// NewOpenCardState creates an empty open-card state.
func NewOpenCardState() *OpenCardState {
	title := textinput.New()
	title.CharLimit = 200

	content := textarea.New()
	content.CharLimit = 0

	return &OpenCardState{
		checkbox:     -1,
		titleInput:   title,
		contentInput: content,
	}
}

// Open replaces the state with a fresh card snapshot.
func (s *OpenCardState) Open(card models.Card, fromCache bool) {
	s.cardID = card.ID
	s.card = card
	s.attachments = card.Attachments
	s.fromCache = fromCache
	s.checkbox = -1
}

// Close drops the open card.
func (s *OpenCardState) Close() {
	s.cardID = 0
	s.card = models.Card{}
	s.attachments = nil
	s.fromCache = false
}

// CardID returns the open card's id, 0 when no card is open.
func (s *OpenCardState) CardID() int64 { return s.cardID }

// Card returns the open card snapshot.
func (s *OpenCardState) Card() models.Card { return s.card }

// SetCard updates the snapshot in place, e.g. after a confirmed mutation.
func (s *OpenCardState) SetCard(card models.Card) { s.card = card }

// FromCache reports whether the snapshot came from the local cache.
func (s *OpenCardState) FromCache() bool { return s.fromCache }

// Attachments returns the open card's attachments.
func (s *OpenCardState) Attachments() []*models.Attachment { return s.attachments }

// SetAttachments replaces the attachment list.
func (s *OpenCardState) SetAttachments(atts []*models.Attachment) { s.attachments = atts }

// Checkbox returns the selected checkbox index, -1 for none.
func (s *OpenCardState) Checkbox() int { return s.checkbox }

// SelectCheckbox moves the checkbox selection within [0, count), wrapping at
// both ends. A count of zero clears the selection.
func (s *OpenCardState) SelectCheckbox(delta, count int) {
	if count == 0 {
		s.checkbox = -1
		return
	}
	s.checkbox = ((s.checkbox+delta)%count + count) % count
}

// TitleInput exposes the title editor widget.
func (s *OpenCardState) TitleInput() *textinput.Model { return &s.titleInput }

// ContentInput exposes the content editor widget.
func (s *OpenCardState) ContentInput() *textarea.Model { return &s.contentInput }

// StartTitleEdit seeds the title editor from the snapshot and focuses it.
func (s *OpenCardState) StartTitleEdit() {
	s.titleInput.SetValue(s.card.Title)
	s.titleInput.CursorEnd()
	s.titleInput.Focus()
}

// StartContentEdit seeds the content editor with the editable HTML form of
// the content and focuses it.
func (s *OpenCardState) StartContentEdit(html string) {
	s.contentInput.SetValue(html)
	s.contentInput.Focus()
}

// StopEditing blurs both editors.
func (s *OpenCardState) StopEditing() {
	s.titleInput.Blur()
	s.contentInput.Blur()
}
