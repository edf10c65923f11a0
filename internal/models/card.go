package models

// Card is a unit of work within a card list.
// Cards form one linked sequence per list via PrevCardID (0 = head of the
// list). Moving a card updates CardListID and PrevCardID atomically on the
// server side; the client always sends the full destination context rather
// than relative deltas.
type Card struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	// Content is the card body in restricted markup (see the markup
	// package); the editable HTML form exists only while an edit is open.
	Content string `json:"content"`


	CardListID int64     `json:"cardlist_id"`
	PrevCardID int64     `json:"prev_card_id"`
	LabelMask  LabelMask `json:"label_mask"`
	Locked     bool      `json:"locked"`

	// Attachments is populated on full card fetches; board snapshots carry
	// only CoverURL to keep payloads small.
	Attachments []*Attachment `json:"attachments,omitempty"`

	// CoverURL is the thumbnail of the first attachment, if any. Empty means
	// the card has no cover.
	CoverURL string `json:"cover_url,omitempty"`
}
