package models

// Attachment is a file attached to a card. URL and ThumbnailURL are filled
// in by the server once the upload completes; an attachment without a URL is
// still uploading and rendered as a pending entry.
type Attachment struct {
	ID           int64  `json:"id"`
	CardID       int64  `json:"card_id"`
	Name         string `json:"name"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Uploading reports whether the attachment's upload has not finished yet.
func (a Attachment) Uploading() bool {
	return a.URL == ""
}
