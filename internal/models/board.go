package models

// Board is the top-level container of card lists.
// The server is the sole source of truth for board content and ordering;
// client-side state derived from a Board is a provisional overlay that is
// always reconciled against the next authoritative response.
type Board struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
