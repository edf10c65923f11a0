package models

// CardList is an ordered container of cards within a board.
// Lists are organized as a singly linked sequence using PrevListID pointers:
// the head of the sequence has PrevListID == 0, and every other list points
// at the list immediately before it. A board's lists always form exactly one
// such sequence with one head and no cycles.
type CardList struct {
	ID         int64  `json:"id"`
	BoardID    int64  `json:"board_id"`
	Name       string `json:"name"`
	PrevListID int64  `json:"prev_list_id"`
}
