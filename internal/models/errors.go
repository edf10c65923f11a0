package models

import "errors"

// Domain errors shared across services and the dev server.
var (
	ErrBoardNotFound    = errors.New("board not found")
	ErrCardNotFound     = errors.New("card not found")
	ErrCardListNotFound = errors.New("card list not found")
	ErrLabelNotFound    = errors.New("label not found")
	ErrCardLocked       = errors.New("card is locked")
	ErrLabelSlotsFull   = errors.New("all label slots are in use")
)
