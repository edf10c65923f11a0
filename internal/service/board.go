package service

import (
	"context"
	"net/http"

	"corkboard/internal/models"
)

// BoardService fetches board snapshots and manages the board's label slots.
type BoardService struct {
	caller Caller
}

// NewBoardService creates a board service backed by the given caller.
func NewBoardService(caller Caller) *BoardService {
	return &BoardService{caller: caller}
}

// GetBoardRequest fetches a full board snapshot.
type GetBoardRequest struct {
	BoardID int64 `json:"board_id"`
}

// GetBoardResult is a full board snapshot: the board, its label slots, and
// the unordered sets of lists and cards. Ordering is reconstructed on the
// client by following the prev pointers.
type GetBoardResult struct {
	Board  models.Board       `json:"board"`
	Labels []models.Label     `json:"labels"`
	Lists  []*models.CardList `json:"lists"`
	Cards  []*models.Card     `json:"cards"`
}

// CreateBoardLabelRequest fills the next free label slot.
type CreateBoardLabelRequest struct {
	BoardID int64  `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// UpdateBoardLabelRequest renames or recolors a label slot.
type UpdateBoardLabelRequest struct {
	BoardID int64  `json:"board_id"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// DeleteBoardLabelRequest invalidates a label slot, clearing its bit on
// every card of the board.
type DeleteBoardLabelRequest struct {
	BoardID int64 `json:"board_id"`
	Index   int   `json:"index"`
}

// LabelResult is the authoritative state of one label slot.
type LabelResult struct {
	models.Label
}

// DeleteBoardLabelResult reports the invalidated slot and the cards whose
// masks the server rewrote.
type DeleteBoardLabelResult struct {
	Index          int     `json:"index"`
	ClearedCardIDs []int64 `json:"cleared_card_ids"`
}

// Get fetches a full board snapshot.
func (s *BoardService) Get(ctx context.Context, req GetBoardRequest) (*GetBoardResult, error) {
	raw, err := s.caller.Call(ctx, OpGetBoard, http.MethodGet, req)
	if err != nil {
		return nil, err
	}
	var res GetBoardResult
	if err := decode(OpGetBoard, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateLabel fills the next free label slot on the board.
func (s *BoardService) CreateLabel(ctx context.Context, req CreateBoardLabelRequest) (*LabelResult, error) {
	raw, err := s.caller.Call(ctx, OpCreateBoardLabel, http.MethodPost, req)
	if err != nil {
		return nil, err
	}
	var res LabelResult
	if err := decode(OpCreateBoardLabel, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateLabel renames or recolors a label slot.
func (s *BoardService) UpdateLabel(ctx context.Context, req UpdateBoardLabelRequest) (*LabelResult, error) {
	raw, err := s.caller.Call(ctx, OpUpdateBoardLabel, http.MethodPut, req)
	if err != nil {
		return nil, err
	}
	var res LabelResult
	if err := decode(OpUpdateBoardLabel, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteLabel invalidates a label slot board-wide.
func (s *BoardService) DeleteLabel(ctx context.Context, req DeleteBoardLabelRequest) (*DeleteBoardLabelResult, error) {
	raw, err := s.caller.Call(ctx, OpDeleteBoardLabel, http.MethodDelete, req)
	if err != nil {
		return nil, err
	}
	var res DeleteBoardLabelResult
	if err := decode(OpDeleteBoardLabel, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
