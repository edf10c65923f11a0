package service

import (
	"context"
	"net/http"

	"corkboard/internal/models"
)

// ListService issues card-list operations against the board server.
type ListService struct {
	caller Caller
}

// NewListService creates a list service backed by the given caller.
func NewListService(caller Caller) *ListService {
	return &ListService{caller: caller}
}

// AddNewCardListRequest appends a list at the tail of the board.
type AddNewCardListRequest struct {
	BoardID int64  `json:"board_id"`
	Name    string `json:"name"`
}

// MoveCardListRequest carries the full destination context of a list move.
type MoveCardListRequest struct {
	MovedCardListID   int64 `json:"moved_cardlist_id"`
	NewPrevCardListID int64 `json:"new_prev_cardlist_id"`
}

// UpdateCardListNameRequest renames a list.
type UpdateCardListNameRequest struct {
	CardListID int64  `json:"cardlist_id"`
	Name       string `json:"name"`
}

// DeleteCardListRequest deletes a list and the cards it contains.
type DeleteCardListRequest struct {
	CardListID int64 `json:"cardlist_id"`
}

// CardListResult is the authoritative list state returned by list mutations.
type CardListResult struct {
	models.CardList
}

// DeleteCardListResult acknowledges a list deletion.
type DeleteCardListResult struct {
	ID int64 `json:"id"`
}

// Add appends a new list at the tail of the board.
func (s *ListService) Add(ctx context.Context, req AddNewCardListRequest) (*CardListResult, error) {
	raw, err := s.caller.Call(ctx, OpAddNewCardList, http.MethodPost, req)
	if err != nil {
		return nil, err
	}
	var res CardListResult
	if err := decode(OpAddNewCardList, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Move relocates a list after the request's new predecessor (0 = board head).
func (s *ListService) Move(ctx context.Context, req MoveCardListRequest) (*CardListResult, error) {
	raw, err := s.caller.Call(ctx, OpMoveCardList, http.MethodPost, req)
	if err != nil {
		return nil, err
	}
	var res CardListResult
	if err := decode(OpMoveCardList, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Rename renames a list.
func (s *ListService) Rename(ctx context.Context, req UpdateCardListNameRequest) (*CardListResult, error) {
	raw, err := s.caller.Call(ctx, OpUpdateCardListName, http.MethodPut, req)
	if err != nil {
		return nil, err
	}
	var res CardListResult
	if err := decode(OpUpdateCardListName, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete removes a list and all cards in it.
func (s *ListService) Delete(ctx context.Context, req DeleteCardListRequest) (*DeleteCardListResult, error) {
	raw, err := s.caller.Call(ctx, OpDeleteCardList, http.MethodDelete, req)
	if err != nil {
		return nil, err
	}
	var res DeleteCardListResult
	if err := decode(OpDeleteCardList, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
