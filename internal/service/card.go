package service

import (
	"context"
	"net/http"

	"corkboard/internal/models"
)

// CardService issues card operations against the board server. Every result
// carries the authoritative card state, which replaces the optimistic
// rendering on arrival.
type CardService struct {
	caller Caller
}

// NewCardService creates a card service backed by the given caller.
func NewCardService(caller Caller) *CardService {
	return &CardService{caller: caller}
}

// AddNewCardRequest creates a card at the tail of a list.
type AddNewCardRequest struct {
	CardListID int64  `json:"cardlist_id"`
	Title      string `json:"title"`
}

// MoveCardRequest carries the full destination context of a move: the
// server, not an accumulation of client deltas, computes the final order.
type MoveCardRequest struct {
	MovedCardID    int64 `json:"moved_card_id"`
	NewPrevCardID  int64 `json:"new_prev_card_id"`
	DestCardListID int64 `json:"dest_cardlist_id"`
}

// DeleteCardRequest deletes a card.
type DeleteCardRequest struct {
	CardID int64 `json:"card_id"`
}

// UpdateCardTitleRequest renames a card.
type UpdateCardTitleRequest struct {
	CardID int64  `json:"card_id"`
	Title  string `json:"title"`
}

// UpdateCardContentRequest replaces a card's content markup.
type UpdateCardContentRequest struct {
	CardID  int64  `json:"card_id"`
	Content string `json:"content"`
}

// SetCardLabelRequest sets or clears one label bit on a card.
type SetCardLabelRequest struct {
	CardID int64 `json:"card_id"`
	Index  int   `json:"index"`
}

// SetCardLockedRequest locks or unlocks a card.
type SetCardLockedRequest struct {
	CardID int64 `json:"card_id"`
	Locked bool  `json:"locked"`
}

// GetCardRequest fetches one card with attachments.
type GetCardRequest struct {
	CardID int64 `json:"card_id"`
}

// CardResult is the authoritative card state returned by card mutations.
type CardResult struct {
	models.Card
}

// MoveCardResult is the card state after a move, including the contextual
// fields (cardlist_id, prev_card_id) needed for re-insertion.
type MoveCardResult struct {
	models.Card
}

// DeleteCardResult acknowledges a deletion.
type DeleteCardResult struct {
	ID int64 `json:"id"`
}

// AttachmentsResult lists a card's attachments.
type AttachmentsResult struct {
	CardID      int64                `json:"card_id"`
	Attachments []*models.Attachment `json:"attachments"`
}

// Get fetches the authoritative state of one card.
func (s *CardService) Get(ctx context.Context, req GetCardRequest) (*CardResult, error) {
	raw, err := s.caller.Call(ctx, OpGetCard, http.MethodGet, req)
	if err != nil {
		return nil, err
	}
	var res CardResult
	if err := decode(OpGetCard, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Attachments fetches a card's attachment list.
func (s *CardService) Attachments(ctx context.Context, req GetCardRequest) (*AttachmentsResult, error) {
	raw, err := s.caller.Call(ctx, OpGetCardAttachments, http.MethodGet, req)
	if err != nil {
		return nil, err
	}
	var res AttachmentsResult
	if err := decode(OpGetCardAttachments, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Add creates a new card at the tail of the request's list.
func (s *CardService) Add(ctx context.Context, req AddNewCardRequest) (*CardResult, error) {
	raw, err := s.caller.Call(ctx, OpAddNewCard, http.MethodPost, req)
	if err != nil {
		return nil, err
	}
	var res CardResult
	if err := decode(OpAddNewCard, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Move relocates a card to the request's destination list and position.
func (s *CardService) Move(ctx context.Context, req MoveCardRequest) (*MoveCardResult, error) {
	raw, err := s.caller.Call(ctx, OpMoveCard, http.MethodPost, req)
	if err != nil {
		return nil, err
	}
	var res MoveCardResult
	if err := decode(OpMoveCard, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete removes a card.
func (s *CardService) Delete(ctx context.Context, req DeleteCardRequest) (*DeleteCardResult, error) {
	raw, err := s.caller.Call(ctx, OpDeleteCard, http.MethodDelete, req)
	if err != nil {
		return nil, err
	}
	var res DeleteCardResult
	if err := decode(OpDeleteCard, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateTitle renames a card.
func (s *CardService) UpdateTitle(ctx context.Context, req UpdateCardTitleRequest) (*CardResult, error) {
	raw, err := s.caller.Call(ctx, OpUpdateCardTitle, http.MethodPut, req)
	if err != nil {
		return nil, err
	}
	var res CardResult
	if err := decode(OpUpdateCardTitle, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateContent replaces a card's content markup.
func (s *CardService) UpdateContent(ctx context.Context, req UpdateCardContentRequest) (*CardResult, error) {
	raw, err := s.caller.Call(ctx, OpUpdateCardContent, http.MethodPut, req)
	if err != nil {
		return nil, err
	}
	var res CardResult
	if err := decode(OpUpdateCardContent, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetLabel sets the label bit at the request's slot index.
func (s *CardService) SetLabel(ctx context.Context, req SetCardLabelRequest) (*CardResult, error) {
	raw, err := s.caller.Call(ctx, OpSetCardLabel, http.MethodPut, req)
	if err != nil {
		return nil, err
	}
	var res CardResult
	if err := decode(OpSetCardLabel, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ClearLabel clears the label bit at the request's slot index.
func (s *CardService) ClearLabel(ctx context.Context, req SetCardLabelRequest) (*CardResult, error) {
	raw, err := s.caller.Call(ctx, OpClearCardLabel, http.MethodPut, req)
	if err != nil {
		return nil, err
	}
	var res CardResult
	if err := decode(OpClearCardLabel, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetLocked locks or unlocks a card.
func (s *CardService) SetLocked(ctx context.Context, req SetCardLockedRequest) (*CardResult, error) {
	raw, err := s.caller.Call(ctx, OpSetCardLocked, http.MethodPut, req)
	if err != nil {
		return nil, err
	}
	var res CardResult
	if err := decode(OpSetCardLocked, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
