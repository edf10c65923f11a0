package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"corkboard/internal/models"
	"corkboard/internal/service"
)

// Handler exposes the store as the /api/{op} surface the client's Caller
// speaks: reads carry params in the query string, mutations in the body,
// failures come back as {"error": ...} with a meaningful status.
type Handler struct {
	store *Store
}

// NewHandler creates a handler over the store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Router builds the API router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/"+service.OpGetBoard, h.getBoard).Methods(http.MethodGet)
	api.HandleFunc("/"+service.OpGetCard, h.getCard).Methods(http.MethodGet)
	api.HandleFunc("/"+service.OpGetCardAttachments, h.getCardAttachments).Methods(http.MethodGet)

	api.HandleFunc("/"+service.OpAddNewCard, h.addCard).Methods(http.MethodPost)
	api.HandleFunc("/"+service.OpMoveCard, h.moveCard).Methods(http.MethodPost)
	api.HandleFunc("/"+service.OpDeleteCard, h.deleteCard).Methods(http.MethodDelete)
	api.HandleFunc("/"+service.OpUpdateCardTitle, h.updateCardTitle).Methods(http.MethodPut)
	api.HandleFunc("/"+service.OpUpdateCardContent, h.updateCardContent).Methods(http.MethodPut)
	api.HandleFunc("/"+service.OpSetCardLabel, h.setCardLabel).Methods(http.MethodPut)
	api.HandleFunc("/"+service.OpClearCardLabel, h.clearCardLabel).Methods(http.MethodPut)
	api.HandleFunc("/"+service.OpSetCardLocked, h.setCardLocked).Methods(http.MethodPut)

	api.HandleFunc("/"+service.OpAddNewCardList, h.addCardList).Methods(http.MethodPost)
	api.HandleFunc("/"+service.OpMoveCardList, h.moveCardList).Methods(http.MethodPost)
	api.HandleFunc("/"+service.OpUpdateCardListName, h.renameCardList).Methods(http.MethodPut)
	api.HandleFunc("/"+service.OpDeleteCardList, h.deleteCardList).Methods(http.MethodDelete)

	api.HandleFunc("/"+service.OpCreateBoardLabel, h.createBoardLabel).Methods(http.MethodPost)
	api.HandleFunc("/"+service.OpUpdateBoardLabel, h.updateBoardLabel).Methods(http.MethodPut)
	api.HandleFunc("/"+service.OpDeleteBoardLabel, h.deleteBoardLabel).Methods(http.MethodDelete)

	return r
}

// decodeParams reads the request params: query string for GETs, JSON body
// for everything else.
func decodeParams(r *http.Request, out any) error {
	if r.Method == http.MethodGet {
		raw := r.URL.Query().Get("params")
		if raw == "" {
			return errors.New("missing params query parameter")
		}
		return json.Unmarshal([]byte(raw), out)
	}
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrBoardNotFound),
		errors.Is(err, models.ErrCardNotFound),
		errors.Is(err, models.ErrCardListNotFound),
		errors.Is(err, models.ErrLabelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrCardLocked),
		errors.Is(err, models.ErrLabelSlotsFull):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("operation failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		slog.Error("encoding error response", "error", encErr)
	}
}

func badRequest(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	var req service.GetBoardRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	board, labels, lists, cards, err := h.store.GetBoard(r.Context(), req.BoardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, service.GetBoardResult{Board: *board, Labels: labels, Lists: lists, Cards: cards})
}

func (h *Handler) getCard(w http.ResponseWriter, r *http.Request) {
	var req service.GetCardRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.Card(r.Context(), req.CardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) getCardAttachments(w http.ResponseWriter, r *http.Request) {
	var req service.GetCardRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	atts, err := h.store.CardAttachments(r.Context(), req.CardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, service.AttachmentsResult{CardID: req.CardID, Attachments: atts})
}

func (h *Handler) addCard(w http.ResponseWriter, r *http.Request) {
	var req service.AddNewCardRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.AddCard(r.Context(), req.CardListID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) moveCard(w http.ResponseWriter, r *http.Request) {
	var req service.MoveCardRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.MoveCard(r.Context(), req.MovedCardID, req.NewPrevCardID, req.DestCardListID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	var req service.DeleteCardRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := h.store.DeleteCard(r.Context(), req.CardID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, service.DeleteCardResult{ID: req.CardID})
}

func (h *Handler) updateCardTitle(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCardTitleRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.UpdateCardTitle(r.Context(), req.CardID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) updateCardContent(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCardContentRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.UpdateCardContent(r.Context(), req.CardID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) setCardLabel(w http.ResponseWriter, r *http.Request) {
	var req service.SetCardLabelRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.SetCardLabel(r.Context(), req.CardID, req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) clearCardLabel(w http.ResponseWriter, r *http.Request) {
	var req service.SetCardLabelRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.ClearCardLabel(r.Context(), req.CardID, req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) setCardLocked(w http.ResponseWriter, r *http.Request) {
	var req service.SetCardLockedRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	card, err := h.store.SetCardLocked(r.Context(), req.CardID, req.Locked)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, card)
}

func (h *Handler) addCardList(w http.ResponseWriter, r *http.Request) {
	var req service.AddNewCardListRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	list, err := h.store.AddCardList(r.Context(), req.BoardID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) moveCardList(w http.ResponseWriter, r *http.Request) {
	var req service.MoveCardListRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	list, err := h.store.MoveCardList(r.Context(), req.MovedCardListID, req.NewPrevCardListID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) renameCardList(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCardListNameRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	list, err := h.store.RenameCardList(r.Context(), req.CardListID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) deleteCardList(w http.ResponseWriter, r *http.Request) {
	var req service.DeleteCardListRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := h.store.DeleteCardList(r.Context(), req.CardListID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, service.DeleteCardListResult{ID: req.CardListID})
}

func (h *Handler) createBoardLabel(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBoardLabelRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	label, err := h.store.CreateBoardLabel(r.Context(), req.BoardID, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, label)
}

func (h *Handler) updateBoardLabel(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateBoardLabelRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	label, err := h.store.UpdateBoardLabel(r.Context(), req.BoardID, req.Index, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, label)
}

func (h *Handler) deleteBoardLabel(w http.ResponseWriter, r *http.Request) {
	var req service.DeleteBoardLabelRequest
	if err := decodeParams(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	cleared, err := h.store.DeleteBoardLabel(r.Context(), req.BoardID, req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, service.DeleteBoardLabelResult{Index: req.Index, ClearedCardIDs: cleared})
}
