package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"corkboard/internal/service"
)

// setupServer runs the full stack: in-memory store behind the real router,
// talked to through the client's own caller and typed services.
func setupServer(t *testing.T) (*fixture, *service.BoardService, *service.CardService, *service.ListService) {
	t.Helper()
	f := setupStore(t)

	srv := httptest.NewServer(NewHandler(f.store).Router())
	t.Cleanup(srv.Close)

	caller := service.NewHTTPCaller(srv.URL, false)
	return f, service.NewBoardService(caller), service.NewCardService(caller), service.NewListService(caller)
}

func TestEndToEndBoardSnapshot(t *testing.T) {
	f, boards, _, _ := setupServer(t)

	res, err := boards.Get(context.Background(), service.GetBoardRequest{BoardID: f.board.ID})
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if res.Board.Title != "Sprint" {
		t.Errorf("board title = %q", res.Board.Title)
	}
	if len(res.Lists) != 3 || len(res.Cards) != 4 {
		t.Errorf("snapshot sizes: %d lists, %d cards", len(res.Lists), len(res.Cards))
	}
}

func TestEndToEndMoveCard(t *testing.T) {
	f, _, cards, _ := setupServer(t)

	res, err := cards.Move(context.Background(), service.MoveCardRequest{
		MovedCardID:    f.cards[0].ID,
		NewPrevCardID:  f.cards[3].ID,
		DestCardListID: f.lists[1].ID,
	})
	if err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if res.CardListID != f.lists[1].ID || res.PrevCardID != f.cards[3].ID {
		t.Fatalf("move result = %+v", res.Card)
	}
	if got := f.cardTitles(t, f.lists[1].ID); !equalStrings(got, []string{"d", "a"}) {
		t.Fatalf("Doing order = %v", got)
	}
}

func TestEndToEndMoveListToHead(t *testing.T) {
	f, _, _, lists := setupServer(t)

	res, err := lists.Move(context.Background(), service.MoveCardListRequest{
		MovedCardListID:   f.lists[1].ID,
		NewPrevCardListID: 0,
	})
	if err != nil {
		t.Fatalf("MoveCardList: %v", err)
	}
	if res.PrevListID != 0 {
		t.Fatalf("moved list prev = %d", res.PrevListID)
	}
	if got := f.listNames(t); !equalStrings(got, []string{"Doing", "Todo", "Done"}) {
		t.Fatalf("list order = %v", got)
	}
}

func TestEndToEndLockedCardConflict(t *testing.T) {
	f, _, cards, _ := setupServer(t)
	ctx := context.Background()

	if _, err := cards.SetLocked(ctx, service.SetCardLockedRequest{CardID: f.cards[0].ID, Locked: true}); err != nil {
		t.Fatalf("SetLocked: %v", err)
	}

	_, err := cards.Move(ctx, service.MoveCardRequest{
		MovedCardID:    f.cards[0].ID,
		NewPrevCardID:  0,
		DestCardListID: f.lists[1].ID,
	})
	var apiErr *service.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != 409 {
		t.Fatalf("status = %d, want 409", apiErr.Status)
	}
}

func TestEndToEndDeleteBoardLabel(t *testing.T) {
	f, boards, cards, _ := setupServer(t)
	ctx := context.Background()

	if _, err := boards.CreateLabel(ctx, service.CreateBoardLabelRequest{
		BoardID: f.board.ID, Name: "bug", Color: "#AA3333"}); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	if _, err := cards.SetLabel(ctx, service.SetCardLabelRequest{CardID: f.cards[0].ID, Index: 0}); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}

	res, err := boards.DeleteLabel(ctx, service.DeleteBoardLabelRequest{BoardID: f.board.ID, Index: 0})
	if err != nil {
		t.Fatalf("DeleteLabel: %v", err)
	}
	if res.Index != 0 || len(res.ClearedCardIDs) != 1 || res.ClearedCardIDs[0] != f.cards[0].ID {
		t.Fatalf("delete result = %+v", res)
	}

	snapshot, err := boards.Get(ctx, service.GetBoardRequest{BoardID: f.board.ID})
	if err != nil {
		t.Fatal(err)
	}
	for _, label := range snapshot.Labels {
		if label.Index == 0 && !label.Deleted() {
			t.Fatalf("slot 0 not retired: %+v", label)
		}
	}
}

func TestEndToEndUnknownCardIs404(t *testing.T) {
	_, _, cards, _ := setupServer(t)

	_, err := cards.Get(context.Background(), service.GetCardRequest{CardID: 9999})
	var apiErr *service.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != 404 {
		t.Fatalf("status = %d, want 404", apiErr.Status)
	}
}
