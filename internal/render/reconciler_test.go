package render

import (
	"errors"
	"strings"
	"testing"

	"corkboard/internal/drag"
	"corkboard/internal/models"
)

func testBoard(t *testing.T) *Reconciler {
	t.Helper()
	r := NewReconciler(DefaultTheme(), NewViewportWatcher(), CardHandlers{}, ListHandlers{})
	r.SetBoard(
		models.Board{ID: 1, Title: "Sprint"},
		[]models.Label{
			{Index: 0, Name: "bug", Color: "#AA3333"},
			{Index: 1, Name: "chore", Color: "#3333AA"},
		},
		[]*models.CardList{
			{ID: 3, BoardID: 1, Name: "Doing", PrevListID: 2},
			{ID: 2, BoardID: 1, Name: "Todo", PrevListID: 0},
		},
		[]*models.Card{
			{ID: 11, Title: "beta", CardListID: 2, PrevCardID: 10},
			{ID: 10, Title: "alpha", CardListID: 2, PrevCardID: 0},
			{ID: 20, Title: "gamma", CardListID: 3, PrevCardID: 0},
		},
	)
	return r
}

func listOrder(r *Reconciler) []int64 {
	var ids []int64
	for _, n := range r.Lists() {
		ids = append(ids, n.List().ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSetBoardOrdersByPrevPointers(t *testing.T) {
	r := testBoard(t)

	if got := listOrder(r); !equalIDs(got, []int64{2, 3}) {
		t.Fatalf("list order = %v, want [2 3]", got)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{10, 11, 20}) {
		t.Fatalf("card order = %v, want [10 11 20]", got)
	}
}

func TestReplaceCardSwapsNodeInPlace(t *testing.T) {
	r := testBoard(t)

	card, _ := r.Card(11)
	card.Title = "beta v2"
	if err := r.ReplaceCard(card); err != nil {
		t.Fatalf("ReplaceCard: %v", err)
	}

	got, ok := r.Card(11)
	if !ok || got.Title != "beta v2" {
		t.Fatalf("card 11 after replace = %+v", got)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{10, 11, 20}) {
		t.Fatalf("replace moved the card: %v", got)
	}

	if err := r.ReplaceCard(models.Card{ID: 99}); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("ReplaceCard(unknown) = %v, want ErrNodeNotFound", err)
	}
}

func TestMoveCardAcrossLists(t *testing.T) {
	r := testBoard(t)

	err := r.MoveCard(models.Card{ID: 10, Title: "alpha", CardListID: 3, PrevCardID: 20})
	if err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{11, 20, 10}) {
		t.Fatalf("card order = %v, want [11 20 10]", got)
	}
}

func TestMoveCardToListHead(t *testing.T) {
	r := testBoard(t)

	if err := r.MoveCard(models.Card{ID: 20, CardListID: 2, PrevCardID: 0}); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{20, 10, 11}) {
		t.Fatalf("card order = %v, want [20 10 11]", got)
	}
}

func TestMoveCardMissingAnchorLeavesTreeIntact(t *testing.T) {
	r := testBoard(t)

	err := r.MoveCard(models.Card{ID: 10, CardListID: 3, PrevCardID: 77})
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("MoveCard = %v, want ErrAnchorNotFound", err)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{10, 11, 20}) {
		t.Fatalf("tree changed on failed move: %v", got)
	}
}

func TestMoveCardSelfAnchorLeavesTreeIntact(t *testing.T) {
	r := testBoard(t)

	err := r.MoveCard(models.Card{ID: 10, CardListID: 2, PrevCardID: 10})
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("MoveCard = %v, want ErrAnchorNotFound", err)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{10, 11, 20}) {
		t.Fatalf("tree changed on self-anchored move: %v", got)
	}
}

func TestMoveListSelfAnchorLeavesTreeIntact(t *testing.T) {
	r := testBoard(t)

	err := r.MoveList(models.CardList{ID: 3, Name: "Doing", PrevListID: 3})
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("MoveList = %v, want ErrAnchorNotFound", err)
	}
	if got := listOrder(r); !equalIDs(got, []int64{2, 3}) {
		t.Fatalf("tree changed on self-anchored move: %v", got)
	}
}

func TestRemoveCardReturnsSnapshotForRevert(t *testing.T) {
	r := testBoard(t)

	card, err := r.RemoveCard(11)
	if err != nil {
		t.Fatalf("RemoveCard: %v", err)
	}
	if card.Title != "beta" || card.PrevCardID != 10 {
		t.Fatalf("removed snapshot = %+v", card)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{10, 20}) {
		t.Fatalf("card order = %v, want [10 20]", got)
	}

	if err := r.InsertCard(card); err != nil {
		t.Fatalf("reinserting removed card: %v", err)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{10, 11, 20}) {
		t.Fatalf("card order after revert = %v", got)
	}
}

func TestMoveListReordersKeepingCards(t *testing.T) {
	r := testBoard(t)

	if err := r.MoveList(models.CardList{ID: 3, Name: "Doing", PrevListID: 0}); err != nil {
		t.Fatalf("MoveList: %v", err)
	}
	if got := listOrder(r); !equalIDs(got, []int64{3, 2}) {
		t.Fatalf("list order = %v, want [3 2]", got)
	}
	if got := r.CardIDs(); !equalIDs(got, []int64{20, 10, 11}) {
		t.Fatalf("cards did not follow their list: %v", got)
	}
}

func TestClearLabelBitRetiresSlotEverywhere(t *testing.T) {
	r := testBoard(t)
	card, _ := r.Card(10)
	card.LabelMask = card.LabelMask.Set(0).Set(1)
	if err := r.ReplaceCard(card); err != nil {
		t.Fatalf("ReplaceCard: %v", err)
	}

	r.ClearLabelBit(0)

	got, _ := r.Card(10)
	if got.LabelMask.Has(0) {
		t.Fatal("bit 0 still set after label deletion")
	}
	if !got.LabelMask.Has(1) {
		t.Fatal("bit 1 lost")
	}
	for _, label := range r.Labels() {
		if label.Index == 0 && !label.Deleted() {
			t.Fatal("slot 0 not marked deleted")
		}
	}
}

func TestDeletedSlotChipsNotRendered(t *testing.T) {
	theme := DefaultTheme()
	labels := []models.Label{
		{Index: 0, Name: "", Color: ""}, // deleted slot
		{Index: 1, Name: "chore", Color: "#3333AA"},
	}
	var mask models.LabelMask
	mask = mask.Set(0).Set(1) // stale bit for the deleted slot

	chips := theme.renderLabelChips(mask, labels)
	if !strings.Contains(chips, "chore") {
		t.Fatalf("live chip missing from %q", chips)
	}

	var deletedOnly models.LabelMask
	deletedOnly = deletedOnly.Set(0)
	if got := theme.renderLabelChips(deletedOnly, labels); got != "" {
		t.Fatalf("deleted slot rendered a chip: %q", got)
	}
}

func TestCoverLoadsOnceWhenVisible(t *testing.T) {
	watcher := NewViewportWatcher()
	r := NewReconciler(DefaultTheme(), watcher, CardHandlers{}, ListHandlers{})
	r.SetBoard(models.Board{ID: 1, Title: "b"}, nil,
		[]*models.CardList{{ID: 2, PrevListID: 0, Name: "l"}},
		[]*models.Card{{ID: 10, Title: "a", CardListID: 2, PrevCardID: 0, CoverURL: "https://img/x.png"}},
	)

	if !watcher.Observed(CardNodeID(10)) {
		t.Fatal("unloaded cover not observed")
	}

	r.View(ViewOptions{Width: 80, Height: 24})
	r.FlushVisible()

	if watcher.Observed(CardNodeID(10)) {
		t.Fatal("observation should be one-shot")
	}
	if !r.coverLoaded[10] {
		t.Fatal("cover not marked loaded")
	}

	// Rebuilding the node after load must not re-register it.
	card, _ := r.Card(10)
	if err := r.ReplaceCard(card); err != nil {
		t.Fatalf("ReplaceCard: %v", err)
	}
	if watcher.Observed(CardNodeID(10)) {
		t.Fatal("loaded cover re-observed after rebuild")
	}
}

func TestHitTestingSourcesAndTargets(t *testing.T) {
	r := testBoard(t)
	r.View(ViewOptions{Width: 80, Height: 24, ShowDeleteZone: true})

	listRect := r.rects[ListNodeID(2)]
	src, ok := r.SourceAt(listRect.x, listRect.y)
	if !ok || src.Kind != drag.SourceList || src.ListID != 2 || src.PrevID != 0 {
		t.Fatalf("list source = %+v ok=%v", src, ok)
	}

	cardRect := r.rects[CardNodeID(11)]
	src, ok = r.SourceAt(cardRect.x, cardRect.y)
	if !ok || src.Kind != drag.SourceCard || src.CardID != 11 || src.PrevID != 10 {
		t.Fatalf("card source = %+v ok=%v", src, ok)
	}

	tgt, ok := r.TargetAt(cardRect.x, cardRect.y)
	if !ok || tgt.Kind != drag.TargetCard || tgt.CardID != 11 || tgt.ListID != 2 {
		t.Fatalf("card target = %+v ok=%v", tgt, ok)
	}

	topRect := r.rects[NodeID{Kind: KindList, ID: -3}]
	tgt, ok = r.TargetAt(topRect.x, topRect.y)
	if !ok || tgt.Kind != drag.TargetListTop || tgt.ListID != 3 {
		t.Fatalf("list-top target = %+v ok=%v", tgt, ok)
	}
	if id, ok := r.ListTopAt(topRect.x, topRect.y); !ok || id != 3 {
		t.Fatalf("ListTopAt = %d ok=%v, want 3", id, ok)
	}

	tgt, ok = r.TargetAt(0, 5)
	if !ok || tgt.Kind != drag.TargetBoardStart {
		t.Fatalf("gutter target = %+v ok=%v", tgt, ok)
	}

	tgt, ok = r.TargetAt(40, 23)
	if !ok || tgt.Kind != drag.TargetDeleteZone {
		t.Fatalf("delete zone target = %+v ok=%v", tgt, ok)
	}
}

func TestLockedCardIsNotASource(t *testing.T) {
	r := testBoard(t)
	card, _ := r.Card(10)
	card.Locked = true
	if err := r.ReplaceCard(card); err != nil {
		t.Fatalf("ReplaceCard: %v", err)
	}
	r.View(ViewOptions{Width: 80, Height: 24})

	rc := r.rects[CardNodeID(10)]
	if _, ok := r.SourceAt(rc.x, rc.y); ok {
		t.Fatal("locked card should not start a drag")
	}
}

func TestClickAtOpensCard(t *testing.T) {
	var opened int64
	r := NewReconciler(DefaultTheme(), NewViewportWatcher(),
		CardHandlers{OnOpen: func(id int64) { opened = id }}, ListHandlers{})
	r.SetBoard(models.Board{ID: 1, Title: "b"}, nil,
		[]*models.CardList{{ID: 2, PrevListID: 0, Name: "l"}},
		[]*models.Card{{ID: 10, Title: "a", CardListID: 2, PrevCardID: 0}},
	)
	r.View(ViewOptions{Width: 80, Height: 24})

	rc := r.rects[CardNodeID(10)]
	if !r.ClickAt(rc.x, rc.y) {
		t.Fatal("click missed the card")
	}
	if opened != 10 {
		t.Fatalf("opened card %d, want 10", opened)
	}
}
