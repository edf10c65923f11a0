package order

import (
	"errors"
	"testing"

	"corkboard/internal/models"
)

type elem struct {
	id   int64
	prev int64
}

func elemID(e elem) int64   { return e.id }
func elemPrev(e elem) int64 { return e.prev }

func collectIDs(t *testing.T, items []elem, pred func(elem) bool) []int64 {
	t.Helper()
	var ids []int64
	for e := range Iterate(items, elemID, elemPrev, pred) {
		ids = append(ids, e.id)
	}
	return ids
}

func TestIterateHeadToTail(t *testing.T) {
	// Deliberately out of storage order: 30 <- 10 <- 20.
	items := []elem{
		{id: 20, prev: 10},
		{id: 30, prev: 0},
		{id: 10, prev: 30},
	}

	got := collectIDs(t, items, nil)
	want := []int64{30, 10, 20}
	if len(got) != len(want) {
		t.Fatalf("yielded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("yielded %v, want %v", got, want)
		}
	}
}

func TestIterateSingleElement(t *testing.T) {
	got := collectIDs(t, []elem{{id: 7, prev: 0}}, nil)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("yielded %v, want [7]", got)
	}
}

func TestIterateEmpty(t *testing.T) {
	if got := collectIDs(t, nil, nil); got != nil {
		t.Fatalf("yielded %v, want nothing", got)
	}
}

func TestIterateWithPredicate(t *testing.T) {
	items := []elem{
		{id: 1, prev: 0},
		{id: 2, prev: 1},
		{id: 3, prev: 2},
	}

	got := collectIDs(t, items, func(e elem) bool { return e.id != 2 })
	want := []int64{1, 3}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("yielded %v, want %v", got, want)
	}
}

func TestIterateIsRestartable(t *testing.T) {
	items := []elem{
		{id: 1, prev: 0},
		{id: 2, prev: 1},
	}
	seq := Iterate(items, elemID, elemPrev, nil)

	for run := 0; run < 2; run++ {
		n := 0
		for range seq {
			n++
		}
		if n != 2 {
			t.Fatalf("run %d yielded %d elements, want 2", run, n)
		}
	}
}

func TestIterateEarlyBreak(t *testing.T) {
	items := []elem{
		{id: 1, prev: 0},
		{id: 2, prev: 1},
		{id: 3, prev: 2},
	}

	n := 0
	for range Iterate(items, elemID, elemPrev, nil) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("yielded %d elements after break, want 1", n)
	}
}

func TestMalformedSequencesTerminate(t *testing.T) {
	tests := []struct {
		name  string
		items []elem
	}{
		{"no head", []elem{{id: 1, prev: 2}, {id: 2, prev: 1}}},
		{"multiple heads", []elem{{id: 1, prev: 0}, {id: 2, prev: 0}}},
		{"fork", []elem{{id: 1, prev: 0}, {id: 2, prev: 1}, {id: 3, prev: 1}}},
		{"dangling prev", []elem{{id: 1, prev: 0}, {id: 2, prev: 99}}},
		{"detached cycle", []elem{{id: 1, prev: 0}, {id: 2, prev: 3}, {id: 3, prev: 2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Iteration may yield a prefix but must never exceed the
			// indexed element count, and must terminate.
			got := collectIDs(t, tc.items, nil)
			if len(got) > len(tc.items) {
				t.Fatalf("yielded %d elements from %d indexed", len(got), len(tc.items))
			}

			if _, err := Collect(tc.items, elemID, elemPrev); !errors.Is(err, ErrCorruptSequence) {
				t.Fatalf("Collect error = %v, want ErrCorruptSequence", err)
			}
		})
	}
}

func TestCollectOrdersCards(t *testing.T) {
	// The same traversal serves cards-within-list.
	cards := []*models.Card{
		{ID: 7, CardListID: 4, PrevCardID: 0},
		{ID: 10, CardListID: 4, PrevCardID: 7},
	}

	got, err := Collect(cards,
		func(c *models.Card) int64 { return c.ID },
		func(c *models.Card) int64 { return c.PrevCardID })
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 || got[0].ID != 7 || got[1].ID != 10 {
		t.Fatalf("got order %v", []int64{got[0].ID, got[1].ID})
	}
}

func TestIndex(t *testing.T) {
	lists := []*models.CardList{
		{ID: 1, PrevListID: 0},
		{ID: 2, PrevListID: 1},
	}
	idx := Index(lists, func(l *models.CardList) int64 { return l.ID })
	if len(idx) != 2 {
		t.Fatalf("indexed %d elements, want 2", len(idx))
	}
	if idx[2].PrevListID != 1 {
		t.Fatalf("index lookup returned wrong element: %+v", idx[2])
	}
}
