package drag

import (
	"testing"
	"time"
)

// gridHits is a fixed hit map: a card source at (2,2) inside target card
// (list 1, card 5), another card target at (10,2), nothing elsewhere.
type gridHits struct{}

func (gridHits) SourceAt(x, y int) (Source, bool) {
	if x == 2 && y == 2 {
		return Source{Kind: SourceCard, CardID: 5, ListID: 1, PrevID: 0}, true
	}
	return Source{}, false
}

func (gridHits) TargetAt(x, y int) (Target, bool) {
	switch {
	case x < 6:
		return Target{Kind: TargetCard, ListID: 1, CardID: 5}, true
	case x < 14:
		return Target{Kind: TargetCard, ListID: 2, CardID: 9}, true
	}
	return Target{}, false
}

func testConfig() TranslatorConfig {
	return TranslatorConfig{HoldDelay: 100 * time.Millisecond, MoveThreshold: 2}
}

func at(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func TestPressAndHoldActivatesDrag(t *testing.T) {
	tr := NewTranslator(gridHits{}, testConfig())

	if evs := tr.Translate(PointerEvent{Kind: PointerPress, X: 2, Y: 2, At: at(0)}); evs != nil {
		t.Fatalf("press emitted %v", evs)
	}

	// Small wobble below the threshold: nothing yet.
	if evs := tr.Translate(PointerEvent{Kind: PointerMove, X: 3, Y: 2, At: at(150)}); evs != nil {
		t.Fatalf("sub-threshold move emitted %v", evs)
	}

	// Past the threshold after the hold delay: the drag starts.
	evs := tr.Translate(PointerEvent{Kind: PointerMove, X: 4, Y: 2, At: at(200)})
	got := types(evs)
	want := []EventType{EventStart, EventMove, EventEnter}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if evs[0].Source.CardID != 5 {
		t.Errorf("start source = %+v, want card 5", evs[0].Source)
	}
	if !tr.Active() {
		t.Error("translator should be active")
	}
}

func TestEarlyMovementIsScrollNotDrag(t *testing.T) {
	tr := NewTranslator(gridHits{}, testConfig())
	tr.Translate(PointerEvent{Kind: PointerPress, X: 2, Y: 2, At: at(0)})

	// Fast movement before the hold delay elapsed: a scroll. The press is
	// abandoned and later movement never starts a drag.
	if evs := tr.Translate(PointerEvent{Kind: PointerMove, X: 6, Y: 2, At: at(20)}); evs != nil {
		t.Fatalf("scroll emitted %v", evs)
	}
	if evs := tr.Translate(PointerEvent{Kind: PointerMove, X: 12, Y: 2, At: at(300)}); evs != nil {
		t.Fatalf("movement after abandoned press emitted %v", evs)
	}
	if tr.Active() {
		t.Error("translator must not be active after a scroll")
	}
}

func TestCrossingTargetsEmitsLeaveThenEnter(t *testing.T) {
	tr := NewTranslator(gridHits{}, testConfig())
	tr.Translate(PointerEvent{Kind: PointerPress, X: 2, Y: 2, At: at(0)})
	tr.Translate(PointerEvent{Kind: PointerMove, X: 4, Y: 2, At: at(200)})

	evs := tr.Translate(PointerEvent{Kind: PointerMove, X: 10, Y: 2, At: at(250)})
	got := types(evs)
	want := []EventType{EventMove, EventLeave, EventEnter}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}

	// The leave names the old target and where the pointer went.
	leave := evs[1]
	if leave.Target.CardID != 5 || leave.Related.CardID != 9 {
		t.Errorf("leave = %+v", leave)
	}
}

func TestReleaseEmitsDropAndEnd(t *testing.T) {
	tr := NewTranslator(gridHits{}, testConfig())
	tr.Translate(PointerEvent{Kind: PointerPress, X: 2, Y: 2, At: at(0)})
	tr.Translate(PointerEvent{Kind: PointerMove, X: 10, Y: 2, At: at(200)})

	evs := tr.Translate(PointerEvent{Kind: PointerRelease, X: 10, Y: 2, At: at(300)})
	got := types(evs)
	if len(got) != 2 || got[0] != EventDrop || got[1] != EventEnd {
		t.Fatalf("events = %v, want [Drop End]", got)
	}
	if evs[0].Target.CardID != 9 {
		t.Errorf("drop target = %+v, want card 9", evs[0].Target)
	}
	if tr.Active() {
		t.Error("translator should reset after release")
	}
}

func TestReleaseOutsideTargetsEndsWithoutDrop(t *testing.T) {
	tr := NewTranslator(gridHits{}, testConfig())
	tr.Translate(PointerEvent{Kind: PointerPress, X: 2, Y: 2, At: at(0)})
	tr.Translate(PointerEvent{Kind: PointerMove, X: 10, Y: 2, At: at(200)})

	evs := tr.Translate(PointerEvent{Kind: PointerRelease, X: 20, Y: 2, At: at(300)})
	got := types(evs)
	if len(got) != 1 || got[0] != EventEnd {
		t.Fatalf("events = %v, want [End]", got)
	}
}

func TestPlainClickTranslatesToNothing(t *testing.T) {
	tr := NewTranslator(gridHits{}, testConfig())
	tr.Translate(PointerEvent{Kind: PointerPress, X: 2, Y: 2, At: at(0)})

	evs := tr.Translate(PointerEvent{Kind: PointerRelease, X: 2, Y: 2, At: at(50)})
	if evs != nil {
		t.Fatalf("click emitted %v", evs)
	}
}

func TestLeavingAllTargetsEmitsBareLeave(t *testing.T) {
	tr := NewTranslator(gridHits{}, testConfig())
	tr.Translate(PointerEvent{Kind: PointerPress, X: 2, Y: 2, At: at(0)})
	tr.Translate(PointerEvent{Kind: PointerMove, X: 4, Y: 2, At: at(200)})

	evs := tr.Translate(PointerEvent{Kind: PointerMove, X: 20, Y: 2, At: at(250)})
	got := types(evs)
	if len(got) != 2 || got[0] != EventMove || got[1] != EventLeave {
		t.Fatalf("events = %v, want [Move Leave]", got)
	}
	if !evs[1].Related.Zero() {
		t.Errorf("related = %+v, want zero target", evs[1].Related)
	}
}
