package drag

import "testing"

func startCardDrag(t *testing.T, s *Session) {
	t.Helper()
	s.Handle(Event{Type: EventStart, Source: Source{
		Kind: SourceCard, CardID: 10, ListID: 3, PrevID: 5, Label: "card 10",
	}})
	s.Handle(Event{Type: EventMove, X: 4, Y: 4})
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	if s.Phase() != Idle {
		t.Fatalf("new session phase = %v, want Idle", s.Phase())
	}
	if s.DeleteZoneEnabled() {
		t.Fatal("delete zone must be disabled while idle")
	}

	s.Handle(Event{Type: EventStart, Source: Source{Kind: SourceCard, CardID: 1, ListID: 2}})
	if s.Phase() != Armed {
		t.Fatalf("phase after start = %v, want Armed", s.Phase())
	}
	if !s.DeleteZoneEnabled() {
		t.Fatal("arming must enable the delete zone")
	}

	s.Handle(Event{Type: EventMove, X: 1, Y: 1})
	if s.Phase() != Dragging {
		t.Fatalf("phase after move = %v, want Dragging", s.Phase())
	}
	if g := s.Ghost(); !g.Visible || g.X != 1 || g.Y != 1 {
		t.Errorf("ghost = %+v, want visible at (1,1)", g)
	}

	s.Handle(Event{Type: EventEnd})
	if s.Phase() != Idle {
		t.Fatalf("phase after end = %v, want Idle", s.Phase())
	}
}

func TestDropOnCardEmitsMoveIntent(t *testing.T) {
	s := NewSession()
	startCardDrag(t, s)

	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetCard, ListID: 4, CardID: 7}})
	if len(intents) != 1 {
		t.Fatalf("got %d intents, want 1", len(intents))
	}
	move, ok := intents[0].(MoveCardIntent)
	if !ok {
		t.Fatalf("intent = %T, want MoveCardIntent", intents[0])
	}
	want := MoveCardIntent{CardID: 10, FromListID: 3, FromPrevID: 5, DestListID: 4, NewPrevID: 7}
	if move != want {
		t.Errorf("intent = %+v, want %+v", move, want)
	}
	if s.Phase() != Dropped {
		t.Errorf("phase = %v, want Dropped", s.Phase())
	}
}

func TestDropAtListTopUsesZeroPrev(t *testing.T) {
	s := NewSession()
	startCardDrag(t, s)

	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetListTop, ListID: 4}})
	move := intents[0].(MoveCardIntent)
	if move.NewPrevID != 0 || move.DestListID != 4 {
		t.Errorf("intent = %+v, want prev 0 in list 4", move)
	}
}

func TestDropOnCurrentPositionIsNoop(t *testing.T) {
	s := NewSession()
	startCardDrag(t, s) // card 10 in list 3, prev 5

	// Dropping back onto card 5 (its current predecessor) in its own list
	// changes nothing: no intents, no request, straight back to idle.
	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetCard, ListID: 3, CardID: 5}})
	if len(intents) != 0 {
		t.Fatalf("no-op drop produced intents: %v", intents)
	}
	if s.Phase() != Idle {
		t.Errorf("phase = %v, want Idle after no-op", s.Phase())
	}
}

func TestDropOnSelfIsNoop(t *testing.T) {
	s := NewSession()
	startCardDrag(t, s)

	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetCard, ListID: 3, CardID: 10}})
	if len(intents) != 0 || s.Phase() != Idle {
		t.Errorf("dropping a card on itself must be a no-op, got %v (phase %v)", intents, s.Phase())
	}
}

func TestDropOnDeleteZone(t *testing.T) {
	s := NewSession()
	startCardDrag(t, s)

	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetDeleteZone}})
	if len(intents) != 1 {
		t.Fatalf("got %d intents, want 1", len(intents))
	}
	if del, ok := intents[0].(DeleteCardIntent); !ok || del.CardID != 10 {
		t.Errorf("intent = %+v, want DeleteCardIntent{10}", intents[0])
	}
}

func TestDropWithoutDraggingIsCancelled(t *testing.T) {
	s := NewSession()
	s.Handle(Event{Type: EventStart, Source: Source{Kind: SourceCard, CardID: 1, ListID: 2}})

	// Armed but never moved: this was a click.
	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetCard, ListID: 2, CardID: 9}})
	if len(intents) != 0 || s.Phase() != Cancelled {
		t.Errorf("got %v (phase %v), want no intents and Cancelled", intents, s.Phase())
	}

	s.Handle(Event{Type: EventEnd})
	if s.Phase() != Idle {
		t.Errorf("phase = %v, want Idle", s.Phase())
	}
}

func TestLeaveForContainedChildIsSuppressed(t *testing.T) {
	s := NewSession()
	startCardDrag(t, s)

	listTarget := Target{Kind: TargetList, ListID: 4}
	s.Handle(Event{Type: EventEnter, Target: listTarget})

	// Leave fired on the list while the pointer moved onto one of its own
	// cards: still contained, the hover state must survive.
	s.Handle(Event{
		Type:    EventLeave,
		Target:  listTarget,
		Related: Target{Kind: TargetCard, ListID: 4, CardID: 7},
	})
	if hover, ok := s.Hover(); !ok || hover != listTarget {
		t.Fatalf("hover = %+v (ok=%v), want suppressed leave to keep %+v", hover, ok, listTarget)
	}

	// A leave toward a target outside the list is a true boundary exit.
	s.Handle(Event{
		Type:    EventLeave,
		Target:  listTarget,
		Related: Target{Kind: TargetCard, ListID: 9, CardID: 1},
	})
	if _, ok := s.Hover(); ok {
		t.Fatal("hover should clear on a true boundary exit")
	}
}

func TestListDragToBoardStart(t *testing.T) {
	s := NewSession()
	s.Handle(Event{Type: EventStart, Source: Source{Kind: SourceList, ListID: 2, PrevID: 1, Label: "L2"}})
	s.Handle(Event{Type: EventMove, X: 0, Y: 0})

	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetBoardStart}})
	move, ok := intents[0].(MoveListIntent)
	if !ok {
		t.Fatalf("intent = %T, want MoveListIntent", intents[0])
	}
	want := MoveListIntent{ListID: 2, FromPrevID: 1, NewPrevID: 0}
	if move != want {
		t.Errorf("intent = %+v, want %+v", move, want)
	}
}

func TestListDropOnCurrentPredecessorIsNoop(t *testing.T) {
	s := NewSession()
	s.Handle(Event{Type: EventStart, Source: Source{Kind: SourceList, ListID: 2, PrevID: 1}})
	s.Handle(Event{Type: EventMove, X: 0, Y: 0})

	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetList, ListID: 1}})
	if len(intents) != 0 || s.Phase() != Idle {
		t.Errorf("got %v (phase %v), want no-op", intents, s.Phase())
	}
}

func TestDropOnInvalidTargetCancels(t *testing.T) {
	s := NewSession()
	startCardDrag(t, s)

	// A card cannot drop onto a list-reorder target.
	intents := s.Handle(Event{Type: EventDrop, Target: Target{Kind: TargetBoardStart}})
	if len(intents) != 0 || s.Phase() != Cancelled {
		t.Errorf("got %v (phase %v), want cancellation", intents, s.Phase())
	}
}
