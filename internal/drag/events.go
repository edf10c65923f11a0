// Package drag tracks the single in-flight drag operation: the dragged
// element, the current hover target, and drop-zone eligibility. The session
// consumes a small drag/drop event vocabulary and emits move/delete intents;
// it does not know where the events come from. Native-style drag events and
// translated pointer sequences (see Translator) feed the same machine.
package drag

// SourceKind says what kind of element is being dragged.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceCard
	SourceList
)

// Source is the element a drag started on, with enough origin context to
// detect no-op drops and to build reverts.
type Source struct {
	Kind   SourceKind
	CardID int64 // card drags only
	ListID int64 // origin list for card drags, the list itself for list drags
	PrevID int64 // predecessor id at drag start (0 = head)
	Label  string
}

// TargetKind classifies drop target regions.
type TargetKind int

const (
	TargetNone TargetKind = iota
	// TargetCard drops a card immediately after this card.
	TargetCard
	// TargetListTop drops a card at the head of this list.
	TargetListTop
	// TargetList drops a list immediately after this list.
	TargetList
	// TargetBoardStart drops a list at the head of the board.
	TargetBoardStart
	// TargetDeleteZone deletes the dragged element.
	TargetDeleteZone
)

// Target is a candidate drop position.
type Target struct {
	Kind   TargetKind
	ListID int64
	CardID int64
}

// Zero reports whether the target is unset.
func (t Target) Zero() bool { return t.Kind == TargetNone }

// Contains reports whether other lies inside this target's region. A list
// region contains its head zone and every card in it, which is what makes
// leave-event suppression work: leaving a list for one of its own cards is
// not a boundary exit.
func (t Target) Contains(other Target) bool {
	if t == other {
		return true
	}
	switch t.Kind {
	case TargetList, TargetListTop:
		switch other.Kind {
		case TargetCard, TargetListTop, TargetList:
			return other.ListID == t.ListID
		}
	}
	return false
}

// EventType enumerates the drag event vocabulary.
type EventType int

const (
	// EventStart begins a drag with Event.Source.
	EventStart EventType = iota
	// EventMove reports pointer movement at Event.X/Y.
	EventMove
	// EventEnter reports the pointer entering Event.Target.
	EventEnter
	// EventLeave reports a leave fired on Event.Target; Event.Related is
	// where the pointer went (zero when it left every target).
	EventLeave
	// EventDrop drops onto Event.Target.
	EventDrop
	// EventEnd always terminates the drag, dropped or not.
	EventEnd
)

// Event is one drag event.
type Event struct {
	Type    EventType
	Source  Source // EventStart
	Target  Target // EventEnter, EventLeave, EventDrop
	Related Target // EventLeave
	X, Y    int    // EventMove
}

// Intent is a mutation the session asks the caller to perform after a drop.
type Intent interface{ intent() }

// MoveCardIntent relocates a card. From fields describe the position at drag
// start, used to build the optimistic revert.
type MoveCardIntent struct {
	CardID     int64
	FromListID int64
	FromPrevID int64
	DestListID int64
	NewPrevID  int64
}

// MoveListIntent relocates a list within the board.
type MoveListIntent struct {
	ListID     int64
	FromPrevID int64
	NewPrevID  int64
}

// DeleteCardIntent deletes the dragged card (dropped on the delete zone).
type DeleteCardIntent struct {
	CardID int64
}

// DeleteListIntent deletes the dragged list (dropped on the delete zone).
type DeleteListIntent struct {
	ListID int64
}

func (MoveCardIntent) intent()   {}
func (MoveListIntent) intent()   {}
func (DeleteCardIntent) intent() {}
func (DeleteListIntent) intent() {}
