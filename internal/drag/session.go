package drag

// Phase is the session's position in its lifecycle:
// idle -> armed -> dragging -> dropped | cancelled -> idle.
type Phase int

const (
	// Idle means no drag is in progress.
	Idle Phase = iota
	// Armed means a drag started but the pointer has not moved enough to
	// count as dragging; the board's delete zone is already enabled.
	Armed
	// Dragging means the ghost follows the pointer and drop targets light up.
	Dragging
	// Dropped means the last drag ended on a valid target; cleared by EventEnd.
	Dropped
	// Cancelled means the last drag ended without a valid drop; cleared by
	// EventEnd.
	Cancelled
)

// Ghost is the floating drag image that tracks the pointer.
type Ghost struct {
	X, Y    int
	Label   string
	Visible bool
}

// Session is the single in-flight drag operation. One session per page
// session, constructed once and handed to whoever feeds it events; there is
// no package-level singleton.
type Session struct {
	phase    Phase
	source   Source
	hover    Target
	hasHover bool
	ghost    Ghost
}

// NewSession creates an idle drag session.
func NewSession() *Session {
	return &Session{}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Source returns the element being dragged. Only meaningful while the phase
// is Armed or Dragging.
func (s *Session) Source() Source { return s.source }

// Hover returns the current candidate drop target, used by the view to
// toggle the "drag target" visual state.
func (s *Session) Hover() (Target, bool) { return s.hover, s.hasHover }

// Ghost returns the floating drag image state.
func (s *Session) Ghost() Ghost { return s.ghost }

// DeleteZoneEnabled reports whether the drop-to-delete affordance is active.
func (s *Session) DeleteZoneEnabled() bool {
	return s.phase == Armed || s.phase == Dragging
}

// Handle feeds one event into the state machine and returns the intents the
// caller should execute. Intents are only ever produced by EventDrop.
func (s *Session) Handle(ev Event) []Intent {
	switch ev.Type {
	case EventStart:
		s.reset()
		s.phase = Armed
		s.source = ev.Source
		s.ghost = Ghost{Label: ev.Source.Label}

	case EventMove:
		if s.phase != Armed && s.phase != Dragging {
			return nil
		}
		s.phase = Dragging
		s.ghost.X, s.ghost.Y = ev.X, ev.Y
		s.ghost.Visible = true

	case EventEnter:
		if s.phase != Armed && s.phase != Dragging {
			return nil
		}
		s.phase = Dragging
		s.hover = ev.Target
		s.hasHover = true

	case EventLeave:
		if !s.hasHover || ev.Target != s.hover {
			return nil
		}
		// A leave whose related target is still inside the hovered region
		// is a child boundary, not a real exit.
		if s.hover.Contains(ev.Related) {
			return nil
		}
		s.hasHover = false
		s.hover = Target{}

	case EventDrop:
		return s.drop(ev)

	case EventEnd:
		s.reset()
	}
	return nil
}

// drop resolves the drop position and emits the matching intent. A drop on
// the element's current position is a no-op: the session returns to idle
// with no intents, and no request is ever issued.
func (s *Session) drop(ev Event) []Intent {
	if s.phase != Dragging {
		// Dropped without ever moving: a click, not a drag.
		s.phase = Cancelled
		return nil
	}

	target := ev.Target
	if target.Zero() && s.hasHover {
		target = s.hover
	}

	if target.Kind == TargetDeleteZone {
		s.phase = Dropped
		switch s.source.Kind {
		case SourceCard:
			return []Intent{DeleteCardIntent{CardID: s.source.CardID}}
		case SourceList:
			return []Intent{DeleteListIntent{ListID: s.source.ListID}}
		}
		s.phase = Cancelled
		return nil
	}

	switch s.source.Kind {
	case SourceCard:
		return s.dropCard(target)
	case SourceList:
		return s.dropList(target)
	}
	s.phase = Cancelled
	return nil
}

func (s *Session) dropCard(target Target) []Intent {
	var destList, newPrev int64
	switch target.Kind {
	case TargetCard:
		destList, newPrev = target.ListID, target.CardID
	case TargetListTop:
		destList, newPrev = target.ListID, 0
	default:
		s.phase = Cancelled
		return nil
	}

	// Dropping a card onto itself, or back onto the element directly above
	// its current position, changes nothing.
	if newPrev == s.source.CardID ||
		(destList == s.source.ListID && newPrev == s.source.PrevID) {
		s.phase = Idle
		return nil
	}

	s.phase = Dropped
	return []Intent{MoveCardIntent{
		CardID:     s.source.CardID,
		FromListID: s.source.ListID,
		FromPrevID: s.source.PrevID,
		DestListID: destList,
		NewPrevID:  newPrev,
	}}
}

func (s *Session) dropList(target Target) []Intent {
	var newPrev int64
	switch target.Kind {
	case TargetList:
		newPrev = target.ListID
	case TargetBoardStart:
		newPrev = 0
	default:
		s.phase = Cancelled
		return nil
	}

	if newPrev == s.source.ListID || newPrev == s.source.PrevID {
		s.phase = Idle
		return nil
	}

	s.phase = Dropped
	return []Intent{MoveListIntent{
		ListID:     s.source.ListID,
		FromPrevID: s.source.PrevID,
		NewPrevID:  newPrev,
	}}
}

func (s *Session) reset() {
	s.phase = Idle
	s.source = Source{}
	s.hover = Target{}
	s.hasHover = false
	s.ghost = Ghost{}
}
