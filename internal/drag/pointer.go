package drag

import "time"

// PointerKind classifies raw pointer events.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

// PointerEvent is a raw press/move/release event from the input layer.
type PointerEvent struct {
	Kind PointerKind
	X, Y int
	At   time.Time
}

// HitMap resolves screen positions to drag sources and drop targets. The
// view layer implements it from the rectangles recorded during the last
// render.
type HitMap interface {
	// SourceAt returns the draggable element under the position, if any.
	SourceAt(x, y int) (Source, bool)
	// TargetAt returns the drop target under the position, if any.
	TargetAt(x, y int) (Target, bool)
}

// TranslatorConfig tunes the press-and-hold drag activation.
type TranslatorConfig struct {
	// HoldDelay is how long the pointer must stay pressed before movement
	// counts as a drag rather than a scroll or a tap.
	HoldDelay time.Duration
	// MoveThreshold is the minimum pointer travel (in cells, Chebyshev)
	// that distinguishes a drag from a wobbly click.
	MoveThreshold int
}

// DefaultTranslatorConfig matches the interactive feel of press-and-hold
// drag on touch platforms.
func DefaultTranslatorConfig() TranslatorConfig {
	return TranslatorConfig{
		HoldDelay:     150 * time.Millisecond,
		MoveThreshold: 2,
	}
}

// Translator maps raw pointer events onto the drag event vocabulary
// consumed by Session. Platforms without native drag events (touch, and the
// terminal mouse protocol used here) go through this one shared layer
// instead of synthesizing events per call site.
type Translator struct {
	hits HitMap
	cfg  TranslatorConfig

	pressed   bool
	pressAt   time.Time
	originX   int
	originY   int
	source    Source
	hasSource bool

	active  bool
	last    Target
	hasLast bool
}

// NewTranslator creates a translator resolving hits through the given map.
func NewTranslator(hits HitMap, cfg TranslatorConfig) *Translator {
	return &Translator{hits: hits, cfg: cfg}
}

// Active reports whether a translated drag is in progress.
func (t *Translator) Active() bool { return t.active }

// Translate consumes one pointer event and returns the drag events it
// expands into, in order.
func (t *Translator) Translate(ev PointerEvent) []Event {
	switch ev.Kind {
	case PointerPress:
		t.reset()
		src, ok := t.hits.SourceAt(ev.X, ev.Y)
		t.pressed = true
		t.pressAt = ev.At
		t.originX, t.originY = ev.X, ev.Y
		t.source, t.hasSource = src, ok
		return nil

	case PointerMove:
		return t.move(ev)

	case PointerRelease:
		return t.release(ev)
	}
	return nil
}

func (t *Translator) move(ev PointerEvent) []Event {
	if !t.pressed {
		return nil
	}

	if !t.active {
		if !t.hasSource {
			return nil
		}
		moved := chebyshev(ev.X-t.originX, ev.Y-t.originY) >= t.cfg.MoveThreshold
		if !moved {
			return nil
		}
		if ev.At.Sub(t.pressAt) < t.cfg.HoldDelay {
			// Movement before the hold delay elapsed is a scroll or a
			// flick, not a drag; give up on this press entirely.
			t.reset()
			return nil
		}
		t.active = true
		events := []Event{
			{Type: EventStart, Source: t.source},
			{Type: EventMove, X: ev.X, Y: ev.Y},
		}
		if target, ok := t.hits.TargetAt(ev.X, ev.Y); ok {
			t.last, t.hasLast = target, true
			events = append(events, Event{Type: EventEnter, Target: target})
		}
		return events
	}

	events := []Event{{Type: EventMove, X: ev.X, Y: ev.Y}}
	target, ok := t.hits.TargetAt(ev.X, ev.Y)
	switch {
	case ok && (!t.hasLast || target != t.last):
		if t.hasLast {
			events = append(events, Event{Type: EventLeave, Target: t.last, Related: target})
		}
		events = append(events, Event{Type: EventEnter, Target: target})
		t.last, t.hasLast = target, true
	case !ok && t.hasLast:
		events = append(events, Event{Type: EventLeave, Target: t.last})
		t.last, t.hasLast = Target{}, false
	}
	return events
}

func (t *Translator) release(ev PointerEvent) []Event {
	if !t.active {
		// A tap or click: nothing to translate, the shell handles it.
		t.reset()
		return nil
	}

	var events []Event
	if target, ok := t.hits.TargetAt(ev.X, ev.Y); ok {
		events = append(events, Event{Type: EventDrop, Target: target})
	}
	events = append(events, Event{Type: EventEnd})
	t.reset()
	return events
}

func (t *Translator) reset() {
	t.pressed = false
	t.hasSource = false
	t.source = Source{}
	t.active = false
	t.last = Target{}
	t.hasLast = false
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
