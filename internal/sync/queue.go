// Package sync serializes the "one user edit, one server confirmation, one
// UI patch" cycle. A mutation is applied optimistically, its request runs
// asynchronously, and the authoritative response either replaces the
// optimistic state or rolls it back. The UI never shows two conflicting
// representations of the same entity at once.
//
// All Queue methods are called from the UI event loop; only the Request
// function of a mutation runs on another goroutine, and it touches no shared
// state. Overlapping requests for different entities resolve in arrival
// order (last response wins) — an accepted weak-consistency trade-off for
// interactive single-user editing.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNoop is returned when no-op suppression determines the mutation
	// would not change anything; no request is issued.
	ErrNoop = errors.New("mutation is a no-op")

	// ErrInFlight is returned when the entity already has an unresolved
	// mutation. Rapid repeated triggers (double blur, double submit) are
	// rejected rather than duplicated.
	ErrInFlight = errors.New("mutation already in flight for entity")
)

// Key identifies the entity a mutation acts on.
type Key struct {
	Kind string
	ID   int64
}

func (k Key) String() string { return fmt.Sprintf("%s/%d", k.Kind, k.ID) }

// CardKey returns the mutation key for a card.
func CardKey(id int64) Key { return Key{Kind: "card", ID: id} }

// ListKey returns the mutation key for a card list.
func ListKey(id int64) Key { return Key{Kind: "cardlist", ID: id} }

// LabelKey returns the mutation key for a board label slot.
func LabelKey(index int) Key { return Key{Kind: "label", ID: int64(index)} }

// BoardKey returns the mutation key for board-level edits, e.g. creating a
// list or filling a label slot, where no entity id exists yet.
func BoardKey(id int64) Key { return Key{Kind: "board", ID: id} }

// Mutation describes one optimistic edit cycle.
type Mutation struct {
	Key Key

	// Unchanged, when non-nil and returning true, suppresses the entire
	// cycle: value edits that match the cached entity skip the network
	// round trip. Structural moves never set this.
	Unchanged func() bool

	// Apply performs the optimistic UI change and returns the closure that
	// undoes it.
	Apply func() (revert func(), err error)

	// Request performs the server call and returns the authoritative
	// response. It is the only part of the mutation that runs off the
	// event loop.
	Request func(ctx context.Context) (any, error)

	// Reconcile replaces the optimistic state with the authoritative
	// response (id-matched node rebuild, not an in-place patch).
	Reconcile func(resp any) error
}

// Outcome is the resolution of a mutation's request, delivered back to the
// event loop.
type Outcome struct {
	Key  Key
	Resp any
	Err  error
}

type entry struct {
	revert    func()
	reconcile func(any) error
}

// Queue tracks in-flight mutations, at most one per entity key.
type Queue struct {
	pending map[Key]*entry
}

// NewQueue creates an empty mutation queue.
func NewQueue() *Queue {
	return &Queue{pending: make(map[Key]*entry)}
}

// InFlight reports whether the entity has an unresolved mutation.
func (q *Queue) InFlight(k Key) bool {
	_, ok := q.pending[k]
	return ok
}

// Start applies the mutation optimistically and returns the resolver that
// performs the server request. The caller runs the resolver asynchronously
// and feeds its Outcome back into Resolve.
//
// Start fails with ErrNoop when suppression applies and ErrInFlight when the
// entity is already being mutated; in both cases nothing was changed.
func (q *Queue) Start(m Mutation) (func(ctx context.Context) Outcome, error) {
	if m.Unchanged != nil && m.Unchanged() {
		return nil, ErrNoop
	}
	if _, busy := q.pending[m.Key]; busy {
		return nil, ErrInFlight
	}

	revert, err := m.Apply()
	if err != nil {
		return nil, fmt.Errorf("applying optimistic mutation for %s: %w", m.Key, err)
	}
	q.pending[m.Key] = &entry{revert: revert, reconcile: m.Reconcile}

	key := m.Key
	request := m.Request
	return func(ctx context.Context) Outcome {
		resp, err := request(ctx)
		return Outcome{Key: key, Resp: resp, Err: err}
	}, nil
}

// Resolve finishes the cycle for an outcome: on success the authoritative
// response is reconciled into the UI; on failure the optimistic change is
// reverted and the error returned for display.
//
// A reconciliation failure (e.g. the response references an anchor that no
// longer exists) abandons the operation without touching unrelated state;
// the error is surfaced to the caller.
func (q *Queue) Resolve(o Outcome) error {
	e, ok := q.pending[o.Key]
	if !ok {
		slog.Warn("dropping outcome with no pending mutation", "key", o.Key.String())
		return nil
	}
	delete(q.pending, o.Key)

	if o.Err != nil {
		if e.revert != nil {
			e.revert()
		}
		return o.Err
	}
	if e.reconcile != nil {
		if err := e.reconcile(o.Resp); err != nil {
			return fmt.Errorf("reconciling %s: %w", o.Key, err)
		}
	}
	return nil
}
