// Package order provides the linked-sequence abstraction used for both
// card lists within a board and cards within a list. Elements carry an id
// and a previous-element pointer; the head of a sequence has prev == 0.
// The same traversal, parameterized by accessor functions, applies to every
// ordered entity in the application.
package order

import (
	"errors"
	"iter"
	"log/slog"
)

// ErrCorruptSequence indicates that a set of elements does not form exactly
// one acyclic singly linked sequence: no head, more than one element sharing
// a predecessor, a cycle, or elements unreachable from the head.
var ErrCorruptSequence = errors.New("linked sequence is corrupt")

// Index builds an id -> element lookup for the given elements.
func Index[T any](items []T, id func(T) int64) map[int64]T {
	m := make(map[int64]T, len(items))
	for _, it := range items {
		m[id(it)] = it
	}
	return m
}

// Iterate returns a lazy, restartable sequence of elements in head-to-tail
// order. The head is the element whose prev accessor returns 0; successors
// are resolved by inverting the prev pointers. If pred is non-nil, only
// elements satisfying it are yielded (the chain is still followed through
// filtered-out elements).
//
// Malformed inputs never cause an infinite loop: the traversal can never
// visit more elements than were indexed, and any structural problem halts
// iteration and is logged rather than raised. Callers that need the error
// use Collect instead.
func Iterate[T any](items []T, id, prev func(T) int64, pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		walk(items, id, prev, func(it T) bool {
			if pred != nil && !pred(it) {
				return true
			}
			return yield(it)
		})
	}
}

// Collect returns the elements in head-to-tail order, or ErrCorruptSequence
// if they do not form a single well-formed chain.
func Collect[T any](items []T, id, prev func(T) int64) ([]T, error) {
	out := make([]T, 0, len(items))
	if err := walk(items, id, prev, func(it T) bool {
		out = append(out, it)
		return true
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// walk follows the chain from the head, calling visit for each element until
// visit returns false or the chain ends. It returns ErrCorruptSequence (and
// logs) on any structural problem, stopping at the point of corruption.
func walk[T any](items []T, id, prev func(T) int64, visit func(T) bool) error {
	if len(items) == 0 {
		return nil
	}

	index := Index(items, id)

	// Invert the prev pointers into a successor map. Two elements claiming
	// the same predecessor means the chain forks.
	next := make(map[int64]int64, len(items))
	for _, it := range items {
		p := prev(it)
		if other, dup := next[p]; dup {
			return corrupt("fork", "prev", p, "ids", []int64{other, id(it)})
		}
		next[p] = id(it)
	}

	headID, ok := next[0]
	if !ok {
		return corrupt("no head", "count", len(items))
	}

	visited := 0
	for cur := headID; cur != 0; cur = next[cur] {
		it, ok := index[cur]
		if !ok {
			// A successor pointer that does not resolve to an indexed
			// element: stop here rather than walking into nothing.
			return corrupt("dangling pointer", "id", cur)
		}
		if visited++; visited > len(items) {
			return corrupt("cycle", "count", len(items))
		}
		if !visit(it) {
			return nil
		}
	}

	if visited < len(items) {
		// The chain terminated cleanly but left elements behind, which
		// means their prev pointers reference ids outside the chain.
		return corrupt("unreachable elements", "visited", visited, "count", len(items))
	}
	return nil
}

func corrupt(kind string, args ...any) error {
	slog.Warn("linked sequence corruption detected, halting iteration",
		append([]any{"kind", kind}, args...)...)
	return ErrCorruptSequence
}
