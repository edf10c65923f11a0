package sync

import (
	"context"
	"errors"
	"testing"

	"corkboard/internal/models"
)

func TestStartAppliesOptimisticallyAndReconciles(t *testing.T) {
	q := NewQueue()

	shown := "old"
	resolver, err := q.Start(Mutation{
		Key: CardKey(1),
		Apply: func() (func(), error) {
			prev := shown
			shown = "optimistic"
			return func() { shown = prev }, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return "authoritative", nil
		},
		Reconcile: func(resp any) error {
			shown = resp.(string)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if shown != "optimistic" {
		t.Fatalf("optimistic change not applied, shown = %q", shown)
	}
	if !q.InFlight(CardKey(1)) {
		t.Fatal("mutation should be in flight")
	}

	if err := q.Resolve(resolver(context.Background())); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if shown != "authoritative" {
		t.Errorf("shown = %q, want authoritative state", shown)
	}
	if q.InFlight(CardKey(1)) {
		t.Error("mutation should no longer be in flight")
	}
}

func TestRequestFailureReverts(t *testing.T) {
	q := NewQueue()
	boom := errors.New("boom")

	shown := "old"
	resolver, err := q.Start(Mutation{
		Key: CardKey(2),
		Apply: func() (func(), error) {
			prev := shown
			shown = "optimistic"
			return func() { shown = prev }, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return nil, boom
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := q.Resolve(resolver(context.Background())); !errors.Is(err, boom) {
		t.Fatalf("Resolve error = %v, want boom", err)
	}
	if shown != "old" {
		t.Errorf("shown = %q, want optimistic change reverted", shown)
	}
	if q.InFlight(CardKey(2)) {
		t.Error("failed mutation must clear the in-flight flag")
	}
}

func TestDuplicateStartRejected(t *testing.T) {
	q := NewQueue()

	m := Mutation{
		Key:     CardKey(3),
		Apply:   func() (func(), error) { return nil, nil },
		Request: func(ctx context.Context) (any, error) { return nil, nil },
	}
	if _, err := q.Start(m); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	// A second trigger before resolution (double blur, repeated delete
	// keypress) must not produce a second request.
	if _, err := q.Start(m); !errors.Is(err, ErrInFlight) {
		t.Fatalf("second Start error = %v, want ErrInFlight", err)
	}

	// A different entity is unaffected.
	other := m
	other.Key = CardKey(4)
	if _, err := q.Start(other); err != nil {
		t.Fatalf("Start for other entity: %v", err)
	}
}

func TestNoopSuppression(t *testing.T) {
	q := NewQueue()

	applied := false
	requested := false
	_, err := q.Start(Mutation{
		Key:       CardKey(5),
		Unchanged: func() bool { return true },
		Apply: func() (func(), error) {
			applied = true
			return nil, nil
		},
		Request: func(ctx context.Context) (any, error) {
			requested = true
			return nil, nil
		},
	})
	if !errors.Is(err, ErrNoop) {
		t.Fatalf("Start error = %v, want ErrNoop", err)
	}
	if applied || requested {
		t.Error("a suppressed no-op must neither apply nor request")
	}
	if q.InFlight(CardKey(5)) {
		t.Error("a suppressed no-op must not be in flight")
	}
}

func TestReconcileFailureAbandonsWithoutRevert(t *testing.T) {
	q := NewQueue()

	reverted := false
	resolver, err := q.Start(Mutation{
		Key: CardKey(6),
		Apply: func() (func(), error) {
			return func() { reverted = true }, nil
		},
		Request: func(ctx context.Context) (any, error) { return nil, nil },
		Reconcile: func(resp any) error {
			return errors.New("previous card not found")
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := q.Resolve(resolver(context.Background())); err == nil {
		t.Fatal("expected reconcile error to surface")
	}
	if reverted {
		t.Error("a reconcile failure abandons the operation; it must not cascade into a revert")
	}
}

func TestResolveUnknownOutcomeIsIgnored(t *testing.T) {
	q := NewQueue()
	if err := q.Resolve(Outcome{Key: CardKey(9)}); err != nil {
		t.Fatalf("Resolve of unknown outcome: %v", err)
	}
}

func TestOpenCardCache(t *testing.T) {
	cache := NewOpenCardCache()

	if _, ok := cache.Get(1); ok {
		t.Fatal("empty cache should miss")
	}

	cache.Put(models.Card{ID: 1, Title: "t", Content: "c"})
	card, ok := cache.Get(1)
	if !ok || card.Title != "t" {
		t.Fatalf("Get = %+v, %v", card, ok)
	}

	if !cache.TitleUnchanged(1, "t") {
		t.Error("identical title must be reported unchanged")
	}
	if cache.TitleUnchanged(1, "t2") {
		t.Error("different title must not be reported unchanged")
	}
	if cache.TitleUnchanged(2, "t") {
		t.Error("uncached card has no baseline; edit must be sent")
	}
	if !cache.ContentUnchanged(1, "c") || cache.ContentUnchanged(1, "c2") {
		t.Error("content comparison against cache is wrong")
	}

	// Authoritative responses overwrite per id.
	cache.Put(models.Card{ID: 1, Title: "t2"})
	if card, _ := cache.Get(1); card.Title != "t2" {
		t.Errorf("cache not overwritten, title = %q", card.Title)
	}
}
