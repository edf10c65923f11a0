package render

// ViewportWatcher defers work for off-screen nodes until they scroll into
// view. Cover images register a load callback when their card node is built;
// the first time the node intersects the viewport the callback fires and the
// registration is dropped (one-shot), so a cover is fetched exactly once no
// matter how often the card re-renders afterwards.
type ViewportWatcher struct {
	observers map[NodeID]func()
}

// NewViewportWatcher creates an empty watcher.
func NewViewportWatcher() *ViewportWatcher {
	return &ViewportWatcher{observers: make(map[NodeID]func())}
}

// Observe registers a one-shot callback for the node. Re-observing an id
// replaces the previous callback.
func (w *ViewportWatcher) Observe(id NodeID, fn func()) {
	w.observers[id] = fn
}

// Unobserve drops the registration for the node, if any.
func (w *ViewportWatcher) Unobserve(id NodeID) {
	delete(w.observers, id)
}

// Observed reports whether the node has a pending callback.
func (w *ViewportWatcher) Observed(id NodeID) bool {
	_, ok := w.observers[id]
	return ok
}

// Intersect fires and unregisters the callback of every visible node that
// has one.
func (w *ViewportWatcher) Intersect(visible []NodeID) {
	for _, id := range visible {
		if fn, ok := w.observers[id]; ok {
			delete(w.observers, id)
			fn()
		}
	}
}
