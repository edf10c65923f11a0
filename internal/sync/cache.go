package sync

import "corkboard/internal/models"

// OpenCardCache memoizes the last-fetched state of each card opened during
// this session. It serves two purposes: no-op diffing (an edit equal to the
// cached value skips the server round trip) and stale-but-available reads
// when the session is offline.
//
// The cache lives for the whole page session, has no eviction, and is
// overwritten per id whenever an authoritative response for that card
// arrives. It is owned by the session and mutated only from the event loop.
type OpenCardCache struct {
	cards map[int64]models.Card
}

// NewOpenCardCache creates an empty cache.
func NewOpenCardCache() *OpenCardCache {
	return &OpenCardCache{cards: make(map[int64]models.Card)}
}

// Get returns the cached state of a card, if it was ever fetched.
func (c *OpenCardCache) Get(id int64) (models.Card, bool) {
	card, ok := c.cards[id]
	return card, ok
}

// Put overwrites the cached state for the card's id.
func (c *OpenCardCache) Put(card models.Card) {
	c.cards[card.ID] = card
}

// TitleUnchanged reports whether the given title equals the cached one.
// Returns false for cards never cached: without a baseline the edit must be
// sent.
func (c *OpenCardCache) TitleUnchanged(id int64, title string) bool {
	card, ok := c.cards[id]
	return ok && card.Title == title
}

// ContentUnchanged reports whether the given content equals the cached one.
func (c *OpenCardCache) ContentUnchanged(id int64, content string) bool {
	card, ok := c.cards[id]
	return ok && card.Content == content
}
