package render

import (
	"fmt"
	"log/slog"

	"corkboard/internal/models"
	"corkboard/internal/order"
)

// CardHandlers are the interaction handlers wired into card nodes at build
// time. Registration is explicit and takes typed entity references; nodes
// never rely on captured mutable state.
type CardHandlers struct {
	OnOpen func(cardID int64)
}

// ListHandlers are the interaction handlers wired into list nodes.
type ListHandlers struct {
	OnRename func(listID int64)
}

// Reconciler owns the visual tree for one board session. It is constructed
// once per page session and threaded through explicitly; there is no
// module-level tree.
type Reconciler struct {
	theme   Theme
	watcher *ViewportWatcher

	cardHandlers CardHandlers
	listHandlers ListHandlers

	board  models.Board
	labels []models.Label
	root   []*Node // list nodes, head to tail

	// coverLoaded survives node rebuilds: once a cover scrolled into view
	// and was assigned its source, re-renders keep showing it.
	coverLoaded map[int64]bool

	// layout bookkeeping from the last View, used for hit testing and
	// viewport intersection.
	rects        map[NodeID]rect
	visibleCards []NodeID
	lastOpts     ViewOptions
}

// NewReconciler creates an empty reconciler.
func NewReconciler(theme Theme, watcher *ViewportWatcher, cards CardHandlers, lists ListHandlers) *Reconciler {
	return &Reconciler{
		theme:        theme,
		watcher:      watcher,
		cardHandlers: cards,
		listHandlers: lists,
		coverLoaded:  make(map[int64]bool),
		rects:        make(map[NodeID]rect),
	}
}

// SetBoard rebuilds the whole tree from a board snapshot. List and card
// ordering is reconstructed by following the prev pointers; a corrupt
// sequence yields the readable prefix (the corruption itself is logged by
// the traversal).
func (r *Reconciler) SetBoard(board models.Board, labels []models.Label, lists []*models.CardList, cards []*models.Card) {
	r.board = board
	r.labels = labels
	r.root = nil

	byList := make(map[int64][]*models.Card)
	for _, c := range cards {
		byList[c.CardListID] = append(byList[c.CardListID], c)
	}

	for list := range order.Iterate(lists,
		func(l *models.CardList) int64 { return l.ID },
		func(l *models.CardList) int64 { return l.PrevListID }, nil) {
		node := r.buildList(*list)
		for card := range order.Iterate(byList[list.ID],
			func(c *models.Card) int64 { return c.ID },
			func(c *models.Card) int64 { return c.PrevCardID }, nil) {
			node.Children = append(node.Children, r.buildCard(*card))
		}
		r.root = append(r.root, node)
	}
}

// Board returns the board entity of the current tree.
func (r *Reconciler) Board() models.Board { return r.board }

// Labels returns the board's label slots.
func (r *Reconciler) Labels() []models.Label { return r.labels }

// Lists returns the list nodes head to tail.
func (r *Reconciler) Lists() []*Node { return r.root }

// buildCard builds a card node as a unit: view and handlers both derive
// from the given snapshot. A card with a not-yet-loaded cover registers a
// one-shot load with the viewport watcher.
func (r *Reconciler) buildCard(card models.Card) *Node {
	id := CardNodeID(card.ID)
	n := &Node{ID: id, card: card}

	loaded := r.coverLoaded[card.ID]
	n.render = func(highlight bool) string {
		return r.theme.cardStyle(highlight).Render(
			r.theme.renderCardBody(card, r.labels, loaded))
	}
	if onOpen := r.cardHandlers.OnOpen; onOpen != nil {
		cardID := card.ID
		n.click = func() { onOpen(cardID) }
	}

	if card.CoverURL != "" && !loaded {
		r.watcher.Observe(id, func() { r.loadCover(card.ID) })
	} else {
		r.watcher.Unobserve(id)
	}
	return n
}

func (r *Reconciler) buildList(list models.CardList) *Node {
	n := &Node{ID: ListNodeID(list.ID), list: list}
	n.render = func(highlight bool) string {
		return r.theme.listHeaderStyle(highlight).Render(list.Name)
	}
	if onRename := r.listHandlers.OnRename; onRename != nil {
		listID := list.ID
		n.click = func() { onRename(listID) }
	}
	return n
}

// LoadCard builds a standalone card node from entity state. Exposed to the
// page layer for rendering outside the board tree (e.g. search results).
func (r *Reconciler) LoadCard(card models.Card) *Node {
	return r.buildCard(card)
}

// LoadCardList builds a standalone list node with its cards in the order
// given by their prev pointers.
func (r *Reconciler) LoadCardList(list models.CardList, cards []*models.Card) *Node {
	n := r.buildList(list)
	for card := range order.Iterate(cards,
		func(c *models.Card) int64 { return c.ID },
		func(c *models.Card) int64 { return c.PrevCardID }, nil) {
		n.Children = append(n.Children, r.buildCard(*card))
	}
	return n
}

// LoadOpenCardAttachment builds the open-card view row for an attachment.
func (r *Reconciler) LoadOpenCardAttachment(att models.Attachment) *Node {
	n := &Node{ID: AttachmentNodeID(att.ID)}
	n.render = func(bool) string { return r.theme.renderAttachmentRow(att) }
	return n
}

// loadCover assigns the cover its source after the card scrolled into view,
// then rebuilds the node so the next frame shows it.
func (r *Reconciler) loadCover(cardID int64) {
	r.coverLoaded[cardID] = true
	if card, ok := r.Card(cardID); ok {
		if err := r.ReplaceCard(card); err != nil {
			slog.Warn("rebuilding card after cover load", "card", cardID, "error", err)
		}
	}
}

// Card returns the entity snapshot currently rendered for the card.
func (r *Reconciler) Card(id int64) (models.Card, bool) {
	if _, _, n := r.findCard(id); n != nil {
		return n.card, true
	}
	return models.Card{}, false
}

// CardIDs returns the ids of all rendered cards, list by list.
func (r *Reconciler) CardIDs() []int64 {
	var ids []int64
	for _, list := range r.root {
		for _, c := range list.Children {
			ids = append(ids, c.card.ID)
		}
	}
	return ids
}

func (r *Reconciler) findList(id int64) (int, *Node) {
	for i, n := range r.root {
		if n.list.ID == id {
			return i, n
		}
	}
	return -1, nil
}

func (r *Reconciler) findCard(id int64) (listIdx, cardIdx int, n *Node) {
	for li, list := range r.root {
		for ci, c := range list.Children {
			if c.card.ID == id {
				return li, ci, c
			}
		}
	}
	return -1, -1, nil
}

// ReplaceCard swaps the card's node for one rebuilt from the given entity,
// id-matched, at the same position. The old node is dropped entirely so no
// stale handler survives.
func (r *Reconciler) ReplaceCard(card models.Card) error {
	li, ci, n := r.findCard(card.ID)
	if n == nil {
		return fmt.Errorf("card %d: %w", card.ID, ErrNodeNotFound)
	}
	r.root[li].Children[ci] = r.buildCard(card)
	return nil
}

// InsertCard inserts a node for the card into its list after PrevCardID
// (0 = head). The tree is untouched on failure.
func (r *Reconciler) InsertCard(card models.Card) error {
	_, list := r.findList(card.CardListID)
	if list == nil {
		return fmt.Errorf("list %d: %w", card.CardListID, ErrNodeNotFound)
	}
	at := 0
	if card.PrevCardID != 0 {
		found := false
		for i, sibling := range list.Children {
			if sibling.card.ID == card.PrevCardID {
				at, found = i+1, true
				break
			}
		}
		if !found {
			return fmt.Errorf("card %d after %d: %w", card.ID, card.PrevCardID, ErrAnchorNotFound)
		}
	}
	node := r.buildCard(card)
	list.Children = append(list.Children, nil)
	copy(list.Children[at+1:], list.Children[at:])
	list.Children[at] = node
	return nil
}

// RemoveCard removes the card's node and returns the entity it rendered,
// which callers keep for building reverts.
func (r *Reconciler) RemoveCard(id int64) (models.Card, error) {
	li, ci, n := r.findCard(id)
	if n == nil {
		return models.Card{}, fmt.Errorf("card %d: %w", id, ErrNodeNotFound)
	}
	list := r.root[li]
	list.Children = append(list.Children[:ci], list.Children[ci+1:]...)
	r.watcher.Unobserve(n.ID)
	return n.card, nil
}

// MoveCard relocates the card's node to the destination in the given
// entity: remove from its current position, reinsert after PrevCardID in
// CardListID. The destination is validated before anything is removed, so a
// bad anchor leaves the tree untouched. A card anchored to itself is always
// malformed; catching it here stops a remove whose reinsert can never
// succeed.
func (r *Reconciler) MoveCard(card models.Card) error {
	if card.PrevCardID == card.ID {
		return fmt.Errorf("card %d after itself: %w", card.ID, ErrAnchorNotFound)
	}
	if _, list := r.findList(card.CardListID); list == nil {
		return fmt.Errorf("list %d: %w", card.CardListID, ErrNodeNotFound)
	} else if card.PrevCardID != 0 {
		found := false
		for _, sibling := range list.Children {
			if sibling.card.ID == card.PrevCardID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("card %d after %d: %w", card.ID, card.PrevCardID, ErrAnchorNotFound)
		}
	}

	if _, err := r.RemoveCard(card.ID); err != nil {
		return err
	}
	return r.InsertCard(card)
}

// ReplaceList swaps the list's header node for one rebuilt from the entity,
// keeping its card children.
func (r *Reconciler) ReplaceList(list models.CardList) error {
	i, n := r.findList(list.ID)
	if n == nil {
		return fmt.Errorf("list %d: %w", list.ID, ErrNodeNotFound)
	}
	rebuilt := r.buildList(list)
	rebuilt.Children = n.Children
	r.root[i] = rebuilt
	return nil
}

// InsertList inserts a node for the list after PrevListID (0 = board head).
func (r *Reconciler) InsertList(list models.CardList) error {
	return r.insertListNode(r.buildList(list), list.PrevListID)
}

func (r *Reconciler) insertListNode(node *Node, prevID int64) error {
	at := 0
	if prevID != 0 {
		i, prev := r.findList(prevID)
		if prev == nil {
			return fmt.Errorf("list %d after %d: %w", node.list.ID, prevID, ErrAnchorNotFound)
		}
		at = i + 1
	}
	r.root = append(r.root, nil)
	copy(r.root[at+1:], r.root[at:])
	r.root[at] = node
	return nil
}

// RemoveList removes the list's node (with its cards) and returns the
// entity it rendered.
func (r *Reconciler) RemoveList(id int64) (models.CardList, error) {
	i, n := r.findList(id)
	if n == nil {
		return models.CardList{}, fmt.Errorf("list %d: %w", id, ErrNodeNotFound)
	}
	for _, c := range n.Children {
		r.watcher.Unobserve(c.ID)
	}
	r.root = append(r.root[:i], r.root[i+1:]...)
	return n.list, nil
}

// MoveList relocates the list's node after PrevListID, keeping its cards.
// The anchor is validated before removal; a self-anchored list is rejected
// outright for the same reason as in MoveCard.
func (r *Reconciler) MoveList(list models.CardList) error {
	if list.PrevListID == list.ID {
		return fmt.Errorf("list %d after itself: %w", list.ID, ErrAnchorNotFound)
	}
	if list.PrevListID != 0 {
		if _, prev := r.findList(list.PrevListID); prev == nil {
			return fmt.Errorf("list %d after %d: %w", list.ID, list.PrevListID, ErrAnchorNotFound)
		}
	}

	i, n := r.findList(list.ID)
	if n == nil {
		return fmt.Errorf("list %d: %w", list.ID, ErrNodeNotFound)
	}
	r.root = append(r.root[:i], r.root[i+1:]...)

	rebuilt := r.buildList(list)
	rebuilt.Children = n.Children
	return r.insertListNode(rebuilt, list.PrevListID)
}

// SetLabels replaces the board's label slots and rebuilds every card node,
// so chips always reflect the slots they were rendered against.
func (r *Reconciler) SetLabels(labels []models.Label) {
	r.labels = labels
	r.rebuildAllCards()
}

// ClearLabelBit reflects a board-wide label deletion: the slot's bit is
// cleared on every rendered card and the slot marked deleted.
func (r *Reconciler) ClearLabelBit(index int) {
	for i := range r.labels {
		if r.labels[i].Index == index {
			r.labels[i].Name = ""
			r.labels[i].Color = ""
		}
	}
	for _, list := range r.root {
		for ci, c := range list.Children {
			card := c.card
			card.LabelMask = card.LabelMask.Clear(index)
			list.Children[ci] = r.buildCard(card)
		}
	}
}

func (r *Reconciler) rebuildAllCards() {
	for _, list := range r.root {
		for ci, c := range list.Children {
			list.Children[ci] = r.buildCard(c.card)
		}
	}
}
