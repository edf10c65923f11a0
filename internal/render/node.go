// Package render materializes the visual tree for a board from entity state
// and keeps it reconciled with authoritative server responses. Nodes are
// rebuilt as a unit whenever their entity changes — remove-then-reinsert,
// never an in-place patch — so label chips, cover images, lock icons, and
// interaction handlers always derive from the same entity snapshot that
// produced the visible content.
package render

import (
	"errors"

	"corkboard/internal/models"
)

var (
	// ErrNodeNotFound means the tree has no node for the entity id.
	ErrNodeNotFound = errors.New("node not found in rendered tree")

	// ErrAnchorNotFound means a server response referenced a previous
	// element that is not in the tree; the operation is abandoned and the
	// error surfaced as a visible popup.
	ErrAnchorNotFound = errors.New("previous element not found in rendered tree")
)

// NodeKind classifies tree nodes.
type NodeKind int

const (
	KindBoard NodeKind = iota + 1
	KindList
	KindCard
	KindAttachment
)

// NodeID identifies a node by entity kind and id.
type NodeID struct {
	Kind NodeKind
	ID   int64
}

// CardNodeID returns the node id for a card.
func CardNodeID(id int64) NodeID { return NodeID{Kind: KindCard, ID: id} }

// ListNodeID returns the node id for a card list.
func ListNodeID(id int64) NodeID { return NodeID{Kind: KindList, ID: id} }

// AttachmentNodeID returns the node id for an attachment row.
func AttachmentNodeID(id int64) NodeID { return NodeID{Kind: KindAttachment, ID: id} }

// Node is one element of the visual tree. Card nodes hang under list nodes,
// list nodes under the board root. The render closure and click handler are
// wired at build time from the entity snapshot the node was built from.
type Node struct {
	ID       NodeID
	Children []*Node

	// card/list is the entity snapshot this node renders. Exactly one is
	// meaningful, per Kind.
	card models.Card
	list models.CardList

	// render produces the node's own view; highlight marks it as the
	// current drag target.
	render func(highlight bool) string

	// click is invoked when the node is clicked, already bound to the
	// entity it was built from.
	click func()
}

// Card returns the entity snapshot of a card node.
func (n *Node) Card() models.Card { return n.card }

// List returns the entity snapshot of a list node.
func (n *Node) List() models.CardList { return n.list }

// View renders the node's own content.
func (n *Node) View(highlight bool) string {
	if n.render == nil {
		return ""
	}
	return n.render(highlight)
}

// Click runs the node's click handler, if any.
func (n *Node) Click() {
	if n.click != nil {
		n.click()
	}
}
