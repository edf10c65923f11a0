package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"corkboard/internal/drag"
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// ViewOptions parameterize one frame.
type ViewOptions struct {
	Width  int
	Height int

	// Hover is the current drag target, highlighted in place.
	Hover drag.Target
	// ShowDeleteZone renders the drop-to-delete footer (drag armed).
	ShowDeleteZone bool
}

// View renders the board and records the rectangle of every node for hit
// testing and viewport intersection. Rendering mutates no tree state;
// deferred cover loads are flushed separately via FlushVisible.
func (r *Reconciler) View(opts ViewOptions) string {
	r.rects = make(map[NodeID]rect)
	r.visibleCards = r.visibleCards[:0]
	r.lastOpts = opts

	title := lipgloss.NewStyle().Bold(true).Render(" " + r.board.Title)

	bodyHeight := opts.Height - boardTopRows
	if opts.ShowDeleteZone {
		bodyHeight--
	}

	var columns []string
	for i, list := range r.root {
		x := gutterWidth + i*(ListWidth+listGap)
		columns = append(columns, r.viewList(list, x, bodyHeight, opts))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	gutter := strings.Repeat(" ", gutterWidth)
	lines := []string{title}
	for _, row := range strings.Split(board, "\n") {
		lines = append(lines, gutter+row)
	}
	out := strings.Join(lines, "\n")

	if opts.ShowDeleteZone {
		zoneY := opts.Height - 1
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(r.theme.DangerBg)).
			Width(max(opts.Width, 1)).
			Align(lipgloss.Center)
		label := "✕ drop here to delete"
		if opts.Hover.Kind == drag.TargetDeleteZone {
			style = style.Bold(true)
		}
		out = padToHeight(out, zoneY) + "\n" + style.Render(label)
		r.rects[NodeID{Kind: KindBoard, ID: -1}] = rect{x: 0, y: zoneY, w: max(opts.Width, 1), h: 1}
	}

	return out
}

// viewList renders one list column and records its rects. The header row is
// the list-reorder target, the row under it the drop-at-top target.
func (r *Reconciler) viewList(list *Node, x, bodyHeight int, opts ViewOptions) string {
	listHover := opts.Hover.Kind == drag.TargetList && opts.Hover.ListID == list.list.ID
	topHover := opts.Hover.Kind == drag.TargetListTop && opts.Hover.ListID == list.list.ID

	header := list.View(listHover)
	topZone := lipgloss.NewStyle().Width(ListWidth).Render("")
	if topHover {
		topZone = r.theme.subtleStyle().Width(ListWidth).Render("┄ drop at top")
	}

	y := boardTopRows
	r.rects[list.ID] = rect{x: x, y: y, w: ListWidth, h: 1}
	topID := NodeID{Kind: KindList, ID: -list.list.ID}
	r.rects[topID] = rect{x: x, y: y + 1, w: ListWidth, h: 1}

	rows := []string{header, topZone}
	y += headerRows
	for _, card := range list.Children {
		cardHover := opts.Hover.Kind == drag.TargetCard && opts.Hover.CardID == card.card.ID
		view := card.View(cardHover)
		h := lipgloss.Height(view)
		r.rects[card.ID] = rect{x: x, y: y, w: ListWidth, h: h}
		if y < boardTopRows+bodyHeight {
			r.visibleCards = append(r.visibleCards, card.ID)
		}
		rows = append(rows, view)
		y += h
	}

	return lipgloss.NewStyle().Width(ListWidth + listGap).Render(
		strings.Join(rows, "\n"))
}

// FlushVisible fires the deferred cover loads for cards that intersected
// the viewport in the last View. Called from the update loop, never during
// rendering.
func (r *Reconciler) FlushVisible() {
	if len(r.visibleCards) == 0 {
		return
	}
	r.watcher.Intersect(r.visibleCards)
	r.visibleCards = r.visibleCards[:0]
}

// NodeAt returns the node under the position, cards before lists.
func (r *Reconciler) NodeAt(x, y int) (*Node, bool) {
	for _, list := range r.root {
		for _, card := range list.Children {
			if rc, ok := r.rects[card.ID]; ok && rc.contains(x, y) {
				return card, true
			}
		}
		if rc, ok := r.rects[list.ID]; ok && rc.contains(x, y) {
			return list, true
		}
	}
	return nil, false
}

// ListTopAt returns the list whose drop-at-top row is under the position.
// The shell uses it as the add-card affordance for clicks that land on no
// node.
func (r *Reconciler) ListTopAt(x, y int) (int64, bool) {
	for _, list := range r.root {
		topID := NodeID{Kind: KindList, ID: -list.list.ID}
		if rc, ok := r.rects[topID]; ok && rc.contains(x, y) {
			return list.list.ID, true
		}
	}
	return 0, false
}

// ClickAt runs the click handler of the node under the position.
func (r *Reconciler) ClickAt(x, y int) bool {
	n, ok := r.NodeAt(x, y)
	if !ok {
		return false
	}
	n.Click()
	return true
}

// SourceAt implements drag.HitMap: cards and list headers are draggable.
// The source's PrevID reflects the element's position in the tree at press
// time, which is what no-op drop detection compares against.
func (r *Reconciler) SourceAt(x, y int) (drag.Source, bool) {
	for li, list := range r.root {
		for ci, card := range list.Children {
			rc, ok := r.rects[card.ID]
			if !ok || !rc.contains(x, y) {
				continue
			}
			if card.card.Locked {
				return drag.Source{}, false
			}
			var prev int64
			if ci > 0 {
				prev = list.Children[ci-1].card.ID
			}
			return drag.Source{
				Kind:   drag.SourceCard,
				CardID: card.card.ID,
				ListID: list.list.ID,
				PrevID: prev,
				Label:  card.card.Title,
			}, true
		}
		if rc, ok := r.rects[list.ID]; ok && rc.contains(x, y) {
			var prev int64
			if li > 0 {
				prev = r.root[li-1].list.ID
			}
			return drag.Source{
				Kind:   drag.SourceList,
				ListID: list.list.ID,
				PrevID: prev,
				Label:  list.list.Name,
			}, true
		}
	}
	return drag.Source{}, false
}

// TargetAt implements drag.HitMap. Cards resolve to drop-after-card, list
// headers to list reordering, the row under a header to drop-at-top, the
// left gutter to the board head, and the footer to the delete zone.
func (r *Reconciler) TargetAt(x, y int) (drag.Target, bool) {
	if zone, ok := r.rects[NodeID{Kind: KindBoard, ID: -1}]; ok && zone.contains(x, y) {
		return drag.Target{Kind: drag.TargetDeleteZone}, true
	}

	for _, list := range r.root {
		for _, card := range list.Children {
			if rc, ok := r.rects[card.ID]; ok && rc.contains(x, y) {
				return drag.Target{
					Kind:   drag.TargetCard,
					ListID: list.list.ID,
					CardID: card.card.ID,
				}, true
			}
		}
		if rc, ok := r.rects[list.ID]; ok && rc.contains(x, y) {
			return drag.Target{Kind: drag.TargetList, ListID: list.list.ID}, true
		}
		topID := NodeID{Kind: KindList, ID: -list.list.ID}
		if rc, ok := r.rects[topID]; ok && rc.contains(x, y) {
			return drag.Target{Kind: drag.TargetListTop, ListID: list.list.ID}, true
		}
	}

	if x < gutterWidth && y >= boardTopRows {
		return drag.Target{Kind: drag.TargetBoardStart}, true
	}
	return drag.Target{}, false
}

func padToHeight(s string, h int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= h {
		return s
	}
	return s + strings.Repeat("\n", h-lines)
}
