package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/drag"
	"corkboard/internal/models"
	"corkboard/internal/render"
	"corkboard/internal/service"
	"corkboard/internal/sync"
)

// startMutation pushes a mutation through the queue and returns the command
// that runs its request. Suppressed no-ops yield no command; a busy entity
// or a failed optimistic apply surfaces in the notification bar.
func (m Model) startMutation(mut sync.Mutation) tea.Cmd {
	resolver, err := m.queue.Start(mut)
	if err != nil {
		switch {
		case errors.Is(err, sync.ErrNoop):
			return nil
		case errors.Is(err, sync.ErrInFlight):
			return m.notifyInfo("still syncing, try again in a moment")
		default:
			return m.notifyError(err.Error())
		}
	}
	return resolveCmd(resolver)
}

// handleIntent turns a drop intent into a mutation cycle.
func (m Model) handleIntent(intent drag.Intent) tea.Cmd {
	switch it := intent.(type) {
	case drag.MoveCardIntent:
		return m.moveCardMutation(it)
	case drag.MoveListIntent:
		return m.moveListMutation(it)
	case drag.DeleteCardIntent:
		return m.deleteCardMutation(it.CardID)
	case drag.DeleteListIntent:
		return m.deleteListMutation(it.ListID)
	}
	return nil
}

func (m Model) moveCardMutation(it drag.MoveCardIntent) tea.Cmd {
	tree, cards := m.tree, m.cards
	return m.startMutation(sync.Mutation{
		Key: sync.CardKey(it.CardID),
		Apply: func() (func(), error) {
			snapshot, ok := tree.Card(it.CardID)
			if !ok {
				return nil, fmt.Errorf("card %d: %w", it.CardID, models.ErrCardNotFound)
			}
			moved := snapshot
			moved.CardListID = it.DestListID
			moved.PrevCardID = it.NewPrevID
			if err := tree.MoveCard(moved); err != nil {
				return nil, err
			}
			return func() {
				restore := snapshot
				restore.CardListID = it.FromListID
				restore.PrevCardID = it.FromPrevID
				if err := tree.MoveCard(restore); err != nil {
					slog.Warn("reverting card move", "card", it.CardID, "error", err)
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return cards.Move(ctx, service.MoveCardRequest{
				MovedCardID:    it.CardID,
				NewPrevCardID:  it.NewPrevID,
				DestCardListID: it.DestListID,
			})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.MoveCardResult)
			if !ok {
				return fmt.Errorf("unexpected move card response %T", resp)
			}
			return tree.MoveCard(res.Card)
		},
	})
}

func (m Model) moveListMutation(it drag.MoveListIntent) tea.Cmd {
	tree, lists := m.tree, m.lists
	return m.startMutation(sync.Mutation{
		Key: sync.ListKey(it.ListID),
		Apply: func() (func(), error) {
			snapshot, ok := findList(tree.Lists(), it.ListID)
			if !ok {
				return nil, fmt.Errorf("list %d: %w", it.ListID, models.ErrCardListNotFound)
			}
			moved := snapshot
			moved.PrevListID = it.NewPrevID
			if err := tree.MoveList(moved); err != nil {
				return nil, err
			}
			return func() {
				restore := snapshot
				restore.PrevListID = it.FromPrevID
				if err := tree.MoveList(restore); err != nil {
					slog.Warn("reverting list move", "list", it.ListID, "error", err)
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return lists.Move(ctx, service.MoveCardListRequest{
				MovedCardListID:   it.ListID,
				NewPrevCardListID: it.NewPrevID,
			})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.CardListResult)
			if !ok {
				return fmt.Errorf("unexpected move list response %T", resp)
			}
			return tree.MoveList(res.CardList)
		},
	})
}

func (m Model) deleteCardMutation(cardID int64) tea.Cmd {
	tree, cards := m.tree, m.cards
	return m.startMutation(sync.Mutation{
		Key: sync.CardKey(cardID),
		Apply: func() (func(), error) {
			removed, err := tree.RemoveCard(cardID)
			if err != nil {
				return nil, err
			}
			return func() {
				if err := tree.InsertCard(removed); err != nil {
					slog.Warn("reverting card deletion", "card", cardID, "error", err)
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return cards.Delete(ctx, service.DeleteCardRequest{CardID: cardID})
		},
	})
}

func (m Model) deleteListMutation(listID int64) tea.Cmd {
	tree, lists := m.tree, m.lists
	return m.startMutation(sync.Mutation{
		Key: sync.ListKey(listID),
		Apply: func() (func(), error) {
			// Keep the card snapshots: RemoveList drops the whole subtree and
			// the revert has to rebuild it in order.
			var children []models.Card
			for _, node := range tree.Lists() {
				if node.List().ID != listID {
					continue
				}
				for _, c := range node.Children {
					children = append(children, c.Card())
				}
			}
			removed, err := tree.RemoveList(listID)
			if err != nil {
				return nil, err
			}
			return func() {
				if err := tree.InsertList(removed); err != nil {
					slog.Warn("reverting list deletion", "list", listID, "error", err)
					return
				}
				for _, card := range children {
					if err := tree.InsertCard(card); err != nil {
						slog.Warn("reverting list deletion card", "card", card.ID, "error", err)
					}
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return lists.Delete(ctx, service.DeleteCardListRequest{CardListID: listID})
		},
	})
}

// saveTitleMutation syncs a card title edit. Saving the same title the cache
// already holds is suppressed entirely.
func (m Model) saveTitleMutation(cardID int64, title string) tea.Cmd {
	tree, cards, cache, open := m.tree, m.cards, m.cache, m.openCard
	return m.startMutation(sync.Mutation{
		Key:       sync.CardKey(cardID),
		Unchanged: func() bool { return cache.TitleUnchanged(cardID, title) },
		Apply: func() (func(), error) {
			snapshot, ok := tree.Card(cardID)
			if !ok {
				return nil, fmt.Errorf("card %d: %w", cardID, models.ErrCardNotFound)
			}
			updated := snapshot
			updated.Title = title
			if err := tree.ReplaceCard(updated); err != nil {
				return nil, err
			}
			if open.CardID() == cardID {
				open.SetCard(updated)
			}
			return func() {
				if err := tree.ReplaceCard(snapshot); err != nil {
					slog.Warn("reverting title edit", "card", cardID, "error", err)
				}
				if open.CardID() == cardID {
					open.SetCard(snapshot)
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return cards.UpdateTitle(ctx, service.UpdateCardTitleRequest{CardID: cardID, Title: title})
		},
		Reconcile: func(resp any) error {
			return m.reconcileCard(resp)
		},
	})
}

// saveContentMutation syncs a content edit. Content is restricted markup
// everywhere at rest; callers that held the editable HTML form transcode
// back before handing the content here.
func (m Model) saveContentMutation(cardID int64, content string) tea.Cmd {
	cards, cache, open := m.cards, m.cache, m.openCard
	return m.startMutation(sync.Mutation{
		Key:       sync.CardKey(cardID),
		Unchanged: func() bool { return cache.ContentUnchanged(cardID, content) },
		Apply: func() (func(), error) {
			snapshot := open.Card()
			if snapshot.ID != cardID {
				return nil, fmt.Errorf("card %d: %w", cardID, models.ErrCardNotFound)
			}
			updated := snapshot
			updated.Content = content
			open.SetCard(updated)
			return func() { open.SetCard(snapshot) }, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return cards.UpdateContent(ctx, service.UpdateCardContentRequest{CardID: cardID, Content: content})
		},
		Reconcile: func(resp any) error {
			return m.reconcileCard(resp)
		},
	})
}

// toggleLockMutation locks or unlocks the open card.
func (m Model) toggleLockMutation(cardID int64, locked bool) tea.Cmd {
	tree, cards, open := m.tree, m.cards, m.openCard
	return m.startMutation(sync.Mutation{
		Key: sync.CardKey(cardID),
		Apply: func() (func(), error) {
			snapshot, ok := tree.Card(cardID)
			if !ok {
				return nil, fmt.Errorf("card %d: %w", cardID, models.ErrCardNotFound)
			}
			updated := snapshot
			updated.Locked = locked
			if err := tree.ReplaceCard(updated); err != nil {
				return nil, err
			}
			if open.CardID() == cardID {
				open.SetCard(updated)
			}
			return func() {
				if err := tree.ReplaceCard(snapshot); err != nil {
					slog.Warn("reverting lock toggle", "card", cardID, "error", err)
				}
				if open.CardID() == cardID {
					open.SetCard(snapshot)
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return cards.SetLocked(ctx, service.SetCardLockedRequest{CardID: cardID, Locked: locked})
		},
		Reconcile: func(resp any) error {
			return m.reconcileCard(resp)
		},
	})
}

// renameListMutation syncs a list rename.
func (m Model) renameListMutation(listID int64, name string) tea.Cmd {
	tree, lists := m.tree, m.lists
	return m.startMutation(sync.Mutation{
		Key: sync.ListKey(listID),
		Apply: func() (func(), error) {
			snapshot, ok := findList(tree.Lists(), listID)
			if !ok {
				return nil, fmt.Errorf("list %d: %w", listID, models.ErrCardListNotFound)
			}
			updated := snapshot
			updated.Name = name
			if err := tree.ReplaceList(updated); err != nil {
				return nil, err
			}
			return func() {
				if err := tree.ReplaceList(snapshot); err != nil {
					slog.Warn("reverting list rename", "list", listID, "error", err)
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return lists.Rename(ctx, service.UpdateCardListNameRequest{CardListID: listID, Name: name})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.CardListResult)
			if !ok {
				return fmt.Errorf("unexpected rename response %T", resp)
			}
			return tree.ReplaceList(res.CardList)
		},
	})
}

// addCardMutation creates a card at the tail of a list. Nothing renders
// optimistically: the card has no id until the server assigns one, so the
// node appears on confirmation.
func (m Model) addCardMutation(listID int64, title string) tea.Cmd {
	tree, cards := m.tree, m.cards
	return m.startMutation(sync.Mutation{
		Key:   sync.ListKey(listID),
		Apply: func() (func(), error) { return nil, nil },
		Request: func(ctx context.Context) (any, error) {
			return cards.Add(ctx, service.AddNewCardRequest{CardListID: listID, Title: title})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.CardResult)
			if !ok {
				return fmt.Errorf("unexpected add card response %T", resp)
			}
			return tree.InsertCard(res.Card)
		},
	})
}

// addListMutation appends a list at the tail of the board.
func (m Model) addListMutation(name string) tea.Cmd {
	tree, lists, boardID := m.tree, m.lists, m.boardID
	return m.startMutation(sync.Mutation{
		Key:   sync.BoardKey(boardID),
		Apply: func() (func(), error) { return nil, nil },
		Request: func(ctx context.Context) (any, error) {
			return lists.Add(ctx, service.AddNewCardListRequest{BoardID: boardID, Name: name})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.CardListResult)
			if !ok {
				return fmt.Errorf("unexpected add list response %T", resp)
			}
			return tree.InsertList(res.CardList)
		},
	})
}

// toggleCardLabelMutation sets or clears one label bit on a card.
func (m Model) toggleCardLabelMutation(cardID int64, index int, set bool) tea.Cmd {
	tree, cards, open := m.tree, m.cards, m.openCard
	return m.startMutation(sync.Mutation{
		Key: sync.CardKey(cardID),
		Apply: func() (func(), error) {
			snapshot, ok := tree.Card(cardID)
			if !ok {
				return nil, fmt.Errorf("card %d: %w", cardID, models.ErrCardNotFound)
			}
			updated := snapshot
			if set {
				updated.LabelMask = updated.LabelMask.Set(index)
			} else {
				updated.LabelMask = updated.LabelMask.Clear(index)
			}
			if err := tree.ReplaceCard(updated); err != nil {
				return nil, err
			}
			if open.CardID() == cardID {
				open.SetCard(updated)
			}
			return func() {
				if err := tree.ReplaceCard(snapshot); err != nil {
					slog.Warn("reverting label toggle", "card", cardID, "error", err)
				}
				if open.CardID() == cardID {
					open.SetCard(snapshot)
				}
			}, nil
		},
		Request: func(ctx context.Context) (any, error) {
			req := service.SetCardLabelRequest{CardID: cardID, Index: index}
			if set {
				return cards.SetLabel(ctx, req)
			}
			return cards.ClearLabel(ctx, req)
		},
		Reconcile: func(resp any) error {
			return m.reconcileCard(resp)
		},
	})
}

// defaultLabelColor fills in when a label prompt omits the color.
const defaultLabelColor = "#7D56F4"

// createLabelMutation fills the next free label slot. The slot index is
// server-assigned, so the chip legend updates on confirmation.
func (m Model) createLabelMutation(name, color string) tea.Cmd {
	tree, boards, boardID := m.tree, m.boards, m.boardID
	return m.startMutation(sync.Mutation{
		Key:   sync.BoardKey(boardID),
		Apply: func() (func(), error) { return nil, nil },
		Request: func(ctx context.Context) (any, error) {
			return boards.CreateLabel(ctx, service.CreateBoardLabelRequest{
				BoardID: boardID, Name: name, Color: color,
			})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.LabelResult)
			if !ok {
				return fmt.Errorf("unexpected create label response %T", resp)
			}
			labels := append(append([]models.Label(nil), tree.Labels()...), res.Label)
			tree.SetLabels(labels)
			return nil
		},
	})
}

// updateLabelMutation renames or recolors a label slot, optimistically.
func (m Model) updateLabelMutation(index int, name, color string) tea.Cmd {
	tree, boards, boardID := m.tree, m.boards, m.boardID
	applyLabel := func(label models.Label) {
		labels := append([]models.Label(nil), tree.Labels()...)
		for i := range labels {
			if labels[i].Index == label.Index {
				labels[i] = label
			}
		}
		tree.SetLabels(labels)
	}
	return m.startMutation(sync.Mutation{
		Key: sync.LabelKey(index),
		Apply: func() (func(), error) {
			snapshot := append([]models.Label(nil), tree.Labels()...)
			applyLabel(models.Label{Index: index, Name: name, Color: color})
			return func() { tree.SetLabels(snapshot) }, nil
		},
		Request: func(ctx context.Context) (any, error) {
			return boards.UpdateLabel(ctx, service.UpdateBoardLabelRequest{
				BoardID: boardID, Index: index, Name: name, Color: color,
			})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.LabelResult)
			if !ok {
				return fmt.Errorf("unexpected update label response %T", resp)
			}
			applyLabel(res.Label)
			return nil
		},
	})
}

// deleteLabelMutation invalidates a label slot board-wide. The mask rewrite
// touches every card and cannot be rebuilt locally on failure, so it waits
// for the server instead of applying optimistically.
func (m Model) deleteLabelMutation(index int) tea.Cmd {
	tree, boards, boardID := m.tree, m.boards, m.boardID
	return m.startMutation(sync.Mutation{
		Key:   sync.LabelKey(index),
		Apply: func() (func(), error) { return nil, nil },
		Request: func(ctx context.Context) (any, error) {
			return boards.DeleteLabel(ctx, service.DeleteBoardLabelRequest{
				BoardID: boardID, Index: index,
			})
		},
		Reconcile: func(resp any) error {
			res, ok := resp.(*service.DeleteBoardLabelResult)
			if !ok {
				return fmt.Errorf("unexpected delete label response %T", resp)
			}
			tree.ClearLabelBit(res.Index)
			return nil
		},
	})
}

// reconcileCard applies an authoritative card response to the tree, the
// cache, and the open-card modal.
func (m Model) reconcileCard(resp any) error {
	res, ok := resp.(*service.CardResult)
	if !ok {
		return fmt.Errorf("unexpected card response %T", resp)
	}
	m.cache.Put(res.Card)
	if m.openCard.CardID() == res.ID {
		m.openCard.SetCard(res.Card)
	}
	if _, inTree := m.tree.Card(res.ID); inTree {
		return m.tree.ReplaceCard(res.Card)
	}
	return nil
}

func findList(nodes []*render.Node, listID int64) (models.CardList, bool) {
	for _, n := range nodes {
		if n.List().ID == listID {
			return n.List(), true
		}
	}
	return models.CardList{}, false
}
