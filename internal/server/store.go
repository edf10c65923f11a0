package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"corkboard/internal/models"
)

// Store handles all board-related database operations.
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureBoard returns the first board, creating a starter board when the
// database is empty.
func (s *Store) EnsureBoard(ctx context.Context, title string) (*models.Board, error) {
	board := &models.Board{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM boards ORDER BY id LIMIT 1`,
	).Scan(&board.ID, &board.Title)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO boards (title) VALUES (?)`, title)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Board{ID: id, Title: title}, nil
}

// GetBoard retrieves a full board snapshot: the board row, its label slots,
// and the unordered sets of lists and cards. Card rows carry the cover url
// of their first attachment but not the attachment list itself.
func (s *Store) GetBoard(ctx context.Context, boardID int64) (*models.Board, []models.Label, []*models.CardList, []*models.Card, error) {
	board := &models.Board{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM boards WHERE id = ?`, boardID,
	).Scan(&board.ID, &board.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, nil, fmt.Errorf("board %d: %w", boardID, models.ErrBoardNotFound)
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	labels, err := s.boardLabels(ctx, boardID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_id, name, prev_list_id FROM cardlists WHERE board_id = ?`, boardID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("querying lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.CardList
	for rows.Next() {
		list := &models.CardList{}
		if err := rows.Scan(&list.ID, &list.BoardID, &list.Name, &list.PrevListID); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("scanning list row: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	cardRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.content, c.cardlist_id, c.prev_card_id,
		       c.label_mask, c.locked,
		       COALESCE((SELECT a.url FROM attachments a
		                 WHERE a.card_id = c.id AND a.url != ''
		                 ORDER BY a.id LIMIT 1), '')
		FROM cards c
		JOIN cardlists l ON l.id = c.cardlist_id
		WHERE l.board_id = ?`, boardID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("querying cards: %w", err)
	}
	defer cardRows.Close()

	var cards []*models.Card
	for cardRows.Next() {
		card := &models.Card{}
		if err := cardRows.Scan(&card.ID, &card.Title, &card.Content, &card.CardListID,
			&card.PrevCardID, &card.LabelMask, &card.Locked, &card.CoverURL); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("scanning card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := cardRows.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	return board, labels, lists, cards, nil
}

func (s *Store) boardLabels(ctx context.Context, boardID int64) ([]models.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, name, color FROM labels WHERE board_id = ? ORDER BY idx`, boardID)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	var labels []models.Label
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.Index, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("scanning label row: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// CreateBoardLabel fills the next label slot. Slots are append-only: a
// deleted slot keeps its index forever and is never handed out again.
func (s *Store) CreateBoardLabel(ctx context.Context, boardID int64, name, color string) (*models.Label, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(idx) + 1, 0) FROM labels WHERE board_id = ?`, boardID,
	).Scan(&next)
	if err != nil {
		return nil, err
	}
	if next >= models.MaxLabelSlots {
		return nil, fmt.Errorf("board %d: %w", boardID, models.ErrLabelSlotsFull)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO labels (board_id, idx, name, color) VALUES (?, ?, ?, ?)`,
		boardID, next, name, color)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &models.Label{Index: next, Name: name, Color: color}, nil
}

// UpdateBoardLabel renames or recolors a live label slot.
func (s *Store) UpdateBoardLabel(ctx context.Context, boardID int64, index int, name, color string) (*models.Label, error) {
	label, err := s.label(ctx, boardID, index)
	if err != nil {
		return nil, err
	}
	if label.Deleted() {
		return nil, fmt.Errorf("label %d on board %d: %w", index, boardID, models.ErrLabelNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE labels SET name = ?, color = ? WHERE board_id = ? AND idx = ?`,
		name, color, boardID, index)
	if err != nil {
		return nil, err
	}
	return &models.Label{Index: index, Name: name, Color: color}, nil
}

// DeleteBoardLabel invalidates a label slot and clears its bit on every card
// of the board, returning the ids of the cards whose masks were rewritten.
func (s *Store) DeleteBoardLabel(ctx context.Context, boardID int64, index int) ([]int64, error) {
	label, err := s.label(ctx, boardID, index)
	if err != nil {
		return nil, err
	}
	if label.Deleted() {
		return nil, fmt.Errorf("label %d on board %d: %w", index, boardID, models.ErrLabelNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	bit := int64(1) << uint(index)
	rows, err := tx.QueryContext(ctx, `
		SELECT c.id FROM cards c
		JOIN cardlists l ON l.id = c.cardlist_id
		WHERE l.board_id = ? AND (c.label_mask & ?) != 0`, boardID, bit)
	if err != nil {
		return nil, err
	}
	var cleared []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		cleared = append(cleared, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cards SET label_mask = label_mask & ~?
		WHERE cardlist_id IN (SELECT id FROM cardlists WHERE board_id = ?)`, bit, boardID)
	if err != nil {
		return nil, err
	}

	// Blank name and color mark the slot deleted; the row and its index stay.
	_, err = tx.ExecContext(ctx,
		`UPDATE labels SET name = '', color = '' WHERE board_id = ? AND idx = ?`,
		boardID, index)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cleared, nil
}

func (s *Store) label(ctx context.Context, boardID int64, index int) (models.Label, error) {
	var l models.Label
	err := s.db.QueryRowContext(ctx,
		`SELECT idx, name, color FROM labels WHERE board_id = ? AND idx = ?`,
		boardID, index,
	).Scan(&l.Index, &l.Name, &l.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return l, fmt.Errorf("label %d on board %d: %w", index, boardID, models.ErrLabelNotFound)
	}
	return l, err
}
