package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"corkboard/internal/models"
)

// AddCardList appends a list at the tail of the board.
func (s *Store) AddCardList(ctx context.Context, boardID int64, name string) (*models.CardList, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM boards WHERE id = ?`, boardID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %d: %w", boardID, models.ErrBoardNotFound)
	}
	if err != nil {
		return nil, err
	}

	var prevID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM cardlists WHERE board_id = ?
		AND id NOT IN (SELECT prev_list_id FROM cardlists WHERE board_id = ?)
		LIMIT 1`, boardID, boardID).Scan(&prevID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO cardlists (board_id, name, prev_list_id) VALUES (?, ?, ?)`,
		boardID, name, prevID)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &models.CardList{ID: id, BoardID: boardID, Name: name, PrevListID: prevID}, nil
}

// MoveCardList relocates a list after new_prev_cardlist_id (0 = board head).
func (s *Store) MoveCardList(ctx context.Context, movedID, newPrevID int64) (*models.CardList, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var boardID, oldPrevID int64
	err = tx.QueryRowContext(ctx,
		`SELECT board_id, prev_list_id FROM cardlists WHERE id = ?`, movedID,
	).Scan(&boardID, &oldPrevID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %d: %w", movedID, models.ErrCardListNotFound)
	}
	if err != nil {
		return nil, err
	}

	if newPrevID != 0 {
		var anchorBoard int64
		err = tx.QueryRowContext(ctx,
			`SELECT board_id FROM cardlists WHERE id = ?`, newPrevID).Scan(&anchorBoard)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && anchorBoard != boardID) || newPrevID == movedID {
			return nil, fmt.Errorf("anchor list %d: %w", newPrevID, models.ErrCardListNotFound)
		}
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cardlists SET prev_list_id = ? WHERE board_id = ? AND prev_list_id = ?`,
		oldPrevID, boardID, movedID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cardlists SET prev_list_id = ? WHERE board_id = ? AND prev_list_id = ? AND id != ?`,
		movedID, boardID, newPrevID, movedID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cardlists SET prev_list_id = ? WHERE id = ?`, newPrevID, movedID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.cardList(ctx, movedID)
}

// RenameCardList renames a list.
func (s *Store) RenameCardList(ctx context.Context, listID int64, name string) (*models.CardList, error) {
	if _, err := s.cardList(ctx, listID); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE cardlists SET name = ? WHERE id = ?`, name, listID)
	if err != nil {
		return nil, err
	}
	return s.cardList(ctx, listID)
}

// DeleteCardList removes a list and every card in it, splicing the board's
// list sequence back together.
func (s *Store) DeleteCardList(ctx context.Context, listID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var boardID, prevID int64
	err = tx.QueryRowContext(ctx,
		`SELECT board_id, prev_list_id FROM cardlists WHERE id = ?`, listID,
	).Scan(&boardID, &prevID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("list %d: %w", listID, models.ErrCardListNotFound)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cardlists SET prev_list_id = ? WHERE board_id = ? AND prev_list_id = ?`,
		prevID, boardID, listID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attachments WHERE card_id IN (SELECT id FROM cards WHERE cardlist_id = ?)`,
		listID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE cardlist_id = ?`, listID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cardlists WHERE id = ?`, listID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) cardList(ctx context.Context, listID int64) (*models.CardList, error) {
	list := &models.CardList{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, board_id, name, prev_list_id FROM cardlists WHERE id = ?`, listID,
	).Scan(&list.ID, &list.BoardID, &list.Name, &list.PrevListID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %d: %w", listID, models.ErrCardListNotFound)
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}
