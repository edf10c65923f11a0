package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"corkboard/internal/models"
)

// Card retrieves a card with its attachment list.
func (s *Store) Card(ctx context.Context, cardID int64) (*models.Card, error) {
	card, err := s.cardRow(ctx, cardID)
	if err != nil {
		return nil, err
	}
	atts, err := s.CardAttachments(ctx, cardID)
	if err != nil {
		return nil, err
	}
	card.Attachments = atts
	return card, nil
}

// CardAttachments retrieves a card's attachments in upload order.
func (s *Store) CardAttachments(ctx context.Context, cardID int64) ([]*models.Attachment, error) {
	if _, err := s.cardRow(ctx, cardID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, card_id, name, url FROM attachments WHERE card_id = ? ORDER BY id`, cardID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var atts []*models.Attachment
	for rows.Next() {
		att := &models.Attachment{}
		if err := rows.Scan(&att.ID, &att.CardID, &att.Name, &att.URL); err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}

// AddCard creates a card at the tail of the list.
func (s *Store) AddCard(ctx context.Context, listID int64, title string) (*models.Card, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM cardlists WHERE id = ?`, listID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %d: %w", listID, models.ErrCardListNotFound)
	}
	if err != nil {
		return nil, err
	}

	// Tail is the card no other card in the list points back to.
	var prevID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM cards WHERE cardlist_id = ?
		AND id NOT IN (SELECT prev_card_id FROM cards WHERE cardlist_id = ?)
		LIMIT 1`, listID, listID).Scan(&prevID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO cards (title, cardlist_id, prev_card_id) VALUES (?, ?, ?)`,
		title, listID, prevID)
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
	return &models.Card{ID: id, Title: title, CardListID: listID, PrevCardID: prevID}, nil
}

// MoveCard relocates a card after new_prev_card_id (0 = head) in the
// destination list. The whole destination context arrives in one request;
// detach and attach happen in a single transaction so concurrent readers
// never observe a half-moved sequence.
func (s *Store) MoveCard(ctx context.Context, movedID, newPrevID, destListID int64) (*models.Card, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var oldListID, oldPrevID int64
	var locked bool
	err = tx.QueryRowContext(ctx,
		`SELECT cardlist_id, prev_card_id, locked FROM cards WHERE id = ?`, movedID,
	).Scan(&oldListID, &oldPrevID, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", movedID, models.ErrCardNotFound)
	}
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, fmt.Errorf("card %d: %w", movedID, models.ErrCardLocked)
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM cardlists WHERE id = ?`, destListID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %d: %w", destListID, models.ErrCardListNotFound)
	}
	if err != nil {
		return nil, err
	}

	if newPrevID != 0 {
		var anchorList int64
		err = tx.QueryRowContext(ctx,
			`SELECT cardlist_id FROM cards WHERE id = ?`, newPrevID).Scan(&anchorList)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && anchorList != destListID) || newPrevID == movedID {
			return nil, fmt.Errorf("anchor card %d in list %d: %w", newPrevID, destListID, models.ErrCardNotFound)
		}
		if err != nil {
			return nil, err
		}
	}

	// Detach: the old successor now follows the moved card's old prev.
	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET prev_card_id = ? WHERE cardlist_id = ? AND prev_card_id = ?`,
		oldPrevID, oldListID, movedID)
	if err != nil {
		return nil, err
	}

	// Attach: whatever followed the anchor now follows the moved card.
	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET prev_card_id = ? WHERE cardlist_id = ? AND prev_card_id = ? AND id != ?`,
		movedID, destListID, newPrevID, movedID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET cardlist_id = ?, prev_card_id = ? WHERE id = ?`,
		destListID, newPrevID, movedID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.cardRow(ctx, movedID)
}

// DeleteCard removes a card, splicing its neighbors together.
func (s *Store) DeleteCard(ctx context.Context, cardID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var listID, prevID int64
	var locked bool
	err = tx.QueryRowContext(ctx,
		`SELECT cardlist_id, prev_card_id, locked FROM cards WHERE id = ?`, cardID,
	).Scan(&listID, &prevID, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("card %d: %w", cardID, models.ErrCardNotFound)
	}
	if err != nil {
		return err
	}
	if locked {
		return fmt.Errorf("card %d: %w", cardID, models.ErrCardLocked)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET prev_card_id = ? WHERE cardlist_id = ? AND prev_card_id = ?`,
		prevID, listID, cardID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE card_id = ?`, cardID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, cardID); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateCardTitle renames a card.
func (s *Store) UpdateCardTitle(ctx context.Context, cardID int64, title string) (*models.Card, error) {
	return s.updateCardField(ctx, cardID, `UPDATE cards SET title = ? WHERE id = ?`, title)
}

// UpdateCardContent replaces a card's content markup.
func (s *Store) UpdateCardContent(ctx context.Context, cardID int64, content string) (*models.Card, error) {
	return s.updateCardField(ctx, cardID, `UPDATE cards SET content = ? WHERE id = ?`, content)
}

// SetCardLocked locks or unlocks a card.
func (s *Store) SetCardLocked(ctx context.Context, cardID int64, locked bool) (*models.Card, error) {
	return s.updateCardField(ctx, cardID, `UPDATE cards SET locked = ? WHERE id = ?`, locked)
}

func (s *Store) updateCardField(ctx context.Context, cardID int64, query string, value any) (*models.Card, error) {
	if _, err := s.cardRow(ctx, cardID); err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, query, value, cardID); err != nil {
		return nil, err
	}
	return s.cardRow(ctx, cardID)
}

// SetCardLabel sets the bit for a live label slot on a card.
func (s *Store) SetCardLabel(ctx context.Context, cardID int64, index int) (*models.Card, error) {
	card, err := s.cardRow(ctx, cardID)
	if err != nil {
		return nil, err
	}

	boardID, err := s.cardBoard(ctx, card.CardListID)
	if err != nil {
		return nil, err
	}
	label, err := s.label(ctx, boardID, index)
	if err != nil {
		return nil, err
	}
	if label.Deleted() {
		return nil, fmt.Errorf("label %d on board %d: %w", index, boardID, models.ErrLabelNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE cards SET label_mask = label_mask | ? WHERE id = ?`,
		int64(1)<<uint(index), cardID)
	if err != nil {
		return nil, err
	}
	return s.cardRow(ctx, cardID)
}

// ClearCardLabel clears the bit for a label slot on a card. Clearing works
// for retired slots too, so stale masks can always be cleaned up.
func (s *Store) ClearCardLabel(ctx context.Context, cardID int64, index int) (*models.Card, error) {
	if _, err := s.cardRow(ctx, cardID); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE cards SET label_mask = label_mask & ~? WHERE id = ?`,
		int64(1)<<uint(index), cardID)
	if err != nil {
		return nil, err
	}
	return s.cardRow(ctx, cardID)
}

// AddAttachment records an attachment row. An empty url means the upload is
// still in progress; AssignAttachmentURL completes it.
func (s *Store) AddAttachment(ctx context.Context, cardID int64, name, url string) (*models.Attachment, error) {
	if _, err := s.cardRow(ctx, cardID); err != nil {
		return nil, err
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO attachments (card_id, name, url) VALUES (?, ?, ?)`,
		cardID, name, url)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Attachment{ID: id, CardID: cardID, Name: name, URL: url}, nil
}

// AssignAttachmentURL completes a pending upload.
func (s *Store) AssignAttachmentURL(ctx context.Context, attachmentID int64, url string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET url = ? WHERE id = ?`, url, attachmentID)
	return err
}

func (s *Store) cardRow(ctx context.Context, cardID int64) (*models.Card, error) {
	card := &models.Card{}
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.title, c.content, c.cardlist_id, c.prev_card_id,
		       c.label_mask, c.locked,
		       COALESCE((SELECT a.url FROM attachments a
		                 WHERE a.card_id = c.id AND a.url != ''
		                 ORDER BY a.id LIMIT 1), '')
		FROM cards c WHERE c.id = ?`, cardID,
	).Scan(&card.ID, &card.Title, &card.Content, &card.CardListID,
		&card.PrevCardID, &card.LabelMask, &card.Locked, &card.CoverURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", cardID, models.ErrCardNotFound)
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *Store) cardBoard(ctx context.Context, listID int64) (int64, error) {
	var boardID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT board_id FROM cardlists WHERE id = ?`, listID).Scan(&boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("list %d: %w", listID, models.ErrCardListNotFound)
	}
	return boardID, err
}
