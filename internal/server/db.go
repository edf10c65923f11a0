// Package server is the loopback board server the TUI client talks to. It
// owns the authoritative entity state in SQLite and exposes every board
// operation under /api/{op}. Sequence order is stored the same way the
// client renders it: one prev pointer per row, 0 marking the head.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// OpenDB opens (and migrates) the board database at path. Use ":memory:"
// for tests.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Error("failed to apply pragma", "pragma", pragma, "error", err)
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing db", "error", closeErr)
			}
			return nil, err
		}
	}

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := migrate(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS boards (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS labels (
		board_id INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		idx      INTEGER NOT NULL,
		name     TEXT NOT NULL,
		color    TEXT NOT NULL,
		PRIMARY KEY (board_id, idx)
	);

	CREATE TABLE IF NOT EXISTS cardlists (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id     INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		prev_list_id INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS cards (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		title        TEXT NOT NULL,
		content      TEXT NOT NULL DEFAULT '',
		cardlist_id  INTEGER NOT NULL REFERENCES cardlists(id) ON DELETE CASCADE,
		prev_card_id INTEGER NOT NULL DEFAULT 0,
		label_mask   INTEGER NOT NULL DEFAULT 0,
		locked       INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS attachments (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
		name    TEXT NOT NULL,
		url     TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_cards_list ON cards(cardlist_id);
	CREATE INDEX IF NOT EXISTS idx_attachments_card ON attachments(card_id);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}
