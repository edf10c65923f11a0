// Command daemon runs the loopback board server the corkboard client talks
// to. It owns the SQLite database and serves every board operation under
// /api/{op}.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"corkboard/internal/server"
)

var (
	addr   string
	dbPath string
	seed   bool
)

var rootCmd = &cobra.Command{
	Use:   "corkboardd",
	Short: "Corkboard board server",
	Long:  `corkboardd serves the board API the corkboard TUI client consumes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7440", "listen address")
	rootCmd.Flags().StringVar(&dbPath, "db", defaultDBPath(), "path to the board database")
	rootCmd.Flags().BoolVar(&seed, "seed", false, "seed a starter board when the database is empty")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "corkboard.db"
	}
	return filepath.Join(home, ".corkboard", "board.db")
}

func run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := server.OpenDB(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := server.NewStore(db)
	if seed {
		if err := seedBoard(ctx, store); err != nil {
			return fmt.Errorf("seeding board: %w", err)
		}
	} else if _, err := store.EnsureBoard(ctx, "Corkboard"); err != nil {
		return fmt.Errorf("ensuring board: %w", err)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewHandler(store).Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("board server listening", "addr", addr, "db", dbPath)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-stop:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedBoard fills an empty database with a small starter board so the
// client has something to drag around on first run.
func seedBoard(ctx context.Context, store *server.Store) error {
	board, err := store.EnsureBoard(ctx, "Corkboard")
	if err != nil {
		return err
	}

	_, _, lists, _, err := store.GetBoard(ctx, board.ID)
	if err != nil {
		return err
	}
	if len(lists) > 0 {
		return nil
	}

	for _, name := range []string{"Todo", "Doing", "Done"} {
		list, err := store.AddCardList(ctx, board.ID, name)
		if err != nil {
			return err
		}
		if name != "Todo" {
			continue
		}
		for _, title := range []string{"Drag me", "Click me open"} {
			card, err := store.AddCard(ctx, list.ID, title)
			if err != nil {
				return err
			}
			if title != "Click me open" {
				continue
			}
			content := "**welcome**\n[ ] drag a card\n[ ] toggle this box with x"
			if _, err := store.UpdateCardContent(ctx, card.ID, content); err != nil {
				return err
			}
		}
	}

	if _, err := store.CreateBoardLabel(ctx, board.ID, "bug", "#AA3333"); err != nil {
		return err
	}
	_, err = store.CreateBoardLabel(ctx, board.ID, "chore", "#3333AA")
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
