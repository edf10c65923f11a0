package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/models"
	"corkboard/internal/service"
	"corkboard/internal/sync"
)

// requestTimeout bounds every server call issued from a command.
const requestTimeout = 30 * time.Second

// notificationTTL is how long a status message stays up before it
// auto-dismisses.
const notificationTTL = 4 * time.Second

type boardLoadedMsg struct {
	res *service.GetBoardResult
	err error
}

type cardLoadedMsg struct {
	cardID int64
	card   models.Card
	err    error
}

type attachmentsLoadedMsg struct {
	cardID int64
	atts   []*models.Attachment
	err    error
}

type outcomeMsg struct {
	outcome sync.Outcome
}

// notificationExpiredMsg dismisses the notification it was scheduled for.
type notificationExpiredMsg struct {
	seq int
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func (m Model) loadBoardCmd() tea.Cmd {
	boards, boardID := m.boards, m.boardID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := boards.Get(ctx, service.GetBoardRequest{BoardID: boardID})
		return boardLoadedMsg{res: res, err: err}
	}
}

func (m Model) loadCardCmd(cardID int64) tea.Cmd {
	cards := m.cards
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := cards.Get(ctx, service.GetCardRequest{CardID: cardID})
		if err != nil {
			return cardLoadedMsg{cardID: cardID, err: err}
		}
		return cardLoadedMsg{cardID: cardID, card: res.Card}
	}
}

func (m Model) loadAttachmentsCmd(cardID int64) tea.Cmd {
	cards := m.cards
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := cards.Attachments(ctx, service.GetCardRequest{CardID: cardID})
		if err != nil {
			return attachmentsLoadedMsg{cardID: cardID, err: err}
		}
		return attachmentsLoadedMsg{cardID: cardID, atts: res.Attachments}
	}
}

// notifyInfo shows a transient informational message and schedules its
// dismissal.
func (m Model) notifyInfo(msg string) tea.Cmd {
	m.notification.Info(msg)
	return expireNotificationCmd(m.notification.Seq())
}

// notifyError shows a transient error message and schedules its dismissal.
func (m Model) notifyError(msg string) tea.Cmd {
	m.notification.Error(msg)
	return expireNotificationCmd(m.notification.Seq())
}

func expireNotificationCmd(seq int) tea.Cmd {
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return notificationExpiredMsg{seq: seq}
	})
}

// resolveCmd runs a started mutation's request off the event loop and feeds
// the outcome back in.
func resolveCmd(resolver func(ctx context.Context) sync.Outcome) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return outcomeMsg{outcome: resolver(ctx)}
	}
}
