package state

// Level classifies a notification for styling.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// NotificationState holds the one-line status message shown under the board.
// Failed mutations surface here after their optimistic rendering is reverted.
// Messages are transient: every Set bumps a sequence number and the shell
// schedules a dismissal for that sequence, so an expiry for an old message
// never clears a newer one.
type NotificationState struct {
	message string
	level   Level
	seq     int
}

// NewNotificationState creates an empty notification state.
func NewNotificationState() *NotificationState {
	return &NotificationState{}
}

// Info sets an informational message.
func (s *NotificationState) Info(msg string) {
	s.message = msg
	s.level = LevelInfo
	s.seq++
}

// Error sets an error message.
func (s *NotificationState) Error(msg string) {
	s.message = msg
	s.level = LevelError
	s.seq++
}

// Clear removes the current message.
func (s *NotificationState) Clear() {
	s.message = ""
}

// Expire clears the message if seq identifies it; a dismissal scheduled for
// an already-replaced message is a no-op.
func (s *NotificationState) Expire(seq int) {
	if seq == s.seq {
		s.message = ""
	}
}

// Seq identifies the current message for dismissal scheduling.
func (s *NotificationState) Seq() int { return s.seq }

// Message returns the current message and its level; the message is empty
// when nothing is pending.
func (s *NotificationState) Message() (string, Level) {
	return s.message, s.level
}
