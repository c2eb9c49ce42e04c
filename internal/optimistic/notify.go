package optimistic

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a user-visible message (a toast in a UI client)
type Notification struct {
	Key     Key
	Level   Level
	Message string
	Err     error
}

// Notifier surfaces mutation outcomes to the user
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a zerolog logger. Used by headless
// clients (workers, CLIs) that have nobody to show a toast to.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	ev := l.Logger.Info()
	if n.Level == LevelError {
		ev = l.Logger.Error().Err(n.Err)
	}
	ev.Str("key", n.Key.String()).Msg(n.Message)
}

// FailureMessage renders the rollback toast:
//
//	Failed to <verb> "<subject>" <preposition> <target>
func FailureMessage(verb, subject, preposition, target string) string {
	msg := fmt.Sprintf("Failed to %s %q", verb, subject)
	if preposition != "" && target != "" {
		msg += " " + preposition + " " + target
	}
	return strings.TrimSpace(msg)
}
