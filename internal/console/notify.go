package console

import "github.com/soyeahso/humanloop/internal/logging"

// Level classifies a user-visible notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces transient outcome messages to the operator.
type Notifier interface {
	Notify(level Level, message string)
}

// logNotifier is the default Notifier, routing notifications to the
// structured log.
type logNotifier struct {
	log *logging.Logger
}

func (n logNotifier) Notify(level Level, message string) {
	switch level {
	case LevelWarning:
		n.log.Warn().Msg(message)
	case LevelError:
		n.log.Error().Msg(message)
	default:
		n.log.Info().Msg(message)
	}
}
