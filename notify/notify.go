package notify

import "github.com/MonkyMars/gecho"

// Severity classifies a user-facing notification.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Sink receives user-facing outcome notifications (item added, cart cleared,
// data unavailable). Implementations decide how to surface them.
type Sink interface {
	Notify(title, message string, severity Severity)
}

// LogSink writes notifications to the application logger.
type LogSink struct {
	logger *gecho.Logger
}

func NewLogSink(logger *gecho.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) Notify(title, message string, severity Severity) {
	switch severity {
	case Error:
		l.logger.Error(message, gecho.Field("title", title), gecho.Field("severity", severity.String()))
	case Warning:
		l.logger.Warn(message, gecho.Field("title", title), gecho.Field("severity", severity.String()))
	default:
		l.logger.Info(message, gecho.Field("title", title), gecho.Field("severity", severity.String()))
	}
}

// discard drops all notifications.
type discard struct{}

func (discard) Notify(string, string, Severity) {}

// Discard returns a Sink that ignores everything.
func Discard() Sink {
	return discard{}
}
