package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus to provide structured logging with pre-seeded fields.
type Logger struct {
	entry *logrus.Entry
}

// Init configures the global logrus settings. It should be called once at
// process start, before any Logger is created.
func Init(level logrus.Level) {
	// JSON output so the logs can be collected and queried downstream.
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(level)
}

// ParseLevel maps a config string to a logrus level, defaulting to Info.
func ParseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// New creates a Logger with the service name pre-seeded on every entry.
func New(serviceName string) *Logger {
	return &Logger{
		entry: logrus.WithFields(logrus.Fields{
			"service_name": serviceName,
		}),
	}
}

// WithField returns a Logger that adds the given field to every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithConversation returns a Logger scoped to a conversation.
func (l *Logger) WithConversation(conversationID string) *Logger {
	return &Logger{entry: l.entry.WithField("conversation_id", conversationID)}
}

// Info logs an info-level message.
func (l *Logger) Info(message string) {
	l.entry.Info(message)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(message string) {
	l.entry.Warn(message)
}

// Error logs an error-level message.
func (l *Logger) Error(message string) {
	l.entry.Error(message)
}

// Debug logs a debug-level message.
func (l *Logger) Debug(message string) {
	l.entry.Debug(message)
}

// Fatal logs a fatal message and terminates the process.
func (l *Logger) Fatal(message string) {
	l.entry.Fatal(message)
}
