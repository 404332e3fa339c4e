package errors

import (
	"github.com/sirupsen/logrus"

	"github.com/go-drift/slideclock/pkg/logger"
)

var log = logger.New(logrus.StandardLogger(), "errors")

// LogHandler is an ErrorHandler that logs through logrus.
type LogHandler struct {
	// Verbose adds stack traces to the log entries.
	Verbose bool
}

// HandleError logs a ClockError at error level.
func (h *LogHandler) HandleError(err *ClockError) {
	if err == nil {
		return
	}
	entry := log.WithFields(logrus.Fields{
		"op":   err.Op,
		"kind": err.Kind.String(),
	})
	if h.Verbose && err.StackTrace != "" {
		entry = entry.WithField("stack", err.StackTrace)
	}
	entry.WithError(err.Err).Error("operation failed")
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	entry := log.WithField("panic", err.Value)
	if err.Op != "" {
		entry = entry.WithField("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		entry = entry.WithField("stack", err.StackTrace)
	}
	entry.Error("recovered from panic")
}
