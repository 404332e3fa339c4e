// Package errors provides structured error reporting for the clock display.
//
// The slide state machine itself never returns errors; everything around it
// (configuration, the display surface, the frame loop) reports failures here
// so that a broken frame is logged instead of stopping the clock.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
	// KindInit indicates an initialization error (fonts, screens).
	KindInit
	// KindDisplay indicates a display surface lifecycle error.
	KindDisplay
	// KindRender indicates a failure while drawing a frame.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInit:
		return "init"
	case KindDisplay:
		return "display"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ClockError represents a structured error raised around the clock display.
type ClockError struct {
	// Op is the operation that failed (e.g., "engine.render").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ClockError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.dispatch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives reported errors.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *ClockError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
