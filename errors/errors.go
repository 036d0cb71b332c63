package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the compiler lifecycle the error occurred
type Phase string

const (
	PhaseBootstrap Phase = "bootstrap" // self-hosting warm-up
	PhaseCompile   Phase = "compile"   // compile job execution
	PhaseInstall   Phase = "install"   // code installation
)

// Kind categorizes the error
type Kind string

const (
	KindBridgeFailure  Kind = "bridge_failure"
	KindCanceled       Kind = "canceled"
	KindInvalidInput   Kind = "invalid_input"
	KindNotInitialized Kind = "not_initialized"
	KindQueueClosed    Kind = "queue_closed"
)

// Error is the structured error type used throughout jit-core
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Canceled wraps a context cancellation observed during phase
func Canceled(phase Phase, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindCanceled,
		Cause: cause,
	}
}

// QueueClosed creates an error for submissions to a closed queue
func QueueClosed(detail string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindQueueClosed,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error for a missing component
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// UnreachableError is the panic value raised by entry points that must never
// be dispatched. Reaching one is a routing defect in the engine, not a
// recoverable condition; in production the panic takes the process down.
type UnreachableError struct {
	// Where names the entry point that was reached.
	Where string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("unreachable: %s must never be dispatched", e.Where)
}

// Unreachable panics with an *UnreachableError naming the entry point.
func Unreachable(where string) {
	panic(&UnreachableError{Where: where})
}

// AsUnreachable reports whether a recovered panic value is an
// *UnreachableError, storing it in target when it is. Test harnesses use it
// to tell the designated fatal signal apart from incidental panics.
func AsUnreachable(recovered any, target **UnreachableError) bool {
	ue, ok := recovered.(*UnreachableError)
	if ok && target != nil {
		*target = ue
	}
	return ok
}
