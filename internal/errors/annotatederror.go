// Package errors wraps errors with a message, slog annotations, and the
// source location of the wrap site. It re-exports the standard helpers so
// callers need a single errors import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// New returns an error with the given text. See [errors.New].
func New(text string) error {
	return stderrors.New(text)
}

// NewSentinel returns an error meant to be matched with [Is]. It carries no
// source location so that it can live in a package-level var.
func NewSentinel(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join wraps the given errors into a single error. See [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// annotatedError is an error with a message, optional slog attributes, and
// the source location where it was created.
type annotatedError struct {
	msg    string
	cause  error
	attrs  []slog.Attr
	source string
}

// Wrap annotates err with a message and optional slog attributes. The
// attributes surface in logs through [SlogError] instead of bloating the
// error string.
func Wrap(err error, message string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    message,
		cause:  err,
		attrs:  attrs,
		source: caller(2), //nolint:mnd // skip runtime.Caller and Wrap frames.
	}
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// caller resolves the file:line of the frame skip levels up the stack.
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// DecoratePanic converts a recovered panic value into an error whose source
// points at the panic site rather than the recover site.
func DecoratePanic(excp any) error {
	return &annotatedError{
		msg:    fmt.Sprintf("panic: %v", excp),
		cause:  nil,
		attrs:  nil,
		source: panicSource(),
	}
}

// panicSource walks the stack past runtime.gopanic to find where the panic
// was raised.
func panicSource() string {
	pcs := make([]uintptr, 32) //nolint:mnd // enough frames to reach the panic site.
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	seenGopanic := false
	for {
		frame, more := frames.Next()
		switch {
		case frame.Function == "runtime.gopanic":
			seenGopanic = true
		case seenGopanic && !strings.HasPrefix(frame.Function, "runtime."):
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// SlogError converts err into a grouped [slog.Attr] that includes the error
// message, the outermost wrap site, and all annotations in the error tree.
// A nil err yields an empty attribute.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		source      string
		annotations []any
	)
	for current := err; current != nil; current = Unwrap(current) {
		ae, ok := current.(*annotatedError)
		if !ok {
			continue
		}
		if source == "" {
			source = ae.source
		}
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
	}

	args := []any{slog.String("message", err.Error())}
	if source != "" {
		args = append(args, slog.String("source", source))
	}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", args...)
}
