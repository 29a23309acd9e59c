package generr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error surfaced by a generation run matches exactly one
// of these with errors.Is.
var (
	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrMalformedRecipe          = errors.New("malformed recipe")
	ErrNoFormulaFound           = errors.New("no formula found")
	ErrAmbiguousFormula         = errors.New("ambiguous formula")
	ErrInstallExecution         = errors.New("install execution failed")
	ErrDanglingExecutableTarget = errors.New("dangling executable target")
	ErrUnsupportedAction        = errors.New("unsupported action")
	ErrFilesystem               = errors.New("filesystem operation failed")
)

// Error is a classified generation failure.
type Error struct {
	Kind   error  // One of the Err* sentinels above.
	Detail string // Human readable context, may be empty.
	Cause  error  // Underlying error, may be nil.
	Trace  string // Interpreter backtrace, if the failure came from recipe code.
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// New creates an Error of the given kind with a formatted detail message.
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause as the given kind.
func Wrap(kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// Wrapf classifies cause as the given kind and adds a formatted detail.
func Wrapf(kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

// WithTrace attaches an interpreter backtrace to the error.
func (e *Error) WithTrace(trace string) *Error {
	e.Trace = trace
	return e
}

// Expected reports whether err is a recipe-authoring problem that only needs
// a one-line message. Everything else (install logic raising, I/O failures,
// errors outside the taxonomy) is unexpected and deserves a full trace.
func Expected(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case ErrInstallExecution, ErrFilesystem:
		return false
	}
	return true
}

// Trace renders the full cause chain of err, one error per line, followed by
// any interpreter backtrace found along the way.
func Trace(err error) string {
	var b strings.Builder
	var backtrace string
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(&b, "%s%T: %v\n", strings.Repeat("  ", depth), err, err)
		var e *Error
		if errors.As(err, &e) && e.Trace != "" && backtrace == "" {
			backtrace = e.Trace
		}
		err = errors.Unwrap(err)
	}
	if backtrace != "" {
		b.WriteString(strings.TrimRight(backtrace, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}
