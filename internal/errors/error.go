package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryArgument Category = "argument"
	CategoryCompile  Category = "compile"
	CategoryRuntime  Category = "runtime"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Site identifies where in the render tree an error was raised.
type Site struct {
	// Component is the name of the invoked component, if any.
	Component string

	// Slot is the argument, block or property involved.
	Slot string
}

// String returns the site as "component/slot".
func (s *Site) String() string {
	if s == nil {
		return ""
	}
	if s.Slot == "" {
		return s.Component
	}
	if s.Component == "" {
		return s.Slot
	}
	return s.Component + "/" + s.Slot
}

// Error is a structured error with a registered code and an optional site.
type Error struct {
	// Code is a unique error identifier (e.g., "R100").
	Code string

	// Category is the error type (argument, compile, runtime, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer, instance specific explanation.
	Detail string

	// Site is where the error happened.
	Site *Site

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a coded error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSite records the component and slot involved.
func (e *Error) WithSite(component, slot string) *Error {
	e.Site = &Site{Component: component, Slot: slot}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if stderrors.As(err, &ce) {
		return ce
	}
	return New(code).Wrap(err)
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &Error{Code: code})
}

// CodeOf returns the code of the first coded error in err's chain.
func CodeOf(err error) string {
	var ce *Error
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
