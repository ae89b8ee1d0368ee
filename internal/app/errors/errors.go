package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error by the pipeline layer that produced it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig errors abort the run before any stage executes.
	KindConfig
	// KindProvider errors come from download providers; the lesson is skipped.
	KindProvider
	// KindTranscription errors come from audio extraction or the speech model.
	KindTranscription
	// KindRender errors come from the notes template or the PDF backend.
	KindRender
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindProvider:
		return "provider"
	case KindTranscription:
		return "transcription"
	case KindRender:
		return "render"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Common error types
var (
	// Configuration errors
	ErrConfigNotFound    = New(KindConfig, "configuration file not found")
	ErrInvalidConfig     = New(KindConfig, "invalid configuration")
	ErrMalformedProgress = New(KindConfig, "malformed progress file")

	// Provider errors
	ErrUnsupportedSource = New(KindProvider, "unsupported source kind")
	ErrSourceNotFound    = New(KindProvider, "source file not found")

	// Transcription errors
	ErrAudioExtraction = New(KindTranscription, "audio extraction failed")
	ErrTranscription   = New(KindTranscription, "transcription failed")

	// Rendering errors
	ErrPDFUnavailable = New(KindRender, "pdf renderer unavailable")

	// File errors
	ErrFileNotFound = New(KindIO, "file not found")
)

// Error represents a standardized error
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a new error
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a new formatted error
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    kind,
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, kind Kind, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error classification
func (e *Error) Kind() Kind {
	return e.kind
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return KindUnknown
		}
		if e.kind != KindUnknown {
			return e.kind
		}
		err = e.cause
	}
	return KindUnknown
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	return KindOf(err) == KindConfig
}

// Is is a shortcut for the standard library errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a shortcut for the standard library errors.As
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Helper functions for common patterns

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Wrap(ErrInvalidConfig, KindConfig, field+" is required")
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Wrapf(ErrInvalidConfig, KindConfig, "%s is invalid: %s", field, reason)
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return Wrapf(ErrFileNotFound, KindIO, "%s not found: %s", itemType, identifier)
}
