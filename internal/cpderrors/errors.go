package cpderrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrConfig indicates an invalid detection or report configuration.
	ErrConfig = errors.New("configuration error")

	// ErrFileRead indicates a registered source file could not be loaded.
	ErrFileRead = errors.New("file read error")

	// ErrLexical indicates a source file could not be tokenized.
	ErrLexical = errors.New("lexical error")

	// ErrReportWrite indicates a rendered report could not be produced or stored.
	ErrReportWrite = errors.New("report write error")

	// ErrUnsupportedReportKind indicates a report kind outside the fixed set.
	ErrUnsupportedReportKind = errors.New("unsupported report kind")

	// ErrDuplicatesFound indicates duplicates were found and failures are not ignored.
	ErrDuplicatesFound = errors.New("duplicates found")
)

// ConfigError reports a configuration value that cannot be used.
type ConfigError struct {
	// Option names the offending setting (e.g. "language", "minimum_tokens").
	Option string
	// Value is the rejected value, if any.
	Value any
	// Message describes the problem.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += ": " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" %q", fmt.Sprint(e.Value))
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error { return e.Cause }

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// FileReadError reports a source file that could not be read or decoded.
type FileReadError struct {
	Path  string
	Cause error
}

// Error returns a human-readable error message.
func (e *FileReadError) Error() string {
	msg := "cannot read " + e.Path
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FileReadError) Unwrap() error { return e.Cause }

// Is reports whether target matches this error type.
func (e *FileReadError) Is(target error) bool { return target == ErrFileRead }

// LexicalError reports a file that failed tokenization. It belongs to the
// file read class as well, so errors.Is(err, ErrFileRead) holds.
type LexicalError struct {
	Path   string
	Line   int
	Column int
	// Text is the offending input, truncated by the tokenizer.
	Text  string
	Cause error
}

// Error returns a human-readable error message.
func (e *LexicalError) Error() string {
	msg := "lexical error in " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Text != "" {
		msg += fmt.Sprintf(": unexpected %q", e.Text)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LexicalError) Unwrap() error { return e.Cause }

// Is reports whether target matches this error type.
func (e *LexicalError) Is(target error) bool {
	return target == ErrLexical || target == ErrFileRead
}

// ReportWriteError reports a report that could not be rendered or written.
type ReportWriteError struct {
	Kind        string
	Destination string
	Cause       error
}

// Error returns a human-readable error message.
func (e *ReportWriteError) Error() string {
	msg := "cannot write"
	if e.Kind != "" {
		msg += " " + e.Kind
	}
	msg += " report"
	if e.Destination != "" {
		msg += " to " + e.Destination
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReportWriteError) Unwrap() error { return e.Cause }

// Is reports whether target matches this error type.
func (e *ReportWriteError) Is(target error) bool { return target == ErrReportWrite }

// UnsupportedReportKindError is a programming error: a report kind outside
// the fixed set reached the renderer registry.
type UnsupportedReportKindError struct {
	Kind int
}

// Error returns a human-readable error message.
func (e *UnsupportedReportKindError) Error() string {
	return fmt.Sprintf("unsupported report kind %d", e.Kind)
}

// Is reports whether target matches this error type.
func (e *UnsupportedReportKindError) Is(target error) bool {
	return target == ErrUnsupportedReportKind
}

// DuplicatesFoundError is the policy failure raised when duplicates exist
// and the caller did not ask to ignore them.
type DuplicatesFoundError struct {
	Message string
	Count   int
}

// Error returns the policy message.
func (e *DuplicatesFoundError) Error() string { return e.Message }

// Is reports whether target matches this error type.
func (e *DuplicatesFoundError) Is(target error) bool { return target == ErrDuplicatesFound }
