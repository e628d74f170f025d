package cpderrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"config", &ConfigError{Option: "language"}, ErrConfig, true},
		{"config not file read", &ConfigError{}, ErrFileRead, false},
		{"file read", &FileReadError{Path: "a.go"}, ErrFileRead, true},
		{"lexical is lexical", &LexicalError{Path: "a.go"}, ErrLexical, true},
		{"lexical is file read class", &LexicalError{Path: "a.go"}, ErrFileRead, true},
		{"file read not lexical", &FileReadError{Path: "a.go"}, ErrLexical, false},
		{"report write", &ReportWriteError{Destination: "x.xml"}, ErrReportWrite, true},
		{"unsupported kind", &UnsupportedReportKindError{Kind: 9}, ErrUnsupportedReportKind, true},
		{"duplicates", &DuplicatesFoundError{Message: "m"}, ErrDuplicatesFound, true},
		{"wrapped", fmt.Errorf("run: %w", &FileReadError{Path: "a"}), ErrFileRead, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestFileReadError_UnwrapsCause(t *testing.T) {
	err := &FileReadError{Path: "missing.go", Cause: fs.ErrNotExist}
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.go")
}

func TestMessagesCarryContext(t *testing.T) {
	lex := &LexicalError{Path: "a.java", Line: 3, Column: 7, Text: "`"}
	assert.Equal(t, "lexical error in a.java at line 3, column 7: unexpected \"`\"", lex.Error())

	rw := &ReportWriteError{Kind: "xml", Destination: "build/cpd.xml", Cause: errors.New("disk full")}
	assert.Equal(t, "cannot write xml report to build/cpd.xml: disk full", rw.Error())

	cfg := &ConfigError{Option: "language", Value: "cobol85", Message: "unknown language"}
	assert.Equal(t, `configuration error: language "cobol85": unknown language`, cfg.Error())
}

func TestErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("detect: %w", &LexicalError{Path: "x.c", Line: 2})
	var lex *LexicalError
	if assert.True(t, errors.As(err, &lex)) {
		assert.Equal(t, 2, lex.Line)
	}
}
