package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// AnyID selects the language-agnostic tokenizer.
const AnyID = "any"

var (
	// ErrUnknownLanguage is returned when no tokenizer matches a language id.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrUnknownOption is returned for language options no tokenizer understands.
	ErrUnknownOption = errors.New("unknown language option")
)

// Token is one lexical unit. Image is the normalized text that takes part in
// duplicate comparison; positions are 1-based.
type Token struct {
	Image     string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Tokenizer turns source text into a token stream.
type Tokenizer interface {
	// Name returns the canonical language name.
	Name() string
	// Tokenize returns the comparable tokens of src. Whitespace and comments
	// are dropped. A *SyntaxError is returned for input the lexer rejects.
	Tokenize(src string) ([]Token, error)
}

// SyntaxError reports input a tokenizer could not lex.
type SyntaxError struct {
	Line   int
	Column int
	Text   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unexpected %q at line %d, column %d", e.Text, e.Line, e.Column)
}

// Options tune token normalization.
type Options struct {
	// IgnoreLiterals compares literals by kind rather than value.
	IgnoreLiterals bool
	// IgnoreIdentifiers compares identifiers by kind rather than name.
	IgnoreIdentifiers bool
	// IgnoreAnnotations drops annotations and decorators entirely.
	IgnoreAnnotations bool
}

// ParseOptions reads the recognized keys (ignore_literals, ignore_identifiers,
// ignore_annotations). Keys are case-insensitive; '-' and '_' are equivalent.
func ParseOptions(raw map[string]string) (Options, error) {
	var opts Options
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := strings.TrimSpace(raw[k])
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("option %s: invalid boolean %q", k, v)
		}
		switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_") {
		case "ignore_literals":
			opts.IgnoreLiterals = b
		case "ignore_identifiers":
			opts.IgnoreIdentifiers = b
		case "ignore_annotations":
			opts.IgnoreAnnotations = b
		default:
			return opts, fmt.Errorf("%w: %s", ErrUnknownOption, k)
		}
	}
	return opts, nil
}

// New returns the tokenizer for id. The id is either "any" or a lexer name,
// alias or file extension known to chroma (e.g. "java", "go", "py").
func New(id string, raw map[string]string) (Tokenizer, error) {
	opts, err := ParseOptions(raw)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty language id", ErrUnknownLanguage)
	}
	if strings.EqualFold(id, AnyID) {
		return &anyTokenizer{opts: opts}, nil
	}
	lexer := lexers.Get(id)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
	}
	return &lexerTokenizer{lexer: lexer, opts: opts}, nil
}

// IDs lists the accepted language ids: "any" followed by every chroma lexer name.
func IDs() []string {
	return append([]string{AnyID}, lexers.Names(false)...)
}

// position tracks 1-based line/column while walking source text.
type position struct {
	line   int
	column int
}

func (p *position) advance(s string) {
	for _, r := range s {
		if r == '\n' {
			p.line++
			p.column = 1
			continue
		}
		p.column++
	}
}

// span returns the end position (inclusive) of text starting at p.
func (p position) span(s string) (int, int) {
	end := p
	trimmed := strings.TrimRight(s, "\r\n")
	end.advance(trimmed)
	col := end.column - 1
	if col < 1 {
		col = 1
	}
	return end.line, col
}

// FileFilter returns a predicate accepting file names the language lexes.
// The "any" language accepts every file.
func FileFilter(id string) (func(path string) bool, error) {
	id = strings.TrimSpace(id)
	if strings.EqualFold(id, AnyID) {
		return func(string) bool { return true }, nil
	}
	lexer := lexers.Get(id)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
	}
	cfg := lexer.Config()
	patterns := append(append([]string{}, cfg.Filenames...), cfg.AliasFilenames...)
	return func(path string) bool {
		base := filepath.Base(path)
		for _, p := range patterns {
			if ok, _ := filepath.Match(p, base); ok {
				return true
			}
		}
		return false
	}, nil
}
