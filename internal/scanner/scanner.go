package scanner

import (
	"iter"
	"strings"

	"github.com/cpdkit/cpd/internal/types"
)

// Detector is the boundary to a duplicate-detection engine.
// The lifecycle is fixed: construct, Add every source, Go once, then Matches.
type Detector interface {
	// Add registers one source. It returns a *cpderrors.LexicalError when the
	// text cannot be tokenized.
	Add(src Source) error

	// Go runs detection over every registered source. It is synchronous.
	Go()

	// Matches yields the matches found by Go. Calling it before Go yields nothing.
	Matches() iter.Seq[types.Match]
}

// Config is the engine-facing part of a detection configuration.
type Config struct {
	// MinimumTokens is the smallest duplicate run reported. Must be > 0.
	MinimumTokens int
	// Language selects the tokenizer ("any" or a chroma lexer id).
	Language string
	// LanguageOptions tune the tokenizer (ignore_literals, ignore_identifiers,
	// ignore_annotations).
	LanguageOptions map[string]string
}

// Source is one decoded file handed to a Detector.
type Source struct {
	// Path is the display path used in marks.
	Path string
	// Text is the UTF-8 content.
	Text string
}

// Lines returns the 1-based inclusive line range [begin, end] of the text.
// Out of range bounds are clamped.
func (s Source) Lines(begin, end int) string {
	lines := strings.Split(strings.ReplaceAll(s.Text, "\r\n", "\n"), "\n")
	if begin < 1 {
		begin = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if begin > end {
		return ""
	}
	return strings.Join(lines[begin-1:end], "\n")
}
