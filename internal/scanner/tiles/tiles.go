// Package tiles finds duplicated token runs ("tiles") across registered sources.
//
// Every window of MinimumTokens tokens is hashed with a rolling hash. Windows
// sharing a hash are compared pairwise; a pair is only extended when it is
// left-maximal (the preceding tokens differ), so each duplicate is reported
// once at its full length. Pairs with the same length and content are merged
// into a single match carrying every location.
package tiles

import (
	"cmp"
	"encoding/binary"
	"errors"
	"iter"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/language"
	"github.com/cpdkit/cpd/internal/scanner"
	"github.com/cpdkit/cpd/internal/types"
)

// rolling hash multiplier (64-bit FNV prime)
const base uint64 = 1099511628211

// Engine implements scanner.Detector.
type Engine struct {
	tokenizer language.Tokenizer
	minimum   int
	files     []*file
	matches   []types.Match
	done      bool
}

type file struct {
	src    scanner.Source
	tokens []language.Token
	hashes []uint64
}

type occurrence struct {
	file int
	pos  int
}

type groupKey struct {
	tokens  int
	content uint64
}

// New returns an engine reporting runs of at least minimumTokens tokens.
func New(tokenizer language.Tokenizer, minimumTokens int) *Engine {
	return &Engine{tokenizer: tokenizer, minimum: minimumTokens}
}

// Add implements scanner.Detector.
func (e *Engine) Add(src scanner.Source) error {
	toks, err := e.tokenizer.Tokenize(src.Text)
	if err != nil {
		var se *language.SyntaxError
		if errors.As(err, &se) {
			return &cpderrors.LexicalError{Path: src.Path, Line: se.Line, Column: se.Column, Text: se.Text}
		}
		return &cpderrors.LexicalError{Path: src.Path, Cause: err}
	}
	hashes := make([]uint64, len(toks))
	for i, t := range toks {
		hashes[i] = xxhash.Sum64String(t.Image)
	}
	e.files = append(e.files, &file{src: src, tokens: toks, hashes: hashes})
	return nil
}

// Files returns the number of registered sources.
func (e *Engine) Files() int { return len(e.files) }

// Go implements scanner.Detector. Subsequent calls are no-ops.
func (e *Engine) Go() {
	if e.done {
		return
	}
	e.done = true

	groups := make(map[groupKey]map[occurrence]struct{})
	for _, occs := range e.windows() {
		if len(occs) < 2 {
			continue
		}
		for i := 1; i < len(occs); i++ {
			for j := 0; j < i; j++ {
				a, b := occs[j], occs[i]
				if !e.leftMaximal(a, b) {
					continue
				}
				n := e.extend(a, b)
				if n < e.minimum {
					continue
				}
				key := groupKey{tokens: n, content: e.contentHash(a, n)}
				set := groups[key]
				if set == nil {
					set = make(map[occurrence]struct{})
					groups[key] = set
				}
				set[a] = struct{}{}
				set[b] = struct{}{}
			}
		}
	}

	for key, set := range groups {
		occs := make([]occurrence, 0, len(set))
		for o := range set {
			occs = append(occs, o)
		}
		occs = e.dropOverlapping(occs, key.tokens)
		if len(occs) < 2 {
			continue
		}
		e.matches = append(e.matches, e.match(occs, key.tokens))
	}

	slices.SortStableFunc(e.matches, compareMatches)
}

// compareMatches orders by tokens descending, then by every mark position.
func compareMatches(a, b types.Match) int {
	if c := cmp.Compare(b.Tokens, a.Tokens); c != 0 {
		return c
	}
	for i := 0; i < len(a.Marks) && i < len(b.Marks); i++ {
		ma, mb := a.Marks[i], b.Marks[i]
		if c := cmp.Or(
			cmp.Compare(ma.Path, mb.Path),
			cmp.Compare(ma.BeginLine, mb.BeginLine),
			cmp.Compare(ma.BeginColumn, mb.BeginColumn),
			cmp.Compare(ma.EndLine, mb.EndLine),
			cmp.Compare(ma.EndColumn, mb.EndColumn),
		); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Marks), len(b.Marks))
}

// Matches implements scanner.Detector.
func (e *Engine) Matches() iter.Seq[types.Match] {
	return slices.Values(e.matches)
}

// windows buckets every MinimumTokens-long window by its rolling hash.
// Occurrences are appended in file then position order.
func (e *Engine) windows() map[uint64][]occurrence {
	m := e.minimum
	pow := uint64(1)
	for i := 1; i < m; i++ {
		pow *= base
	}
	buckets := make(map[uint64][]occurrence)
	for fi, f := range e.files {
		n := len(f.hashes)
		if n < m {
			continue
		}
		var h uint64
		for i := 0; i < m; i++ {
			h = h*base + f.hashes[i]
		}
		buckets[h] = append(buckets[h], occurrence{file: fi, pos: 0})
		for i := m; i < n; i++ {
			h = (h-f.hashes[i-m]*pow)*base + f.hashes[i]
			buckets[h] = append(buckets[h], occurrence{file: fi, pos: i - m + 1})
		}
	}
	return buckets
}

func (e *Engine) image(o occurrence, offset int) string {
	return e.files[o.file].tokens[o.pos+offset].Image
}

func (e *Engine) leftMaximal(a, b occurrence) bool {
	if a.pos == 0 || b.pos == 0 {
		return true
	}
	return e.image(a, -1) != e.image(b, -1)
}

// extend returns the length of the common token run starting at a and b.
// Runs inside one file never overlap.
func (e *Engine) extend(a, b occurrence) int {
	ta, tb := e.files[a.file].tokens, e.files[b.file].tokens
	n := 0
	for a.pos+n < len(ta) && b.pos+n < len(tb) && ta[a.pos+n].Image == tb[b.pos+n].Image {
		n++
	}
	if a.file == b.file {
		if gap := b.pos - a.pos; gap < n {
			n = gap
		}
	}
	return n
}

func (e *Engine) contentHash(o occurrence, n int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, h := range e.files[o.file].hashes[o.pos : o.pos+n] {
		binary.LittleEndian.PutUint64(buf[:], h)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// dropOverlapping sorts occurrences and removes those overlapping an
// earlier occurrence in the same file.
func (e *Engine) dropOverlapping(occs []occurrence, n int) []occurrence {
	sort.Slice(occs, func(i, j int) bool {
		pi, pj := e.files[occs[i].file].src.Path, e.files[occs[j].file].src.Path
		if pi != pj {
			return pi < pj
		}
		if occs[i].file != occs[j].file {
			return occs[i].file < occs[j].file
		}
		return occs[i].pos < occs[j].pos
	})
	out := occs[:0]
	lastFile, lastEnd := -1, -1
	for _, o := range occs {
		if o.file == lastFile && o.pos < lastEnd {
			continue
		}
		out = append(out, o)
		lastFile, lastEnd = o.file, o.pos+n
	}
	return out
}

func (e *Engine) match(occs []occurrence, n int) types.Match {
	marks := make([]types.Mark, len(occs))
	for i, o := range occs {
		toks := e.files[o.file].tokens
		first, last := toks[o.pos], toks[o.pos+n-1]
		marks[i] = types.Mark{
			Path:        e.files[o.file].src.Path,
			BeginLine:   first.Line,
			EndLine:     last.EndLine,
			BeginColumn: first.Column,
			EndColumn:   last.EndColumn,
		}
	}
	head := marks[0]
	return types.Match{
		Tokens:   n,
		Lines:    head.EndLine - head.BeginLine + 1,
		Marks:    marks,
		Fragment: e.files[occs[0].file].src.Lines(head.BeginLine, head.EndLine),
	}
}

var _ scanner.Detector = (*Engine)(nil)
