package language

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// lexerTokenizer adapts a chroma lexer.
type lexerTokenizer struct {
	lexer chroma.Lexer
	opts  Options
}

func (t *lexerTokenizer) Name() string { return t.lexer.Config().Name }

func (t *lexerTokenizer) Tokenize(src string) ([]Token, error) {
	it, err := t.lexer.Tokenise(nil, src)
	if err != nil {
		return nil, err
	}
	var out []Token
	pos := position{line: 1, column: 1}
	for tok := it(); tok != chroma.EOF; tok = it() {
		start := pos
		pos.advance(tok.Value)

		if tok.Type == chroma.Error {
			return nil, &SyntaxError{Line: start.line, Column: start.column, Text: truncate(tok.Value)}
		}
		if strings.TrimSpace(tok.Value) == "" || tok.Type.InCategory(chroma.Comment) {
			continue
		}
		if t.opts.IgnoreAnnotations && tok.Type == chroma.NameDecorator {
			continue
		}
		endLine, endCol := start.span(tok.Value)
		out = append(out, Token{
			Image:     t.image(tok),
			Line:      start.line,
			Column:    start.column,
			EndLine:   endLine,
			EndColumn: endCol,
		})
	}
	return out, nil
}

func (t *lexerTokenizer) image(tok chroma.Token) string {
	switch {
	case t.opts.IgnoreLiterals && tok.Type.InCategory(chroma.Literal):
		return tok.Type.Category().String()
	case t.opts.IgnoreIdentifiers && tok.Type.InCategory(chroma.Name) && tok.Type != chroma.NameBuiltin:
		return chroma.Name.String()
	}
	return strings.TrimSpace(tok.Value)
}

func truncate(s string) string {
	const max = 20
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}
