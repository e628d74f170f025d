package language

import (
	"strings"
	"unicode"
)

// separators split words; every non-space separator is itself a token.
const separators = " \t:.;{}()[]#!<>=,+-*/%&|^~?@\n\r"

// anyTokenizer is a language-agnostic word/punctuation tokenizer.
type anyTokenizer struct {
	opts Options
}

func (t *anyTokenizer) Name() string { return "Any" }

func (t *anyTokenizer) Tokenize(src string) ([]Token, error) {
	var out []Token
	for i, line := range strings.Split(src, "\n") {
		out = t.tokenizeLine(out, strings.TrimRight(line, "\r"), i+1)
	}
	return out, nil
}

func (t *anyTokenizer) tokenizeLine(out []Token, line string, lineNo int) []Token {
	runes := []rune(line)
	emit := func(image string, start, end int) {
		out = append(out, Token{Image: image, Line: lineNo, Column: start + 1, EndLine: lineNo, EndColumn: end})
	}
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '"' || r == '\'' || r == '`':
			j := i + 1
			for j < len(runes) && runes[j] != r {
				if runes[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(runes) {
				j = len(runes) - 1
			}
			image := string(runes[i : j+1])
			if t.opts.IgnoreLiterals {
				image = "String"
			}
			emit(image, i, j+1)
			i = j + 1
		case r == '@' && t.opts.IgnoreAnnotations:
			j := i + 1
			for j < len(runes) && !strings.ContainsRune(separators, runes[j]) {
				j++
			}
			i = j
		case strings.ContainsRune(separators, r):
			emit(string(r), i, i+1)
			i++
		default:
			j := i
			for j < len(runes) && !strings.ContainsRune(separators, runes[j]) &&
				runes[j] != '"' && runes[j] != '\'' && runes[j] != '`' && !unicode.IsSpace(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			switch {
			case t.opts.IgnoreLiterals && unicode.IsDigit(r):
				word = "Number"
			case t.opts.IgnoreIdentifiers && !unicode.IsDigit(r):
				word = "Name"
			}
			emit(word, i, j)
			i = j
		}
	}
	return out
}
