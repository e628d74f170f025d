// Package charset resolves IANA character set names and converts source and
// report text between them and UTF-8.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Default is used when no encoding is configured.
const Default = "UTF-8"

// Charset converts between UTF-8 and a named encoding.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// Lookup resolves an IANA name (case-insensitive, e.g. "UTF-8", "ISO-8859-1",
// "windows-1252"). An empty name selects UTF-8.
func Lookup(name string) (Charset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = Default
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return Charset{}, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return Charset{}, fmt.Errorf("encoding %q is not supported", name)
	}
	return Charset{name: name, enc: enc}, nil
}

// Name returns the configured name as given by the caller.
func (c Charset) Name() string { return c.name }

func (c Charset) isUTF8() bool { return c.enc == nil || c.enc == unicode.UTF8 }

// Decode converts raw file content to UTF-8 text.
func (c Charset) Decode(b []byte) (string, error) {
	if c.isUTF8() {
		b = stripBOM(b)
		if !utf8.Valid(b) {
			return "", fmt.Errorf("content is not valid %s", c.displayName())
		}
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.displayName(), err)
	}
	return string(out), nil
}

// Encode converts UTF-8 text to the target encoding. Characters the target
// cannot represent are replaced with the encoding's replacement byte.
func (c Charset) Encode(s string) ([]byte, error) {
	if c.isUTF8() {
		return []byte(s), nil
	}
	out, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.displayName(), err)
	}
	return out, nil
}

func (c Charset) displayName() string {
	if c.name == "" {
		return Default
	}
	return c.name
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
