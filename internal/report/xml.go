package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/cpdkit/cpd/internal/types"
)

type xmlReport struct {
	XMLName      xml.Name         `xml:"pmd-cpd"`
	Duplications []xmlDuplication `xml:"duplication"`
}

type xmlDuplication struct {
	Lines    int       `xml:"lines,attr"`
	Tokens   int       `xml:"tokens,attr"`
	Files    []xmlFile `xml:"file"`
	Fragment xmlCDATA  `xml:"codefragment"`
}

type xmlFile struct {
	Line      int    `xml:"line,attr"`
	EndLine   int    `xml:"endline,attr"`
	Column    int    `xml:"column,attr"`
	EndColumn int    `xml:"endcolumn,attr"`
	Path      string `xml:"path,attr"`
}

type xmlCDATA struct {
	Text string `xml:",cdata"`
}

// xmlChars replaces characters outside the XML 1.0 Char production with
// U+FFFD. CDATA sections are written unescaped, so they must be clean.
func xmlChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r',
			r >= 0x20 && r <= 0xD7FF,
			r >= 0xE000 && r <= 0xFFFD,
			r >= 0x10000 && r <= 0x10FFFF:
			return r
		}
		return '\uFFFD'
	}, s)
}

// xmlRenderer writes the pmd-cpd XML document.
type xmlRenderer struct {
	encoding string
}

func (r xmlRenderer) Render(matches []types.Match) ([]byte, error) {
	doc := xmlReport{Duplications: make([]xmlDuplication, 0, len(matches))}
	for _, m := range matches {
		d := xmlDuplication{Lines: m.Lines, Tokens: m.Tokens, Fragment: xmlCDATA{Text: xmlChars(m.Fragment)}}
		for _, mk := range m.Marks {
			d.Files = append(d.Files, xmlFile{
				Line:      mk.BeginLine,
				EndLine:   mk.EndLine,
				Column:    mk.BeginColumn,
				EndColumn: mk.EndColumn,
				Path:      mk.Path,
			})
		}
		doc.Duplications = append(doc.Duplications, d)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", r.encoding)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "   ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
