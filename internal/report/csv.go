package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/cpdkit/cpd/internal/types"
)

// csvRenderer writes one row per match:
//
//	lines,tokens,occurrences[,line,endline,path]...
type csvRenderer struct {
	separator rune
}

func (r csvRenderer) Render(matches []types.Match) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = r.separator

	if err := w.Write([]string{"lines", "tokens", "occurrences"}); err != nil {
		return nil, err
	}
	for _, m := range matches {
		row := make([]string, 0, 3+3*len(m.Marks))
		row = append(row, strconv.Itoa(m.Lines), strconv.Itoa(m.Tokens), strconv.Itoa(len(m.Marks)))
		for _, mk := range m.Marks {
			row = append(row, strconv.Itoa(mk.BeginLine), strconv.Itoa(mk.EndLine), mk.Path)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
