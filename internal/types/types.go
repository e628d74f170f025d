package types

// Mark is one location of a duplicated fragment. Lines are 1-based and inclusive.
type Mark struct {
	Path        string `json:"path"`
	BeginLine   int    `json:"begin_line"`
	EndLine     int    `json:"end_line"`
	BeginColumn int    `json:"begin_column,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
}

// Match describes one duplicated token run and every place it occurs.
// A Match always carries at least two marks.
type Match struct {
	Tokens   int    `json:"tokens"`
	Lines    int    `json:"lines"`
	Marks    []Mark `json:"marks"`
	Fragment string `json:"fragment,omitempty"` // source text of the first mark
}

// FirstMark returns the first occurrence of the match.
func (m Match) FirstMark() Mark {
	if len(m.Marks) == 0 {
		return Mark{}
	}
	return m.Marks[0]
}
