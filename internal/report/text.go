package report

import (
	"fmt"
	"strings"

	"github.com/cpdkit/cpd/internal/types"
)

const textRule = "====================================================================="

// textRenderer writes the plain-text report, one block per match separated by a rule.
type textRenderer struct{}

func (textRenderer) Render(matches []types.Match) ([]byte, error) {
	var sb strings.Builder
	for i, m := range matches {
		if i > 0 {
			sb.WriteString(textRule)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Found a %d line (%d tokens) duplication in the following files:\n", m.Lines, m.Tokens)
		for _, mk := range m.Marks {
			fmt.Fprintf(&sb, "Starting at line %d of %s\n", mk.BeginLine, mk.Path)
		}
		sb.WriteString("\n")
		if m.Fragment != "" {
			sb.WriteString(m.Fragment)
			if !strings.HasSuffix(m.Fragment, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return []byte(sb.String()), nil
}
