package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cpdkit/cpd/internal/types"
	"github.com/olekukonko/tablewriter"
)

// Theme defines the color scheme for the console summary.
type Theme struct {
	Summary  lipgloss.Style
	Location lipgloss.Style
	LineNum  lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultTheme is the default color scheme.
var DefaultTheme = Theme{
	Summary:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	Location: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	LineNum:  lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
	Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	// Top limits the table rows; zero shows every match.
	Top int
	// Hotspots is the number of files listed by duplicated lines; zero selects 5.
	Hotspots int
}

// PrintSummary writes a human-oriented overview of matches: a table of the
// largest duplicates, the files with the most duplicated lines and a footer.
func PrintSummary(w io.Writer, matches []types.Match, opts PrintOptions) error {
	paint := func(s lipgloss.Style, text string) string {
		if opts.NoColor {
			return text
		}
		return s.Render(text)
	}

	if len(matches) == 0 {
		fmt.Fprintln(w, "No duplicates found ✅")
	} else {
		rows := matches
		if opts.Top > 0 && len(rows) > opts.Top {
			rows = rows[:opts.Top]
		}
		table := tablewriter.NewWriter(w)
		table.Header("Tokens", "Lines", "Occurrences", "Location")
		for _, m := range rows {
			first := m.FirstMark()
			loc := first.Path + ":" + strconv.Itoa(first.BeginLine)
			if err := table.Append([]string{
				strconv.Itoa(m.Tokens),
				strconv.Itoa(m.Lines),
				strconv.Itoa(len(m.Marks)),
				loc,
			}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		if len(rows) < len(matches) {
			fmt.Fprintln(w, paint(DefaultTheme.Dim, fmt.Sprintf("(showing top %d of %d)", len(rows), len(matches))))
		}
		printHotspots(w, matches, opts, paint)
	}

	if opts.Duration > 0 || opts.FilesScanned > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Duplicates: %s\n", paint(DefaultTheme.Summary, strconv.Itoa(len(matches))))
		if opts.Duration > 0 {
			fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
		}
		if opts.FilesScanned > 0 {
			fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
		}
	}
	return nil
}

// Hotspot is a file and the number of its lines covered by duplicates.
type Hotspot struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// Hotspots ranks files by duplicated lines, largest first, ties by path.
func Hotspots(matches []types.Match) []Hotspot {
	byFile := make(map[string]int)
	for _, m := range matches {
		for _, mk := range m.Marks {
			byFile[mk.Path] += mk.EndLine - mk.BeginLine + 1
		}
	}
	out := make([]Hotspot, 0, len(byFile))
	for p, n := range byFile {
		out = append(out, Hotspot{Path: p, Lines: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lines != out[j].Lines {
			return out[i].Lines > out[j].Lines
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func printHotspots(w io.Writer, matches []types.Match, opts PrintOptions, paint func(lipgloss.Style, string) string) {
	spots := Hotspots(matches)
	limit := opts.Hotspots
	if limit <= 0 {
		limit = 5
	}
	if len(spots) > limit {
		spots = spots[:limit]
	}
	fmt.Fprintf(w, "\n%s\n", paint(DefaultTheme.Summary, "Duplication hotspots (lines):"))
	for _, h := range spots {
		fmt.Fprintf(w, "  %s %s\n",
			paint(DefaultTheme.LineNum, fmt.Sprintf("%4d", h.Lines)),
			paint(DefaultTheme.Location, h.Path))
	}
}
