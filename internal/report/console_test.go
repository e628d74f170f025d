package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSummary_NoMatches_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, nil, PrintOptions{NoColor: true, Duration: 1200 * time.Millisecond, FilesScanned: 10}))
	out := buf.String()
	assert.Contains(t, out, "No duplicates found")
	assert.Contains(t, out, "Duplicates: 0")
	assert.Contains(t, out, "Scan duration: 1.20s")
	assert.Contains(t, out, "Files scanned: 10")
}

func TestPrintSummary_WithMatches(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, sampleMatches(), PrintOptions{NoColor: true, Top: 1}))
	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "TOKENS")
	assert.Contains(t, out, "src/a.java:1")
	assert.NotContains(t, out, "src/c.java:7")
	assert.Contains(t, out, "(showing top 1 of 2)")
	assert.Contains(t, out, "Duplication hotspots (lines):")
}

func TestHotspots(t *testing.T) {
	spots := Hotspots(sampleMatches())
	require.Len(t, spots, 5)
	assert.Equal(t, Hotspot{Path: "src/a.java", Lines: 10}, spots[0])
	assert.Equal(t, Hotspot{Path: "src/b.java", Lines: 10}, spots[1])
	assert.Equal(t, 3, spots[4].Lines)
}
