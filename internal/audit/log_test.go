package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpdkit/cpd/internal/types"
)

func TestNewLog_Location(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, ".cpd_history.jsonl"), NewLog(dir).Path())

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	assert.Equal(t, filepath.Join(dir, ".git", "cpd_history.jsonl"), NewLog(dir).Path())
}

func TestLog_AppendLoadNewestFirst(t *testing.T) {
	l := NewLog(t.TempDir())
	_, err := l.Load()
	assert.Error(t, err, "missing file")

	require.NoError(t, l.Append(RunRecord{RunID: "first", Duplicates: 1}))
	require.NoError(t, l.Append(RunRecord{RunID: "second", Duplicates: 0}))

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].RunID)
	assert.Equal(t, "first", records[1].RunID)
}

func TestNewRecord_Totals(t *testing.T) {
	matches := []types.Match{
		{Tokens: 50, Lines: 10, Marks: []types.Mark{
			{Path: "a.go", BeginLine: 1, EndLine: 10},
			{Path: "b.go", BeginLine: 5, EndLine: 14},
			{Path: "c.go", BeginLine: 1, EndLine: 10},
		}},
		{Tokens: 30, Lines: 4, Marks: []types.Mark{
			{Path: "a.go", BeginLine: 40, EndLine: 43},
			{Path: "d.go", BeginLine: 2, EndLine: 5},
		}},
	}
	r := NewRecord("run-1", "/src", "go", 30, "duplicates-failed", matches, 7, 1500*time.Millisecond)
	assert.Equal(t, 2, r.Duplicates)
	assert.Equal(t, 24, r.DuplicatedLines)
	assert.Equal(t, 130, r.DuplicatedTokens)
	assert.Equal(t, "1.5s", r.Duration)
	require.Len(t, r.Hotspots, 3)
	assert.Equal(t, "a.go", r.Hotspots[0].Path)
}
