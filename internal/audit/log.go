// Package audit keeps an append-only JSON Lines history of cpd runs so that
// duplication can be tracked over time.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cpdkit/cpd/internal/report"
	"github.com/cpdkit/cpd/internal/types"
)

// RunRecord is one line of the history file.
type RunRecord struct {
	Timestamp        time.Time        `json:"timestamp"`
	RunID            string           `json:"run_id"`
	Root             string           `json:"root"`
	Language         string           `json:"language"`
	MinimumTokens    int              `json:"minimum_tokens"`
	Outcome          string           `json:"outcome"`
	Duplicates       int              `json:"duplicates"`
	DuplicatedLines  int              `json:"duplicated_lines"`
	DuplicatedTokens int              `json:"duplicated_tokens"`
	FilesScanned     int              `json:"files_scanned"`
	Duration         string           `json:"duration"`
	Hotspots         []report.Hotspot `json:"hotspots,omitempty"`
}

// Log is the history file of one repository.
type Log struct {
	path string
}

// NewLog stores history under .git when root is a repository, otherwise in
// .cpd_history.jsonl at root.
func NewLog(root string) *Log {
	path := filepath.Join(root, ".cpd_history.jsonl")
	if st, err := os.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		path = filepath.Join(root, ".git", "cpd_history.jsonl")
	}
	return &Log{path: path}
}

// Path returns the history file location.
func (l *Log) Path() string { return l.path }

// Load returns the records newest first. Malformed lines are skipped.
func (l *Log) Load() ([]RunRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var r RunRecord
		if err := dec.Decode(&r); err != nil {
			break
		}
		records = append(records, r)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Append adds one record to the end of the file.
func (l *Log) Append(r RunRecord) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf("failed to write history record: %w", err)
	}
	return nil
}

// NewRecord summarizes a finished run. At most three hotspots are kept.
func NewRecord(runID, root, language string, minimumTokens int, outcome string, matches []types.Match, filesScanned int, duration time.Duration) RunRecord {
	r := RunRecord{
		Timestamp:     time.Now().UTC(),
		RunID:         runID,
		Root:          root,
		Language:      language,
		MinimumTokens: minimumTokens,
		Outcome:       outcome,
		Duplicates:    len(matches),
		FilesScanned:  filesScanned,
		Duration:      duration.Round(time.Millisecond).String(),
	}
	for _, m := range matches {
		// every occurrence beyond the first is redundant code
		r.DuplicatedLines += m.Lines * (len(m.Marks) - 1)
		r.DuplicatedTokens += m.Tokens * (len(m.Marks) - 1)
	}
	hs := report.Hotspots(matches)
	if len(hs) > 3 {
		hs = hs[:3]
	}
	r.Hotspots = hs
	return r
}
