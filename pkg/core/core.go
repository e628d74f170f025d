package core

import (
	"github.com/cpdkit/cpd/internal/engine"
	"github.com/cpdkit/cpd/internal/logging"
	"github.com/cpdkit/cpd/internal/policy"
	"github.com/cpdkit/cpd/internal/report"
	"github.com/cpdkit/cpd/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type DetectionConfig = engine.DetectionConfig
type Result = engine.Result
type Match = types.Match
type Mark = types.Mark
type ReportSpec = report.Spec
type ReportKind = report.Kind
type Outcome = policy.Outcome
type Logger = logging.Logger

const (
	CSV  = report.CSV
	Text = report.Text
	XML  = report.XML
)

const (
	Clean            = policy.Clean
	DuplicatesWarned = policy.DuplicatesWarned
	DuplicatesFailed = policy.DuplicatesFailed
)

// Run detects duplicates, writes every configured report and applies the
// failure policy. A nil log discards output.
func Run(cfg Config, log Logger) (Outcome, error) {
	return engine.Run(cfg, log)
}

// RunWithStats is Run returning the matches and run statistics as well.
func RunWithStats(cfg Config, log Logger) (Result, error) {
	return engine.RunWithStats(cfg, log)
}

// Detect only runs detection over files; no report is written.
func Detect(cfg DetectionConfig, files []string, log Logger) ([]Match, error) {
	return engine.Detect(cfg, files, log)
}

// Languages returns the accepted language ids.
func Languages() []string { return engine.Languages() }
