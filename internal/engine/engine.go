package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/cpdkit/cpd/internal/logging"
	"github.com/cpdkit/cpd/internal/policy"
	"github.com/cpdkit/cpd/internal/report"
	"github.com/cpdkit/cpd/internal/scanner/factory"
	"github.com/cpdkit/cpd/internal/types"
)

// DetectionConfig configures the detector for one run.
type DetectionConfig struct {
	// Encoding is the IANA charset used to read sources and write reports.
	// Empty selects UTF-8.
	Encoding string
	// MinimumTokens is the smallest duplicated token run reported. Must be > 0.
	MinimumTokens int
	// Language is "any" or a chroma lexer name, alias or extension.
	Language        string
	LanguageOptions map[string]string
	// SkipLexicalErrors skips files that fail tokenization instead of failing the run.
	SkipLexicalErrors bool
	// SkipDuplicateFiles registers only the first of several byte-identical files.
	SkipDuplicateFiles bool
	// Threads bounds parallel file reads; <= 0 uses GOMAXPROCS.
	Threads int
}

// Config is everything a run needs.
type Config struct {
	Detection DetectionConfig
	// Files are read in order; registration order equals this order.
	Files   []string
	Reports []report.Spec
	// IgnoreFailures turns a duplicates failure into a warning.
	IgnoreFailures bool
}

// Result contains the matches, the outcome and basic run statistics.
type Result struct {
	RunID          string
	Matches        []types.Match
	Outcome        policy.Outcome
	Message        string
	FilesScanned   int
	FilesSkipped   int
	ReportsWritten int
	Duration       time.Duration
}

// Languages returns the accepted language ids.
func Languages() []string {
	return factory.Languages()
}

// Run executes a pass and returns only the outcome. The error is a
// *cpderrors.DuplicatesFoundError when duplicates fail the run.
func Run(cfg Config, log logging.Logger) (policy.Outcome, error) {
	res, err := RunWithStats(cfg, log)
	return res.Outcome, err
}

// RunWithStats executes a pass: detect once, write every report in order and
// evaluate the policy. The first report that cannot be written aborts the
// remaining ones. A nil log discards output.
func RunWithStats(cfg Config, log logging.Logger) (res Result, err error) {
	res.RunID = uuid.NewString()
	log = logging.OrNop(log).With("run", res.RunID)
	started := time.Now()
	defer func() { res.Duration = time.Since(started) }()

	d, err := prepare(cfg.Detection)
	if err != nil {
		return res, err
	}
	stats, err := d.detect(cfg.Files, log)
	res.FilesScanned, res.FilesSkipped = stats.scanned, stats.skipped
	if err != nil {
		return res, err
	}
	res.Matches = stats.matches
	log.Debug("detection finished", "files", stats.scanned, "skipped", stats.skipped, "matches", len(stats.matches))

	for _, spec := range cfg.Reports {
		if err := writeReport(spec, res.Matches, d.charset); err != nil {
			return res, err
		}
		res.ReportsWritten++
		log.Debug("report written", "kind", spec.Kind.String(), "destination", spec.Destination)
	}

	primary := ""
	if len(cfg.Reports) > 0 {
		primary = cfg.Reports[0].Destination
	}
	verdict := policy.Evaluate(res.Matches, cfg.IgnoreFailures, primary, cfg.Detection.MinimumTokens)
	res.Outcome, res.Message = verdict.Outcome, verdict.Message
	if verdict.Outcome == policy.Clean {
		log.Info(verdict.Message)
	} else {
		log.Warn(verdict.Message, "duplicates", len(res.Matches))
	}
	return res, verdict.Err()
}
