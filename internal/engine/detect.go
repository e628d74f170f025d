package engine

import (
	"errors"
	"os"
	"runtime"
	"slices"

	xxhash "github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cpdkit/cpd/internal/charset"
	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/logging"
	"github.com/cpdkit/cpd/internal/scanner"
	"github.com/cpdkit/cpd/internal/scanner/factory"
	"github.com/cpdkit/cpd/internal/types"
)

// detection is a validated detector plus the charset for reading sources.
type detection struct {
	cfg      DetectionConfig
	detector scanner.Detector
	charset  charset.Charset
}

type detectStats struct {
	matches []types.Match
	scanned int
	skipped int
}

// Detect runs the detector over files and returns the materialized matches.
// Configuration problems are reported as *cpderrors.ConfigError before any
// file is read; an unreadable file fails with *cpderrors.FileReadError.
func Detect(cfg DetectionConfig, files []string, log logging.Logger) ([]types.Match, error) {
	d, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	stats, err := d.detect(files, logging.OrNop(log))
	if err != nil {
		return nil, err
	}
	return stats.matches, nil
}

func prepare(cfg DetectionConfig) (*detection, error) {
	cs, err := charset.Lookup(cfg.Encoding)
	if err != nil {
		return nil, &cpderrors.ConfigError{Option: "encoding", Value: cfg.Encoding, Cause: err}
	}
	det, err := factory.New(scanner.Config{
		MinimumTokens:   cfg.MinimumTokens,
		Language:        cfg.Language,
		LanguageOptions: cfg.LanguageOptions,
	})
	if err != nil {
		return nil, err
	}
	return &detection{cfg: cfg, detector: det, charset: cs}, nil
}

func (d *detection) detect(files []string, log logging.Logger) (detectStats, error) {
	var stats detectStats
	sources, err := readSources(files, d.charset, d.cfg.Threads)
	if err != nil {
		return stats, err
	}

	seen := make(map[contentKey]string)
	for _, src := range sources {
		if d.cfg.SkipDuplicateFiles {
			key := keyOf(src.Text)
			if first, ok := seen[key]; ok {
				log.Debug("skipping duplicate file", "path", src.Path, "same_as", first)
				stats.skipped++
				continue
			}
			seen[key] = src.Path
		}
		if err := d.detector.Add(src); err != nil {
			if d.cfg.SkipLexicalErrors && errors.Is(err, cpderrors.ErrLexical) {
				log.Warn("skipping file with lexical error", "path", src.Path, "error", err.Error())
				stats.skipped++
				continue
			}
			return stats, err
		}
		stats.scanned++
	}

	d.detector.Go()
	stats.matches = slices.Collect(d.detector.Matches())
	return stats, nil
}

// readSources loads and decodes files on a bounded worker group. The result
// keeps input order; on failure the error of the earliest failing file wins.
func readSources(files []string, cs charset.Charset, threads int) ([]scanner.Source, error) {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	sources := make([]scanner.Source, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(threads)
	for i, p := range files {
		g.Go(func() error {
			b, err := os.ReadFile(p)
			if err != nil {
				errs[i] = &cpderrors.FileReadError{Path: p, Cause: err}
				return errs[i]
			}
			text, err := cs.Decode(b)
			if err != nil {
				errs[i] = &cpderrors.FileReadError{Path: p, Cause: err}
				return errs[i]
			}
			sources[i] = scanner.Source{Path: p, Text: text}
			return nil
		})
	}
	if g.Wait() != nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	return sources, nil
}

type contentKey struct {
	sum    uint64
	length int
}

func keyOf(text string) contentKey {
	return contentKey{sum: xxhash.Sum64String(text), length: len(text)}
}
