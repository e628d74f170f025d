package cpd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpdkit/cpd/internal/audit"
	"github.com/cpdkit/cpd/internal/config"
	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/engine"
	"github.com/cpdkit/cpd/internal/fileset"
	"github.com/cpdkit/cpd/internal/language"
	"github.com/cpdkit/cpd/internal/report"
)

const (
	defaultMinimumTokens = 100
	defaultMaxBytes      = 1 << 20
)

var (
	flagPath               string
	flagConfig             string
	flagInclude            string
	flagExclude            string
	flagMaxBytes           int64
	flagMinimumTokens      int
	flagLanguage           string
	flagOptions            map[string]string
	flagEncoding           string
	flagReports            []string
	flagSeparator          string
	flagIgnoreFailures     bool
	flagSkipLexicalErrors  bool
	flagSkipDuplicateFiles bool
	flagGitTracked         bool
	flagDefaultExcludes    bool
	flagTop                int
	flagQuiet              bool
	flagHistory            bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Detect duplicated code, write reports and apply the failure policy",
		Long: `Detect duplicated code under --path, write every requested report and
exit 1 when duplicates exist (unless --ignore-failures is set).`,
		Example: `  cpd check -p src --language java --minimum-tokens 50 --report xml:build/cpd.xml
  cpd check --git-tracked --report text:cpd.txt --report csv:cpd.csv --csv-separator ';'`,
		RunE: runCheck,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "root directory to check")
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file (default: .cpd.yml in --path, then the global config)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1MiB)")
	cmd.Flags().IntVarP(&flagMinimumTokens, "minimum-tokens", "m", 0, fmt.Sprintf("smallest duplicate reported, in tokens (default %d)", defaultMinimumTokens))
	cmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "language id; see 'cpd languages' (default \"any\")")
	cmd.Flags().StringToStringVar(&flagOptions, "option", nil, "language option key=value (ignore_literals, ignore_identifiers, ignore_annotations)")
	cmd.Flags().StringVar(&flagEncoding, "encoding", "", "source and report charset (default UTF-8)")
	cmd.Flags().StringArrayVarP(&flagReports, "report", "r", nil, "report as kind:destination, kind is csv|text|xml (repeatable)")
	cmd.Flags().StringVar(&flagSeparator, "csv-separator", "", "CSV field separator: one character or \"tab\"")
	cmd.Flags().BoolVar(&flagIgnoreFailures, "ignore-failures", false, "warn instead of failing when duplicates exist")
	cmd.Flags().BoolVar(&flagSkipLexicalErrors, "skip-lexical-errors", false, "skip files that cannot be tokenized")
	cmd.Flags().BoolVar(&flagSkipDuplicateFiles, "skip-duplicate-files", false, "only check the first of several identical files")
	cmd.Flags().BoolVar(&flagGitTracked, "git-tracked", false, "only check files tracked by git")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (vendor, node_modules, minified files, etc.)")
	cmd.Flags().IntVar(&flagTop, "top", 10, "rows in the console summary (0 = all)")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "do not print the console summary")
	cmd.Flags().BoolVar(&flagHistory, "history", false, "append a summary of this run to the history file (see 'cpd history')")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	root, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}
	lcfg, gcfg, err := loadConfigs(root, flagConfig)
	if err != nil {
		return err
	}
	cfg, opts, err := resolveCheck(cmd.Flags().Changed, root, lcfg, gcfg)
	if err != nil {
		return err
	}
	noColor := pickBool(cmd.Flags().Changed, "no-color", flagNoColor, lcfg.NoColor, gcfg.NoColor, false)
	log := newLogger(cmd.ErrOrStderr(), noColor, flagVerbose)

	cfg.Files, err = fileset.Collect(opts)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	log.Debug("collected files", "root", root, "files", len(cfg.Files), "git_tracked", opts.GitTracked)

	res, err := engine.RunWithStats(cfg, log)
	failed := errors.Is(err, cpderrors.ErrDuplicatesFound)
	if err != nil && !failed {
		return err
	}
	if flagHistory {
		rec := audit.NewRecord(res.RunID, root, cfg.Detection.Language, cfg.Detection.MinimumTokens,
			res.Outcome.String(), res.Matches, res.FilesScanned, res.Duration)
		if herr := audit.NewLog(root).Append(rec); herr != nil {
			log.Warn("could not record run history", "error", herr)
		}
	}
	if !flagQuiet {
		if perr := report.PrintSummary(cmd.OutOrStdout(), res.Matches, report.PrintOptions{
			NoColor:      noColor,
			Duration:     res.Duration,
			FilesScanned: res.FilesScanned,
			Top:          flagTop,
		}); perr != nil {
			return perr
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

// loadConfigs returns the local and global file configs. An explicit path
// replaces the local lookup. Missing files are not an error.
func loadConfigs(root, explicit string) (local, global config.FileConfig, err error) {
	if g, gerr := config.LoadGlobal(); gerr == nil {
		global = g
	} else if !errors.Is(gerr, config.ErrNotFound) && config.GlobalDir() != "" {
		return local, global, gerr
	}
	if explicit != "" {
		local, err = config.LoadFile(explicit)
		return local, global, err
	}
	local, err = config.LoadLocal(root)
	if errors.Is(err, config.ErrNotFound) {
		err = nil
	}
	return local, global, err
}

// resolveCheck applies CLI > local > global precedence and returns the run
// configuration without files, plus the file selection options.
func resolveCheck(changed func(string) bool, root string, lcfg, gcfg config.FileConfig) (engine.Config, fileset.Options, error) {
	lang := pick(flagLanguage, lcfg.Language, gcfg.Language)
	if lang == "" {
		lang = language.AnyID
	}
	accept, err := language.FileFilter(lang)
	if err != nil {
		return engine.Config{}, fileset.Options{}, &cpderrors.ConfigError{Option: "language", Value: lang, Message: "unknown language"}
	}
	minTokens := pick(flagMinimumTokens, lcfg.MinimumTokens, gcfg.MinimumTokens)
	if minTokens == 0 && !changed("minimum-tokens") {
		minTokens = defaultMinimumTokens
	}
	maxBytes := pick(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes)
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	reports, err := resolveReports(lcfg, gcfg)
	if err != nil {
		return engine.Config{}, fileset.Options{}, err
	}

	cfg := engine.Config{
		Detection: engine.DetectionConfig{
			Encoding:           pick(flagEncoding, lcfg.Encoding, gcfg.Encoding),
			MinimumTokens:      minTokens,
			Language:           lang,
			LanguageOptions:    pickMap(flagOptions, lcfg.Options(), gcfg.Options()),
			SkipLexicalErrors:  pickBool(changed, "skip-lexical-errors", flagSkipLexicalErrors, lcfg.SkipLexicalErrors, gcfg.SkipLexicalErrors, false),
			SkipDuplicateFiles: pickBool(changed, "skip-duplicate-files", flagSkipDuplicateFiles, lcfg.SkipDuplicateFiles, gcfg.SkipDuplicateFiles, false),
			Threads:            pick(flagThreads, lcfg.Threads, gcfg.Threads),
		},
		Reports:        reports,
		IgnoreFailures: pickBool(changed, "ignore-failures", flagIgnoreFailures, lcfg.IgnoreFailures, gcfg.IgnoreFailures, false),
	}
	opts := fileset.Options{
		Root:            root,
		IncludeGlobs:    pick(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:    pick(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:        maxBytes,
		DefaultExcludes: pickBool(changed, "default-excludes", flagDefaultExcludes, lcfg.DefaultExcludes, gcfg.DefaultExcludes, true),
		GitTracked:      pickBool(changed, "git-tracked", flagGitTracked, lcfg.GitTracked, gcfg.GitTracked, false),
		Accept:          accept,
	}
	return cfg, opts, nil
}

// resolveReports takes --report flags when given, otherwise the first config
// that lists reports. --csv-separator fills in CSV reports without one.
func resolveReports(lcfg, gcfg config.FileConfig) ([]report.Spec, error) {
	var (
		specs []report.Spec
		err   error
	)
	switch {
	case len(flagReports) > 0:
		for _, raw := range flagReports {
			s, perr := parseReportFlag(raw)
			if perr != nil {
				return nil, perr
			}
			specs = append(specs, s)
		}
	case len(lcfg.Reports) > 0:
		specs, err = lcfg.Specs()
	default:
		specs, err = gcfg.Specs()
	}
	if err != nil {
		return nil, err
	}
	sep, err := config.ParseSeparator(flagSeparator)
	if err != nil {
		return nil, err
	}
	for i := range specs {
		if specs[i].Kind == report.CSV && specs[i].Separator == 0 {
			specs[i].Separator = sep
		}
	}
	return specs, nil
}

// parseReportFlag parses "kind:destination".
func parseReportFlag(raw string) (report.Spec, error) {
	kind, dest, ok := strings.Cut(raw, ":")
	if !ok {
		return report.Spec{}, &cpderrors.ConfigError{Option: "report", Value: raw, Message: "expected kind:destination"}
	}
	return config.ReportConfig{Kind: kind, Destination: dest}.Spec()
}
