package cpd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cpdkit/cpd/internal/config"
	"github.com/cpdkit/cpd/internal/language"
	"github.com/cpdkit/cpd/internal/report"
)

var (
	cfgOutput          string
	cfgLanguage        string
	cfgMinimumTokens   int
	cfgEncoding        string
	cfgReportDir       string
	cfgKinds           []string
	cfgIgnoreFailures  bool
	cfgThreads         int
	cfgMaxBytes        int64
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgForce           bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .cpd.yml with the selected language and reports",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the local and global config files that would be used",
		RunE:  runConfigShow,
	}
	cfgCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&flagPath, "path", "p", ".", "root directory holding the local config")
	showCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "explicit config file instead of the local lookup")

	initCmd.Flags().StringVar(&cfgOutput, "output", ".cpd.yml", "output file path (.yml or .toml)")
	initCmd.Flags().StringVar(&cfgLanguage, "language", "any", "language id; see 'cpd languages'")
	initCmd.Flags().IntVar(&cfgMinimumTokens, "minimum-tokens", defaultMinimumTokens, "smallest duplicate reported, in tokens")
	initCmd.Flags().StringVar(&cfgEncoding, "encoding", "UTF-8", "source and report charset")
	initCmd.Flags().StringVar(&cfgReportDir, "report-dir", "build/reports/cpd", "directory reports are written to")
	initCmd.Flags().StringSliceVar(&cfgKinds, "reports", []string{"xml"}, "report kinds to enable: csv,text,xml")
	initCmd.Flags().BoolVar(&cfgIgnoreFailures, "ignore-failures", false, "warn instead of failing when duplicates exist")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "parallel file reads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", defaultMaxBytes, "skip files larger than this")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	fc, err := starterConfig()
	if err != nil {
		return err
	}
	if !cfgForce {
		if _, err := os.Stat(cfgOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
		}
	}
	b, err := config.Marshal(cfgOutput, fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

// starterConfig builds the file config from the init flags.
func starterConfig() (config.FileConfig, error) {
	if _, err := language.FileFilter(cfgLanguage); err != nil {
		return config.FileConfig{}, fmt.Errorf("unknown language %q; run 'cpd languages' for the list", cfgLanguage)
	}

	var reports []config.ReportConfig
	for _, raw := range cfgKinds {
		kind, err := report.ParseKind(raw)
		if err != nil {
			return config.FileConfig{}, err
		}
		reports = append(reports, config.ReportConfig{
			Kind:        kind.String(),
			Destination: filepath.ToSlash(filepath.Join(cfgReportDir, "cpd."+extension(kind))),
		})
	}

	return config.FileConfig{
		MinimumTokens:   &cfgMinimumTokens,
		Language:        strPtr(cfgLanguage),
		Encoding:        optStrPtr(cfgEncoding),
		IgnoreFailures:  boolPtr(cfgIgnoreFailures),
		MaxBytes:        int64Ptr(cfgMaxBytes),
		Threads:         intPtr(cfgThreads),
		NoColor:         boolPtr(cfgNoColor),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
		Reports:         reports,
	}, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	root, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}
	lcfg, gcfg, err := loadConfigs(root, flagConfig)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, section := range []struct {
		name string
		fc   config.FileConfig
	}{{"# global (" + config.GlobalDir() + ")", gcfg}, {"# local (" + root + ")", lcfg}} {
		b, err := yaml.Marshal(&section.fc)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, section.name)
		fmt.Fprint(out, string(b))
	}
	return nil
}

func extension(k report.Kind) string {
	if k == report.Text {
		return "txt"
	}
	return k.String()
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
