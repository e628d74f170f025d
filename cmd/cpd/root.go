package cpd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cpdkit/cpd/internal/logging"
)

var (
	flagThreads int
	flagNoColor bool
	flagVerbose bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the cpd CLI.
var rootCmd = &cobra.Command{
	Use:           "cpd",
	Short:         "Find copy-pasted code",
	Long:          "cpd tokenizes your sources, reports duplicated token runs as CSV, text or XML and can fail the build when duplicates exist.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the cpd CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "parallel file reads (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log debug details")
}

// newLogger builds the console logger used by commands. Color is dropped
// when w is not a terminal.
func newLogger(w io.Writer, noColor, verbose bool) logging.Logger {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		noColor = true
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := logging.NewConsoleHandler(w, &logging.ConsoleOptions{Level: level, NoColor: noColor})
	return logging.NewSlogAdapter(slog.New(h))
}
