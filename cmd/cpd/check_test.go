package cpd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpdkit/cpd/internal/config"
	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/report"
)

func resetCheckFlags(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	flagPath, flagConfig = ".", ""
	flagInclude, flagExclude = "", ""
	flagMaxBytes, flagMinimumTokens = 0, 0
	flagLanguage, flagEncoding, flagSeparator = "", "", ""
	flagOptions, flagReports = nil, nil
	flagIgnoreFailures, flagSkipLexicalErrors, flagSkipDuplicateFiles = false, false, false
	flagGitTracked, flagDefaultExcludes = false, true
	flagTop, flagQuiet, flagHistory = 10, false, false
	flagThreads, flagNoColor, flagVerbose = 0, false, false
}

func never(string) bool { return false }

func numbered(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "v%d", i)
		if (i+1)%5 == 0 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

func TestParseReportFlag(t *testing.T) {
	s, err := parseReportFlag("XML:build/cpd.xml")
	require.NoError(t, err)
	assert.Equal(t, report.Spec{Kind: report.XML, Destination: "build/cpd.xml"}, s)

	s, err = parseReportFlag(`text:C:\reports\cpd.txt`)
	require.NoError(t, err)
	assert.Equal(t, `C:\reports\cpd.txt`, s.Destination)

	_, err = parseReportFlag("build/cpd.xml")
	assert.True(t, errors.Is(err, cpderrors.ErrConfig))

	_, err = parseReportFlag("html:cpd.html")
	assert.True(t, errors.Is(err, cpderrors.ErrConfig))
}

func TestResolveCheck_Defaults(t *testing.T) {
	resetCheckFlags(t)
	cfg, opts, err := resolveCheck(never, "/src", config.FileConfig{}, config.FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, defaultMinimumTokens, cfg.Detection.MinimumTokens)
	assert.Equal(t, "any", cfg.Detection.Language)
	assert.Empty(t, cfg.Reports)
	assert.False(t, cfg.IgnoreFailures)
	assert.Equal(t, "/src", opts.Root)
	assert.Equal(t, int64(defaultMaxBytes), opts.MaxBytes)
	assert.True(t, opts.DefaultExcludes)
	require.NotNil(t, opts.Accept)
}

func TestResolveCheck_Precedence(t *testing.T) {
	resetCheckFlags(t)
	localMin, globalMin := 40, 80
	localLang := "go"
	off := false
	ignore := true
	lcfg := config.FileConfig{
		MinimumTokens:   &localMin,
		Language:        &localLang,
		DefaultExcludes: &off,
		LanguageOptions: map[string]any{"ignore_literals": true},
		Reports:         []config.ReportConfig{{Kind: "csv", Destination: "local.csv"}},
	}
	gcfg := config.FileConfig{
		MinimumTokens:  &globalMin,
		IgnoreFailures: &ignore,
		Reports:        []config.ReportConfig{{Kind: "xml", Destination: "global.xml"}},
	}

	flagSeparator = ";"
	cfg, opts, err := resolveCheck(never, "/src", lcfg, gcfg)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Detection.MinimumTokens)
	assert.Equal(t, "go", cfg.Detection.Language)
	assert.Equal(t, map[string]string{"ignore_literals": "true"}, cfg.Detection.LanguageOptions)
	assert.True(t, cfg.IgnoreFailures)
	assert.Equal(t, []report.Spec{{Kind: report.CSV, Destination: "local.csv", Separator: ';'}}, cfg.Reports)
	assert.False(t, opts.DefaultExcludes)
	assert.True(t, opts.Accept("main.go"))
	assert.False(t, opts.Accept("Main.java"))

	flagMinimumTokens = 25
	flagReports = []string{"text:cli.txt"}
	cfg, _, err = resolveCheck(never, "/src", lcfg, gcfg)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Detection.MinimumTokens)
	assert.Equal(t, []report.Spec{{Kind: report.Text, Destination: "cli.txt"}}, cfg.Reports)
}

func TestResolveCheck_ExplicitFalseOverridesConfig(t *testing.T) {
	resetCheckFlags(t)
	on := true
	lcfg := config.FileConfig{
		IgnoreFailures:     &on,
		SkipLexicalErrors:  &on,
		SkipDuplicateFiles: &on,
		GitTracked:         &on,
	}

	cfg, opts, err := resolveCheck(never, "/src", lcfg, config.FileConfig{})
	require.NoError(t, err)
	assert.True(t, cfg.IgnoreFailures)
	assert.True(t, cfg.Detection.SkipLexicalErrors)
	assert.True(t, cfg.Detection.SkipDuplicateFiles)
	assert.True(t, opts.GitTracked)

	all := func(string) bool { return true }
	cfg, opts, err = resolveCheck(all, "/src", lcfg, config.FileConfig{})
	require.NoError(t, err)
	assert.False(t, cfg.IgnoreFailures, "--ignore-failures=false must fail the build")
	assert.False(t, cfg.Detection.SkipLexicalErrors)
	assert.False(t, cfg.Detection.SkipDuplicateFiles)
	assert.False(t, opts.GitTracked)
}

func TestResolveCheck_UnknownLanguage(t *testing.T) {
	resetCheckFlags(t)
	flagLanguage = "cobol85-dialect-x"
	_, _, err := resolveCheck(never, "/src", config.FileConfig{}, config.FileConfig{})
	require.Error(t, err)
	assert.Equal(t, `configuration error: language "cobol85-dialect-x": unknown language`, err.Error())
}

func TestResolveCheck_ExplicitZeroMinimumTokens(t *testing.T) {
	resetCheckFlags(t)
	changed := func(name string) bool { return name == "minimum-tokens" }
	cfg, _, err := resolveCheck(changed, "/src", config.FileConfig{}, config.FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Detection.MinimumTokens, "the engine rejects it")
}

func TestCheckCommand_CleanRunWritesReports(t *testing.T) {
	resetCheckFlags(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte(numbered(30)), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("unrelated words here\n"), 0644))
	csvPath := filepath.Join(dir, "out", "cpd.csv")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetErr(nil); rootCmd.SetArgs(nil) })
	rootCmd.SetArgs([]string{"check", "-p", dir, "-m", "20", "--report", "csv:" + csvPath, "--no-color"})

	require.NoError(t, rootCmd.Execute())
	b, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "lines,tokens,occurrences\n", string(b))
	assert.Contains(t, stdout.String(), "No duplicates found")
	assert.Contains(t, stderr.String(), "No duplicates over 20 tokens found.")
}

// Runs the binary as a subprocess to observe the exit code of a failing run.
func TestCLI_DuplicatesExitCode(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(numbered(60)), 0644))
	}
	xmlPath := filepath.Join(dir, "cpd.xml")

	bin := filepath.Join(t.TempDir(), "cpd")
	build := exec.Command("go", "build", "-o", bin, ".")
	build.Dir = filepath.Clean(filepath.Join("..", ".."))
	build.Stderr = os.Stderr
	require.NoError(t, build.Run())

	run := func(extra ...string) (int, string) {
		args := append([]string{"check", "-q", "-p", dir, "-m", "30", "--exclude", "cpd.xml", "--report", "xml:" + xmlPath}, extra...)
		cmd := exec.Command(bin, args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		err := cmd.Run()
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return exit.ExitCode(), stderr.String()
		}
		require.NoError(t, err)
		return 0, stderr.String()
	}

	code, stderr := run()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "CPD found duplicate code. See the report at "+xmlPath)
	assert.FileExists(t, xmlPath)

	code, _ = run("--ignore-failures")
	assert.Equal(t, 0, code)

	code, stderr = run("--language", "cobol85-dialect-x")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "error: configuration error")
}
