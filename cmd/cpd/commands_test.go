package cpd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpdkit/cpd/internal/audit"
	"github.com/cpdkit/cpd/internal/config"
)

func TestWriteCITemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := writeCITemplate(dir, "github")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".github", "workflows", "cpd.yml"), path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "cpd check --git-tracked")

	_, err = writeCITemplate(dir, "jenkins")
	assert.Error(t, err)
}

func TestConfigInit_RoundTrip(t *testing.T) {
	for _, name := range []string{".cpd.yml", "cpd.toml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfgOutput = filepath.Join(dir, name)
			cfgLanguage, cfgMinimumTokens, cfgEncoding = "go", 75, "UTF-8"
			cfgReportDir, cfgKinds = "build/cpd", []string{"xml", "text"}
			cfgIgnoreFailures, cfgThreads, cfgMaxBytes = true, 0, defaultMaxBytes
			cfgDefaultExcludes, cfgForce = true, false

			require.NoError(t, runConfigInit(rootCmd, nil))
			assert.Error(t, runConfigInit(rootCmd, nil), "existing file needs --force")

			fc, err := config.LoadLocal(dir)
			require.NoError(t, err)
			require.NotNil(t, fc.MinimumTokens)
			assert.Equal(t, 75, *fc.MinimumTokens)
			assert.Equal(t, "go", *fc.Language)
			assert.True(t, *fc.IgnoreFailures)
			assert.Nil(t, fc.Threads)
			specs, err := fc.Specs()
			require.NoError(t, err)
			require.Len(t, specs, 2)
			assert.Equal(t, "build/cpd/cpd.xml", specs[0].Destination)
			assert.Equal(t, "build/cpd/cpd.txt", specs[1].Destination)
		})
	}
}

func TestConfigInit_UnknownLanguage(t *testing.T) {
	cfgLanguage, cfgKinds = "cobol85-dialect-x", []string{"xml"}
	_, err := starterConfig()
	assert.Error(t, err)
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil, 0))
	assert.Equal(t, "No runs recorded.\n", buf.String())

	buf.Reset()
	records := []audit.RunRecord{
		{Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), Outcome: "duplicates-failed", Duplicates: 4, DuplicatedLines: 120, FilesScanned: 31, Duration: "1.2s"},
		{Timestamp: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), Outcome: "clean", FilesScanned: 30, Duration: "1.1s"},
	}
	require.NoError(t, printHistory(&buf, records, 1))
	out := buf.String()
	assert.Contains(t, out, "duplicates-failed")
	assert.Contains(t, out, "120")
	assert.NotContains(t, out, "clean")
}
