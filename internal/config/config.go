package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/report"
)

// ErrNotFound is returned when no config file exists in the searched locations.
var ErrNotFound = errors.New("no config file")

// LocalNames are the repo-local file names, in search order.
var LocalNames = []string{".cpd.yml", ".cpd.yaml", "cpd.yml", "cpd.yaml", ".cpd.toml", "cpd.toml"}

// FileConfig is the on-disk configuration shape. Nil fields are unset and
// fall through to the next source in precedence order.
type FileConfig struct {
	MinimumTokens      *int           `yaml:"minimum_tokens,omitempty" toml:"minimum_tokens,omitempty"`
	Language           *string        `yaml:"language,omitempty" toml:"language,omitempty"`
	LanguageOptions    map[string]any `yaml:"language_options,omitempty" toml:"language_options,omitempty"`
	Encoding           *string        `yaml:"encoding,omitempty" toml:"encoding,omitempty"`
	IgnoreFailures     *bool          `yaml:"ignore_failures,omitempty" toml:"ignore_failures,omitempty"`
	SkipLexicalErrors  *bool          `yaml:"skip_lexical_errors,omitempty" toml:"skip_lexical_errors,omitempty"`
	SkipDuplicateFiles *bool          `yaml:"skip_duplicate_files,omitempty" toml:"skip_duplicate_files,omitempty"`

	Include         *string `yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	MaxBytes        *int64  `yaml:"max_bytes,omitempty" toml:"max_bytes,omitempty"`
	Threads         *int    `yaml:"threads,omitempty" toml:"threads,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty" toml:"no_color,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty" toml:"default_excludes,omitempty"`
	GitTracked      *bool   `yaml:"git_tracked,omitempty" toml:"git_tracked,omitempty"`

	Reports []ReportConfig `yaml:"reports,omitempty" toml:"reports,omitempty"`
}

// ReportConfig is one entry of the reports list.
type ReportConfig struct {
	Kind        string `yaml:"kind" toml:"kind"`
	Destination string `yaml:"destination" toml:"destination"`
	// Separator is the CSV field separator: a single character, or "tab".
	Separator string `yaml:"separator,omitempty" toml:"separator,omitempty"`
}

// Spec converts the entry into a report.Spec.
func (rc ReportConfig) Spec() (report.Spec, error) {
	kind, err := report.ParseKind(rc.Kind)
	if err != nil {
		return report.Spec{}, &cpderrors.ConfigError{Option: "reports.kind", Value: rc.Kind, Cause: err}
	}
	if strings.TrimSpace(rc.Destination) == "" {
		return report.Spec{}, &cpderrors.ConfigError{Option: "reports.destination", Message: "missing destination for " + kind.String() + " report"}
	}
	sep, err := ParseSeparator(rc.Separator)
	if err != nil {
		return report.Spec{}, err
	}
	return report.Spec{Kind: kind, Destination: rc.Destination, Separator: sep}, nil
}

// ParseSeparator accepts "", a single character, "tab" or "\t". Empty yields zero.
func ParseSeparator(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, &cpderrors.ConfigError{Option: "separator", Value: s, Message: "must be a single character"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Specs converts every report entry, stopping at the first invalid one.
func (fc FileConfig) Specs() ([]report.Spec, error) {
	specs := make([]report.Spec, 0, len(fc.Reports))
	for _, rc := range fc.Reports {
		s, err := rc.Spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Options returns language options as strings, the form tokenizers accept.
func (fc FileConfig) Options() map[string]string {
	if len(fc.LanguageOptions) == 0 {
		return nil
	}
	out := make(map[string]string, len(fc.LanguageOptions))
	for k, v := range fc.LanguageOptions {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// LoadFile reads a config file. Files ending in .toml are parsed as TOML,
// everything else as YAML.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(b, &cfg)
	} else {
		err = yaml.Unmarshal(b, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes fc for path: TOML for .toml files, YAML otherwise.
func Marshal(path string, fc FileConfig) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Marshal(&fc)
	}
	return yaml.Marshal(&fc)
}

// LoadLocal searches root for the first of LocalNames.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, fmt.Errorf("%w in %s", ErrNotFound, root)
}

// GlobalDir returns $XDG_CONFIG_HOME/cpd or ~/.config/cpd, or "" when neither
// can be determined.
func GlobalDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "cpd")
}

// LoadGlobal loads config.yml (or config.toml) from GlobalDir.
func LoadGlobal() (FileConfig, error) {
	dir := GlobalDir()
	if dir == "" {
		return FileConfig{}, errors.New("no config dir")
	}
	for _, name := range []string{"config.yml", "config.yaml", "config.toml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, fmt.Errorf("%w in %s", ErrNotFound, dir)
}
