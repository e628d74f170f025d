package factory

import (
	"errors"

	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/language"
	"github.com/cpdkit/cpd/internal/scanner"
	"github.com/cpdkit/cpd/internal/scanner/tiles"
)

// New creates a detector for the configuration.
// Every rejected setting is reported as a *cpderrors.ConfigError.
func New(cfg scanner.Config) (scanner.Detector, error) {
	if cfg.MinimumTokens <= 0 {
		return nil, &cpderrors.ConfigError{
			Option:  "minimum_tokens",
			Value:   cfg.MinimumTokens,
			Message: "must be greater than zero",
		}
	}

	tok, err := language.New(cfg.Language, cfg.LanguageOptions)
	if err != nil {
		switch {
		case errors.Is(err, language.ErrUnknownLanguage):
			return nil, &cpderrors.ConfigError{Option: "language", Value: cfg.Language, Message: "unknown language"}
		default:
			return nil, &cpderrors.ConfigError{Option: "language_options", Cause: err}
		}
	}

	return tiles.New(tok, cfg.MinimumTokens), nil
}

// Languages returns the accepted language ids.
// This is used for help output without instantiating a detector.
func Languages() []string {
	return language.IDs()
}
