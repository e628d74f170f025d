package engine

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cpdkit/cpd/internal/charset"
	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/report"
	"github.com/cpdkit/cpd/internal/types"
)

// writeReport renders matches for spec, encodes the body to cs and stores it
// at spec.Destination, creating parent directories.
func writeReport(spec report.Spec, matches []types.Match, cs charset.Charset) error {
	fail := func(err error) error {
		return &cpderrors.ReportWriteError{Kind: spec.Kind.String(), Destination: spec.Destination, Cause: err}
	}

	r, err := report.RendererFor(spec, cs.Name())
	if err != nil {
		return err
	}
	if spec.Destination == "" {
		return fail(errors.New("no destination"))
	}
	body, err := r.Render(matches)
	if err != nil {
		return fail(err)
	}
	encoded, err := cs.Encode(string(body))
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(spec.Destination), 0o755); err != nil {
		return fail(err)
	}
	f, err := os.Create(spec.Destination)
	if err != nil {
		return fail(err)
	}
	if _, err := f.Write(encoded); err != nil {
		_ = f.Close()
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	return nil
}
