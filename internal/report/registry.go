package report

import (
	"unicode/utf8"

	"github.com/cpdkit/cpd/internal/charset"
	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/types"
)

// Renderer serializes matches into a report body. Render is pure: it performs
// no I/O and returns the same bytes for the same input. Output is UTF-8;
// the caller encodes it to the target charset.
type Renderer interface {
	Render(matches []types.Match) ([]byte, error)
}

// RendererFor returns the renderer for spec.Kind. encoding is the declared
// output charset, used by formats that embed it.
func RendererFor(spec Spec, encoding string) (Renderer, error) {
	switch spec.Kind {
	case CSV:
		sep := spec.Separator
		if sep == 0 {
			sep = ','
		}
		if !validSeparator(sep) {
			return nil, &cpderrors.ConfigError{Option: "separator", Value: string(sep), Message: "invalid CSV separator"}
		}
		return csvRenderer{separator: sep}, nil
	case Text:
		return textRenderer{}, nil
	case XML:
		if encoding == "" {
			encoding = charset.Default
		}
		return xmlRenderer{encoding: encoding}, nil
	default:
		return nil, &cpderrors.UnsupportedReportKindError{Kind: int(spec.Kind)}
	}
}

func validSeparator(r rune) bool {
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}
