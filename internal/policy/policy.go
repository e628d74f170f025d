// Package policy turns detection results into a pass/warn/fail verdict.
package policy

import (
	"fmt"

	"github.com/cpdkit/cpd/internal/cpderrors"
	"github.com/cpdkit/cpd/internal/types"
)

// Outcome is the result of a detection run.
type Outcome int

const (
	// Clean means no duplicates were found.
	Clean Outcome = iota
	// DuplicatesWarned means duplicates were found and failures are ignored.
	DuplicatesWarned
	// DuplicatesFailed means duplicates were found and the run fails.
	DuplicatesFailed
)

func (o Outcome) String() string {
	switch o {
	case Clean:
		return "clean"
	case DuplicatesWarned:
		return "duplicates-warned"
	case DuplicatesFailed:
		return "duplicates-failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Verdict pairs an outcome with its user-facing message.
type Verdict struct {
	Outcome Outcome
	Message string
	// Count is the number of matches evaluated.
	Count int
}

// Err returns a *cpderrors.DuplicatesFoundError for DuplicatesFailed and nil otherwise.
func (v Verdict) Err() error {
	if v.Outcome != DuplicatesFailed {
		return nil
	}
	return &cpderrors.DuplicatesFoundError{Message: v.Message, Count: v.Count}
}

// Evaluate decides the outcome. primaryReport is the first report destination,
// or "" when no report was configured. It has no side effects.
func Evaluate(matches []types.Match, ignoreFailures bool, primaryReport string, minimumTokens int) Verdict {
	if len(matches) == 0 {
		return Verdict{
			Outcome: Clean,
			Message: fmt.Sprintf("No duplicates over %d tokens found.", minimumTokens),
		}
	}

	msg := "CPD found duplicate code."
	if primaryReport != "" {
		msg += " See the report at " + primaryReport
	}
	outcome := DuplicatesFailed
	if ignoreFailures {
		outcome = DuplicatesWarned
	}
	return Verdict{Outcome: outcome, Message: msg, Count: len(matches)}
}
