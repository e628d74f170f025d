package report

import (
	"fmt"
	"strings"
)

// Kind is the closed set of report formats.
type Kind int

const (
	CSV Kind = iota + 1
	Text
	XML
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{CSV, Text, XML}

func (k Kind) String() string {
	switch k {
	case CSV:
		return "csv"
	case Text:
		return "text"
	case XML:
		return "xml"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts csv, text or xml in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "text", "txt":
		return Text, nil
	case "xml":
		return XML, nil
	default:
		return 0, fmt.Errorf("unknown report kind %q (want csv, text or xml)", s)
	}
}

// Spec describes one requested report.
type Spec struct {
	Kind        Kind
	Destination string
	// Separator is the CSV field separator; zero selects ','.
	Separator rune
}
