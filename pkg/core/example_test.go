package core_test

import (
	"fmt"
	"os"

	"github.com/cpdkit/cpd/pkg/core"
)

// ExampleRun runs a pass over two files and writes a text report.
func ExampleRun() {
	cfg := core.Config{
		Detection: core.DetectionConfig{
			MinimumTokens: 100,
			Language:      "java",
			Encoding:      "UTF-8",
		},
		Files:   []string{"src/A.java", "src/B.java"},
		Reports: []core.ReportSpec{{Kind: core.Text, Destination: "build/cpd.txt"}},
		// Report duplicates without failing the caller.
		IgnoreFailures: true,
	}

	outcome, err := core.Run(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cpd failed: %v\n", err)
		return
	}
	fmt.Println("outcome:", outcome)
}

// ExampleDetect inspects matches without writing any report.
func ExampleDetect() {
	matches, err := core.Detect(core.DetectionConfig{MinimumTokens: 50, Language: "go"}, []string{"a.go", "b.go"}, nil)
	if err != nil {
		panic(err)
	}
	for _, m := range matches {
		first := m.FirstMark()
		fmt.Printf("%d tokens, %d occurrences, first at %s:%d\n", m.Tokens, len(m.Marks), first.Path, first.BeginLine)
	}
	_ = core.MarshalMatches(os.Stdout, matches)
}
