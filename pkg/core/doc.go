// Package core provides a small, stable facade over the cpd engine for
// build tools and other programs that want to run a duplicate-code pass
// without importing internal packages.
//
// Example:
//
//	cfg := core.Config{
//		Detection: core.DetectionConfig{MinimumTokens: 100, Language: "java"},
//		Files:     files,
//		Reports:   []core.ReportSpec{{Kind: core.XML, Destination: "build/cpd.xml"}},
//	}
//	outcome, err := core.Run(cfg, nil)
//	if err != nil { /* duplicates failed the build, or the pass could not run */ }
package core
