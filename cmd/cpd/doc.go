// Package cpd provides the command-line interface for cpd. It wires
// subcommands (check, languages, config, ci, completion), resolves flags
// against config files and runs the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/cpdkit/cpd/cmd/cpd"
//	func main() { cpd.Execute() }
package cpd
