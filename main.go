package main

import "github.com/cpdkit/cpd/cmd/cpd"

func main() { cpd.Execute() }
