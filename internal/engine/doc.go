// Package engine runs a duplicate-detection pass: it configures a detector,
// feeds it the file set, writes every requested report and applies the
// failure policy. This package is internal; external consumers should use the
// stable facade in pkg/core.
package engine
