// Package cpderrors defines the error taxonomy of a detection run. Each type
// matches a sentinel through errors.Is and keeps its cause reachable through
// errors.Unwrap, so callers can tell configuration problems, unreadable
// sources, report I/O failures and the duplicates policy failure apart.
package cpderrors
