// Package fileset resolves the source files handed to a detection run, either
// by walking a directory tree or by listing the files tracked in a git index.
package fileset

import (
	"path/filepath"
	"sort"
	"strings"
)

// Options controls file selection.
type Options struct {
	Root string
	// IncludeGlobs and ExcludeGlobs are comma-separated doublestar patterns
	// matched against slash-separated paths relative to Root.
	IncludeGlobs string
	ExcludeGlobs string
	// MaxBytes skips larger files; zero disables the limit.
	MaxBytes int64
	// DefaultExcludes skips vendored, generated and binary-looking paths.
	DefaultExcludes bool
	// GitTracked lists files from the git index instead of walking the tree.
	GitTracked bool
	// Accept, if set, is consulted last with the relative path.
	Accept func(rel string) bool
}

// Collect returns the selected files as paths joined to Root, sorted.
func Collect(opts Options) ([]string, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	var (
		rels []string
		err  error
	)
	if opts.GitTracked {
		rels, err = trackedFiles(opts)
	} else {
		rels, err = walk(opts)
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = filepath.Join(opts.Root, filepath.FromSlash(rel))
	}
	return out, nil
}

func (o Options) selected(rel string, size int64) bool {
	if !allowedByGlobs(rel, o.IncludeGlobs, o.ExcludeGlobs) {
		return false
	}
	if o.MaxBytes > 0 && size > o.MaxBytes {
		return false
	}
	if o.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
		return false
	}
	if o.Accept != nil && !o.Accept(rel) {
		return false
	}
	return true
}
