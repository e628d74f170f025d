package fileset

import (
	"io/fs"
	"path/filepath"
)

// walk lists regular files under the root, relative and slash-separated.
func walk(opts Options) ([]string, error) {
	var out []string
	err := filepath.WalkDir(opts.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == opts.Root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if p != opts.Root && opts.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(opts.Root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		if opts.selected(rel, size) {
			out = append(out, rel)
		}
		return nil
	})
	return out, err
}
