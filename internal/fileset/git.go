package fileset

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// trackedFiles lists index entries below the root. The repository is found by
// walking up from the root.
func trackedFiles(opts Options) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(opts.Root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %s: %w", opts.Root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("git worktree: %w", err)
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("git index: %w", err)
	}

	prefix, err := rootPrefix(wt.Filesystem.Root(), opts.Root)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range idx.Entries {
		name := e.Name
		if prefix != "" {
			if !strings.HasPrefix(name, prefix+"/") {
				continue
			}
			name = strings.TrimPrefix(name, prefix+"/")
		}
		if opts.DefaultExcludes && inDefaultExcludedDir(name) {
			continue
		}
		info, err := os.Stat(filepath.Join(opts.Root, filepath.FromSlash(name)))
		if err != nil || !info.Mode().IsRegular() {
			// deleted in the worktree or not a plain file
			continue
		}
		if opts.selected(name, info.Size()) {
			out = append(out, name)
		}
	}
	return out, nil
}

// rootPrefix returns root relative to the worktree top, slash-separated, or "".
func rootPrefix(top, root string) (string, error) {
	absTop, err := filepath.Abs(top)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absTop); err == nil {
		absTop = resolved
	}
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}
	rel, err := filepath.Rel(absTop, absRoot)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", nil
	}
	if strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside the git worktree %s", root, top)
	}
	return path.Clean(rel), nil
}

func inDefaultExcludedDir(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, dir := range parts[:len(parts)-1] {
		if isDefaultDirExcluded(dir) {
			return true
		}
	}
	return false
}
