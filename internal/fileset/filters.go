package fileset

import (
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// directories holding vendored, generated or tool state
var defaultExcludeDirs = map[string]bool{
	"node_modules":     true,
	"vendor":           true,
	"third_party":      true,
	"target":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	".venv":            true,
	"venv":             true,
	"__pycache__":      true,
	".gradle":          true,
	".idea":            true,
	"coverage":         true,
	"bin":              true,
	"obj":              true,
	"generated-source": true,
}

// suffixes of binaries, minified bundles and generated sources
var defaultExcludeFileSuffixes = []string{
	".min.js", ".min.css", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico",
	".pdf", ".zip", ".gz", ".tar", ".tgz", ".7z",
	".jar", ".class", ".exe", ".dll", ".so", ".dylib", ".o", ".a",
	".wasm", ".pyc",
	".pb.go", ".gen.go", "_string.go", ".designer.cs",
}

var defaultExcludeFileNames = map[string]bool{
	"package-lock.json":  true,
	"pnpm-lock.yaml":     true,
	"go.sum":             true,
	".ds_store":          true,
	".cpd_history.jsonl": true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

func isDefaultFileExcluded(lowerRel string) bool {
	if strings.HasSuffix(lowerRel, ".lock") {
		return true
	}
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	if strings.Contains(lowerRel, ".gen.") {
		return true
	}
	return defaultExcludeFileNames[path.Base(lowerRel)]
}

// allowedByGlobs reports whether rel passes the comma-separated include list
// (when non-empty) and none of the exclude patterns.
func allowedByGlobs(rel, include, exclude string) bool {
	rp := strings.ReplaceAll(rel, "\\", "/")
	if includes := parseGlobsList(include); len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if excludes := parseGlobsList(exclude); len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
