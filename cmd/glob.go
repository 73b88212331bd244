// Copyright © 2024 The Lithium authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/barmalei/lithium/syntax"
)

// expandArgs expands file arguments. A pattern ending with "/..." selects
// every source file of a registered language under the directory; glob
// patterns ("src/**/*.java") are matched with doublestar. Other arguments
// pass through unchanged. Paths matching an exclude are dropped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		switch dir, ok := strings.CutSuffix(arg, "/..."); {
		case ok:
			if dir == "" {
				dir = "."
			}
			files, err := findSourceFiles(dir, nil)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		case isGlob(arg):
			if !doublestar.ValidatePathPattern(arg) {
				return nil, fmt.Errorf("invalid pattern %q", arg)
			}
			base, _ := doublestar.SplitPattern(filepath.ToSlash(arg))
			files, err := findSourceFiles(filepath.FromSlash(base), func(path string) bool {
				ok, _ := doublestar.PathMatch(arg, path)
				return ok
			})
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		default:
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// findSourceFiles walks root for files of a registered language accepted
// by match. A nil match accepts every file.
func findSourceFiles(root string, match func(string) bool) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := syntax.Detect(path); !ok {
			return nil
		}
		if match == nil || match(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// filterExcludes removes paths matching any of the exclude patterns.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path matches a pattern as a whole, by base
// name or by one of its directory components.
func matchesAny(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	parts := strings.Split(slashed, "/")
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := doublestar.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
