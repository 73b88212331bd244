// Copyright © 2024 The Lithium authors

package command

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"

	"github.com/barmalei/lithium/runner"
	"github.com/barmalei/lithium/syntax"
)

// GotoClass resolves the class under the cursor and returns the source
// files declaring it, searched from the project home. Paths ignored by the
// project's .gitignore are skipped.
func GotoClass(c *Context) (string, []string, error) {
	if err := c.check(); err != nil {
		return "", nil, err
	}
	sym, err := c.symbol()
	if err != nil {
		return "", nil, err
	}
	if sym.Class == "" {
		return "", nil, fmt.Errorf("class name cannot be detected: %w", ErrNothingFound)
	}
	classPath := sym.FilePath()

	root := searchRoot(c)
	files, err := FindClassFiles(c.fs(), root, classPath)
	if err != nil {
		return classPath, nil, err
	}
	if len(files) == 0 {
		return classPath, nil, fmt.Errorf("%s under %s: %w", classPath, root, ErrNothingFound)
	}
	return classPath, files, nil
}

func searchRoot(c *Context) string {
	path := c.Buffer.Path()
	if home, ok := runner.DetectHome(c.fs(), path); ok {
		return home
	}
	if path == "" {
		return "."
	}
	return runner.NewPlaceholders(c.fs(), path, "").SrcHome
}

// FindClassFiles walks root for source files of any registered language
// whose path ends with classPath ("com/acme/Foo"). A nested class path
// falls back to its outermost class file.
func FindClassFiles(afs afero.Fs, root, classPath string) ([]string, error) {
	suffixes := classSuffixes(classPath)
	gi := loadGitignore(afs, root)

	var out []string
	err := afero.Walk(afs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if info.Name() == ".git" || info.Name() == runner.HomeMarker || (gi != nil && (gi.MatchesPath(rel) || gi.MatchesPath(rel+"/"))) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if _, ok := syntax.Detect(path); !ok {
			return nil
		}
		stem := strings.TrimSuffix(rel, filepath.Ext(rel))
		for _, s := range suffixes {
			if stem == s || strings.HasSuffix(stem, "/"+s) {
				out = append(out, path)
				break
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// classSuffixes returns classPath followed by the paths of its enclosing
// classes, innermost first.
func classSuffixes(classPath string) []string {
	out := []string{classPath}
	parts := strings.Split(classPath, "/")
	for i := len(parts) - 1; i > 0; i-- {
		seg := parts[i-1]
		if seg == "" || seg[0] < 'A' || seg[0] > 'Z' {
			break
		}
		out = append(out, strings.Join(parts[:i], "/"))
	}
	return out
}

func loadGitignore(afs afero.Fs, root string) *ignore.GitIgnore {
	data, err := afero.ReadFile(afs, filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	var patterns []string
	for _, l := range strings.Split(string(data), "\n") {
		l = strings.TrimSpace(l)
		if l != "" && !strings.HasPrefix(l, "#") {
			patterns = append(patterns, l)
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}
