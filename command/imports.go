// Copyright © 2024 The Lithium authors

package command

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/imports"
	"github.com/barmalei/lithium/resolver"
)

// SortImports rewrites the import block sorted and grouped.
func SortImports(c *Context) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	res := &Result{}
	sortImports(res, c.source(), c.config().Imports.StandardPrefixes)
	return res, nil
}

func sortImports(res *Result, src string, standard []string) {
	edit, ok := imports.Rewrite(src, standard...)
	if !ok {
		res.infof("no imports to sort")
		return
	}
	if src[edit.Region.Start:edit.Region.End] == edit.NewText {
		return
	}
	res.Edits = append(res.Edits, edit)
}

// RemoveUnusedImports asks the style checker for unused imports and
// deletes their lines, last line first.
func RemoveUnusedImports(c *Context) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	res := &Result{}
	if err := removeUnused(c, res, c.source()); err != nil {
		return nil, err
	}
	return res, nil
}

// UnusedImports asks the style checker which imports of the buffer are
// unused, without editing anything.
func UnusedImports(c *Context) ([]imports.Unused, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return unusedImports(c)
}

func unusedImports(c *Context) ([]imports.Unused, error) {
	path := c.Buffer.Path()
	if path == "" {
		return nil, fmt.Errorf("buffer has no file: %w", ErrNothingFound)
	}
	patterns, err := classinfo.CompilePatterns(c.config().Location.Patterns)
	if err != nil {
		return nil, err
	}
	lines, err := c.tool(fmt.Sprintf(`%s"%s"`, classinfo.UnusedCommand, path), nil)
	if err != nil {
		return nil, err
	}

	var unused []imports.Unused
	for _, line := range lines {
		for _, loc := range classinfo.DetectLocations(line, patterns) {
			if imp, ok := imports.UnusedImport(loc.Description); ok {
				log.Debugf("unused import %s at line %d", imp, loc.Line)
				unused = append(unused, imports.Unused{Path: imp, Line: loc.Line})
			}
		}
	}
	return unused, nil
}

func removeUnused(c *Context, res *Result, src string) error {
	unused, err := unusedImports(c)
	if err != nil {
		return err
	}
	if len(unused) == 0 {
		res.warnf("unused imports have not been detected")
		return nil
	}

	entries := imports.Parse(src)
	if entries == nil {
		entries = []imports.Entry{}
	}
	res.Edits = append(res.Edits, imports.RemoveUnused(src, entries, imports.UnusedLines(unused))...)
	sort.SliceStable(unused, func(i, j int) bool { return unused[i].Line > unused[j].Line })
	for _, u := range unused {
		res.warnf("remove unused import '%s' at line %d", u.Path, u.Line)
	}
	return nil
}

// ValidateImports removes the unused imports, then sorts the rest.
func ValidateImports(c *Context) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	res := &Result{}
	src := c.source()
	if err := removeUnused(c, res, src); err != nil {
		return nil, err
	}
	src, err := res.Apply(src)
	if err != nil {
		return nil, err
	}
	sortImports(res, src, c.config().Imports.StandardPrefixes)
	return res, nil
}

// CompleteOptions tune CompleteImport.
type CompleteOptions struct {
	// Inline replaces the word with the fully-qualified name instead of
	// adding an import.
	Inline bool
	// AutoApply takes a single candidate without asking.
	AutoApply bool
}

// CompleteImport looks the selected word up in the class path and imports
// the class the user picks.
func CompleteImport(c *Context, o CompleteOptions) (*Result, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	region, word, err := c.word()
	if err != nil {
		return nil, err
	}
	if len(word) < 2 {
		return nil, fmt.Errorf("word %q is too short: %w", word, ErrNothingFound)
	}

	syntax := c.Buffer.Syntax()
	env := filepath.Join(".env", strings.ToUpper(syntax))
	lines, err := c.tool(fmt.Sprintf(`%s"%s" %s.class`, classinfo.FindCommand, env, word), nil)
	if err != nil {
		return nil, err
	}
	found := classinfo.ParseClassPaths(lines)

	res := &Result{}
	res.infof("completing '%s' word", word)
	switch limit := c.config().Complete.MaxVariants; {
	case len(found) == 0:
		res.warnf("no class has been found for '%s' word", word)
		return res, nil
	case limit > 0 && len(found) > limit:
		res.warnf("too many variants (more than %d) detected:\n%s", limit, indentList(found))
		return res, nil
	}

	var class string
	if len(found) == 1 && o.AutoApply {
		class = found[0]
	} else {
		sort.Strings(found)
		if c.Choose == nil {
			res.warnf("%d variants found for '%s':\n%s", len(found), word, indentList(found))
			return res, nil
		}
		labels := found
		if pkg, _, ok := c.resolver().DetectClassPackage(c.Buffer, word); ok && pkg != "" {
			labels = make([]string, len(found))
			for i, f := range found {
				labels[i] = f
				if strings.HasPrefix(f, pkg+".") {
					labels[i] += " (*)"
				}
			}
		}
		idx, ok := c.Choose("Import class", labels)
		if !ok || idx < 0 || idx >= len(found) {
			return res, nil
		}
		class = found[idx]
	}

	src := c.source()
	entries := imports.Parse(src)
	if imports.Table(entries).Declared(class) {
		res.warnf("import '%s' is already declared", class)
		return res, nil
	}
	if o.Inline {
		res.Edits = append(res.Edits, buffer.Edit{Region: region, NewText: class})
		return res, nil
	}
	_, pkgRegion, hasPkg := resolver.PackageDeclaration(c.Buffer)
	res.Edits = append(res.Edits, imports.Insert(src, entries, class, imports.Insertion{
		Syntax:     syntax,
		Package:    pkgRegion,
		HasPackage: hasPkg,
	}))
	res.infof("import '%s' added", class)
	return res, nil
}
